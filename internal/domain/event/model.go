package event

import (
	"strconv"
	"strings"
	"time"
)

// Source tags where a batch of events came from. Fallback batches are
// hardcoded backup data substituted when a provider returned nothing.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

const (
	SportFootball   = "football"
	SportBasketball = "basketball"
	SportRugby      = "rugby"
	SportFormula1   = "formula1"
	SportMMA        = "mma"
	SportTennis     = "tennis"
)

const (
	TypeMatch = "match"
	TypeRace  = "race"
	TypeFight = "fight"
	TypeGame  = "game"
)

// UnifiedEvent is the provider-agnostic record of one completed sporting
// event. It is built by a gateway, never mutated afterwards, and either
// persisted as a match row or discarded as a near-duplicate.
type UnifiedEvent struct {
	ExternalID  string
	Sport       string
	Competition string
	HomeTeam    string
	AwayTeam    string
	HomeScore   string
	AwayScore   string
	Date        time.Time
	Status      string
	Venue       string
	Season      string
	EventType   string
	Details     map[string]string
	Source      Source
}

// FetchResult is what a gateway hands the orchestrator. Gateways never
// return errors; a failed fetch yields zero events.
type FetchResult struct {
	Events []UnifiedEvent
	Source Source
}

// Reserved detail keys. Gateways for individual sports name the people
// behind an event here so the persistence step can create player and
// coach rows for them.
const (
	DetailSource     = "source"
	DetailHomePlayer = "home_player"
	DetailAwayPlayer = "away_player"
	DetailHomeTeam   = "home_player_team"
	DetailAwayTeam   = "away_player_team"
	DetailHomeCoach  = "home_coach"
	DetailAwayCoach  = "away_coach"
)

// ParseScore resolves a raw provider score to a storable integer.
// Symbolic outcomes map to 1/0, anything unparsable defaults to 0.
func ParseScore(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}

	switch strings.ToUpper(trimmed) {
	case "W":
		return 1
	case "L":
		return 0
	}

	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 {
		return n
	}

	return 0
}

// DedupWindow is the date tolerance for the heuristic duplicate check.
const DedupWindow = 24 * time.Hour
