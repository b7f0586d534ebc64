package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sporating/sporating/internal/domain/coach"
	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/domain/player"
	"github.com/sporating/sporating/internal/domain/rating"
	"github.com/sporating/sporating/internal/platform/logging"
)

const (
	KindPlayer = "player"
	KindCoach  = "coach"

	monthlyBuckets = 12

	// coachMatchBonusWeight scales the volume bonus added to a coach's
	// sort score. Small on purpose: a long career breaks ties, it does
	// not outrank a better-rated coach by much.
	coachMatchBonusWeight = 0.1
)

// LeaderboardQuery narrows and sizes a leaderboard computation. A zero
// Period means all time.
type LeaderboardQuery struct {
	Kind       string
	Sport      string
	Position   string
	MinMatches int
	Period     time.Duration
	Limit      int
}

// Entity is one fused person: every stored row whose normalized name
// resolves to the same canonical key, merged.
type Entity struct {
	Name          string          `json:"name"`
	CanonicalName string          `json:"canonicalName"`
	Sport         string          `json:"sport"`
	Teams         []string        `json:"teams"`
	SourceRows    int             `json:"sourceRows"`
	TotalRatings  int             `json:"totalRatings"`
	TotalMatches  int             `json:"totalMatches"`
	AvgRating     float64         `json:"avgRating"`
	BestRating    int             `json:"bestRating"`
	RecentForm    []RecentMatch   `json:"recentForm"`
	MonthlySeries []MonthlyPoint  `json:"monthlySeries"`
	TeamBreakdown []TeamBreakdown `json:"teamBreakdown"`
	Insights      []string        `json:"insights,omitempty"`
}

// RecentMatch is one rated match in an entity's recent form, with
// same-match ratings already averaged.
type RecentMatch struct {
	MatchID   int64     `json:"matchId,omitempty"`
	AvgRating float64   `json:"avgRating"`
	Ratings   int       `json:"ratings"`
	Date      time.Time `json:"date"`
}

type MonthlyPoint struct {
	Month     string  `json:"month"`
	AvgRating float64 `json:"avgRating"`
	Ratings   int     `json:"ratings"`
}

type TeamBreakdown struct {
	Team      string  `json:"team"`
	Matches   int     `json:"matches"`
	AvgRating float64 `json:"avgRating"`
}

// Leaderboard is the full computation result: the ranked entities plus
// dataset statistics.
type Leaderboard struct {
	Kind    string           `json:"kind"`
	Entries []Entity         `json:"entries"`
	Stats   LeaderboardStats `json:"stats"`
}

type LeaderboardStats struct {
	SourceRows    int            `json:"sourceRows"`
	FusedEntities int            `json:"fusedEntities"`
	GlobalAvg     float64        `json:"globalAvg"`
	BySport       map[string]int `json:"bySport"`
	ByPosition    map[string]int `json:"byPosition,omitempty"`
	ByStyle       map[string]int `json:"byStyle,omitempty"`
}

// FusionService recomputes leaderboards from raw rows on every request.
// Stored player and coach rows are never merged at write time, so all
// identity resolution happens here.
type FusionService struct {
	playerRepo    player.Repository
	coachRepo     coach.Repository
	ratingRepo    rating.Repository
	matchRepo     match.Repository
	aliases       *AliasTable
	recentMatches int
	defaultLimit  int
	logger        *logging.Logger
	now           func() time.Time
}

func NewFusionService(
	playerRepo player.Repository,
	coachRepo coach.Repository,
	ratingRepo rating.Repository,
	matchRepo match.Repository,
	aliases *AliasTable,
	recentMatches int,
	defaultLimit int,
	logger *logging.Logger,
) *FusionService {
	if aliases == nil {
		aliases = NewAliasTable()
	}
	if recentMatches < 1 {
		recentMatches = 5
	}
	if defaultLimit < 1 {
		defaultLimit = 50
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FusionService{
		playerRepo:    playerRepo,
		coachRepo:     coachRepo,
		ratingRepo:    ratingRepo,
		matchRepo:     matchRepo,
		aliases:       aliases,
		recentMatches: recentMatches,
		defaultLimit:  defaultLimit,
		logger:        logger,
		now:           time.Now,
	}
}

// ComputeLeaderboard fuses stored rows into ranked entities. An empty
// result is a valid answer; only repository failures error.
func (s *FusionService) ComputeLeaderboard(ctx context.Context, query LeaderboardQuery) (Leaderboard, error) {
	ctx, span := startSpan(ctx, "FusionService.ComputeLeaderboard",
		trace.WithAttributes(
			attribute.String("leaderboard.kind", query.Kind),
			attribute.String("leaderboard.sport", query.Sport),
		))
	defer span.End()

	if query.Kind == "" {
		query.Kind = KindPlayer
	}
	if query.Kind != KindPlayer && query.Kind != KindCoach {
		return Leaderboard{}, crerr.Wrapf(ErrInvalidInput, "unknown leaderboard kind %q", query.Kind)
	}
	if query.Limit <= 0 {
		query.Limit = s.defaultLimit
	}

	var since time.Time
	if query.Period > 0 {
		since = s.now().Add(-query.Period)
	}

	rows, ratingsByRow, err := s.loadRows(ctx, query, since)
	if err != nil {
		return Leaderboard{}, err
	}

	groups := s.fuse(rows, ratingsByRow)
	entities := s.filterAndMeasure(ctx, groups, query.MinMatches)
	s.rank(entities, query.Kind)

	stats := s.stats(rows, entities, ratingsByRow, query.Kind)
	if len(entities) > query.Limit {
		entities = entities[:query.Limit]
	}
	if entities == nil {
		entities = []Entity{}
	}

	return Leaderboard{Kind: query.Kind, Entries: entities, Stats: stats}, nil
}

// GetEntity returns the fused detail for one name, resolving aliases the
// same way the leaderboard does.
func (s *FusionService) GetEntity(ctx context.Context, kind, name string) (Entity, error) {
	ctx, span := startSpan(ctx, "FusionService.GetEntity")
	defer span.End()

	if name == "" {
		return Entity{}, crerr.Wrap(ErrInvalidInput, "name is required")
	}

	board, err := s.ComputeLeaderboard(ctx, LeaderboardQuery{Kind: kind, Limit: math.MaxInt32 / 2})
	if err != nil {
		return Entity{}, err
	}

	canonical := s.aliases.Canonical(name)
	for _, entity := range board.Entries {
		if entity.CanonicalName == canonical {
			return entity, nil
		}
	}
	return Entity{}, crerr.Wrapf(ErrNotFound, "%s %q", kind, name)
}

// fusedRow is one stored person row plus the ratings attributed to it.
type fusedRow struct {
	id       int64
	name     string
	team     string
	sport    string
	position string
	style    string
}

func (s *FusionService) loadRows(ctx context.Context, query LeaderboardQuery, since time.Time) ([]fusedRow, map[int64][]rating.Rating, error) {
	var rows []fusedRow

	switch query.Kind {
	case KindPlayer:
		players, err := s.playerRepo.List(ctx, query.Sport, query.Position)
		if err != nil {
			return nil, nil, crerr.Wrap(err, "list players")
		}
		for _, p := range players {
			rows = append(rows, fusedRow{
				id: p.ID, name: p.Name, team: p.Team, sport: p.Sport, position: p.Position,
			})
		}
	case KindCoach:
		coaches, err := s.coachRepo.List(ctx, query.Sport)
		if err != nil {
			return nil, nil, crerr.Wrap(err, "list coaches")
		}
		for _, c := range coaches {
			rows = append(rows, fusedRow{
				id: c.ID, name: c.Name, team: c.Team, sport: c.Sport, style: c.Style,
			})
		}
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.id)
	}
	if len(ids) == 0 {
		return nil, map[int64][]rating.Rating{}, nil
	}

	var (
		ratings []rating.Rating
		err     error
	)
	if query.Kind == KindPlayer {
		ratings, err = s.ratingRepo.ListByPlayerIDs(ctx, ids, since)
	} else {
		ratings, err = s.ratingRepo.ListByCoachIDs(ctx, ids, since)
	}
	if err != nil {
		return nil, nil, crerr.Wrap(err, "list ratings")
	}

	byRow := make(map[int64][]rating.Rating, len(rows))
	for _, rt := range ratings {
		switch query.Kind {
		case KindPlayer:
			if rt.PlayerID != nil {
				byRow[*rt.PlayerID] = append(byRow[*rt.PlayerID], rt)
			}
		case KindCoach:
			if rt.CoachID != nil {
				byRow[*rt.CoachID] = append(byRow[*rt.CoachID], rt)
			}
		}
	}

	// Rows without a rating in the window are not candidates.
	candidates := rows[:0]
	for _, row := range rows {
		if len(byRow[row.id]) > 0 {
			candidates = append(candidates, row)
		}
	}
	return candidates, byRow, nil
}

type fusedGroup struct {
	canonical string
	display   string
	sport     string
	style     string
	teams     []string
	teamSeen  map[string]bool
	rows      int
	ratings   []rating.Rating
}

func (s *FusionService) fuse(rows []fusedRow, ratingsByRow map[int64][]rating.Rating) []*fusedGroup {
	groups := make(map[string]*fusedGroup)
	var order []string

	for _, row := range rows {
		canonical := s.aliases.Canonical(row.name)
		group, ok := groups[canonical]
		if !ok {
			group = &fusedGroup{
				canonical: canonical,
				display:   row.name,
				sport:     row.sport,
				style:     row.style,
				teamSeen:  make(map[string]bool),
			}
			groups[canonical] = group
			order = append(order, canonical)
		}
		group.rows++
		if row.team != "" && !group.teamSeen[row.team] {
			group.teamSeen[row.team] = true
			group.teams = append(group.teams, row.team)
		}
		group.ratings = append(group.ratings, ratingsByRow[row.id]...)
	}

	out := make([]*fusedGroup, 0, len(order))
	for _, canonical := range order {
		out = append(out, groups[canonical])
	}
	return out
}

func (s *FusionService) filterAndMeasure(ctx context.Context, groups []*fusedGroup, minMatches int) []Entity {
	var entities []Entity
	for _, group := range groups {
		if len(group.ratings) < minMatches {
			continue
		}
		entities = append(entities, s.measure(ctx, group))
	}
	return entities
}

func (s *FusionService) measure(ctx context.Context, group *fusedGroup) Entity {
	entity := Entity{
		Name:          group.display,
		CanonicalName: group.canonical,
		Sport:         group.sport,
		Teams:         group.teams,
		SourceRows:    group.rows,
		TotalRatings:  len(group.ratings),
	}

	var sum int
	for _, rt := range group.ratings {
		sum += rt.Value
		if rt.Value > entity.BestRating {
			entity.BestRating = rt.Value
		}
	}
	entity.AvgRating = round2(float64(sum) / float64(len(group.ratings)))

	matchGroups := groupByMatch(group.ratings)
	entity.TotalMatches = len(matchGroups)
	entity.RecentForm = recentForm(matchGroups, s.recentMatches)
	entity.MonthlySeries = monthlySeries(group.ratings, s.now())
	entity.TeamBreakdown = s.teamBreakdown(ctx, group, matchGroups)
	return entity
}

// matchGroup collects the ratings that belong to one rated match. Ratings
// without match context each count as their own match.
type matchGroup struct {
	matchID int64
	ratings []rating.Rating
	latest  time.Time
}

func groupByMatch(ratings []rating.Rating) []*matchGroup {
	byID := make(map[int64]*matchGroup)
	var groups []*matchGroup

	for _, rt := range ratings {
		if rt.MatchID == nil {
			groups = append(groups, &matchGroup{ratings: []rating.Rating{rt}, latest: rt.CreatedAt})
			continue
		}
		group, ok := byID[*rt.MatchID]
		if !ok {
			group = &matchGroup{matchID: *rt.MatchID}
			byID[*rt.MatchID] = group
			groups = append(groups, group)
		}
		group.ratings = append(group.ratings, rt)
		if rt.CreatedAt.After(group.latest) {
			group.latest = rt.CreatedAt
		}
	}
	return groups
}

func (g *matchGroup) avg() float64 {
	var sum int
	for _, rt := range g.ratings {
		sum += rt.Value
	}
	return round2(float64(sum) / float64(len(g.ratings)))
}

func recentForm(groups []*matchGroup, limit int) []RecentMatch {
	sorted := append([]*matchGroup(nil), groups...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].latest.After(sorted[j].latest) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	form := make([]RecentMatch, 0, len(sorted))
	for _, group := range sorted {
		form = append(form, RecentMatch{
			MatchID:   group.matchID,
			AvgRating: group.avg(),
			Ratings:   len(group.ratings),
			Date:      group.latest,
		})
	}
	return form
}

// monthlySeries builds twelve month buckets ending at the current month.
// Empty buckets stay in the series with zero values.
func monthlySeries(ratings []rating.Rating, now time.Time) []MonthlyPoint {
	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[string]*bucket, monthlyBuckets)
	for _, rt := range ratings {
		key := rt.CreatedAt.UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += rt.Value
		b.count++
	}

	series := make([]MonthlyPoint, 0, monthlyBuckets)
	cursor := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(monthlyBuckets - 1), 0)
	for i := 0; i < monthlyBuckets; i++ {
		key := cursor.Format("2006-01")
		point := MonthlyPoint{Month: key}
		if b, ok := buckets[key]; ok && b.count > 0 {
			point.AvgRating = round2(float64(b.sum) / float64(b.count))
			point.Ratings = b.count
		}
		series = append(series, point)
		cursor = cursor.AddDate(0, 1, 0)
	}
	return series
}

// teamBreakdown attributes each rated match to one of the entity's teams
// by substring match against the match participants, falling back to the
// first known team. Match lookups that fail degrade to the fallback
// rather than erroring; the breakdown is decoration, not the ranking.
func (s *FusionService) teamBreakdown(ctx context.Context, group *fusedGroup, matchGroups []*matchGroup) []TeamBreakdown {
	if len(group.teams) == 0 {
		return nil
	}
	fallback := group.teams[0]

	var matchIDs []int64
	for _, mg := range matchGroups {
		if mg.matchID != 0 {
			matchIDs = append(matchIDs, mg.matchID)
		}
	}

	matchesByID := make(map[int64]match.Match)
	if len(matchIDs) > 0 {
		matches, err := s.matchRepo.ListByIDs(ctx, matchIDs)
		if err != nil {
			s.logger.WarnContext(ctx, "team breakdown match lookup failed",
				"entity", group.canonical, "error", err)
		} else {
			for _, m := range matches {
				matchesByID[m.ID] = m
			}
		}
	}

	type teamAgg struct {
		matches int
		sum     float64
	}
	aggs := make(map[string]*teamAgg, len(group.teams))
	for _, team := range group.teams {
		aggs[team] = &teamAgg{}
	}

	for _, mg := range matchGroups {
		team := fallback
		if m, ok := matchesByID[mg.matchID]; ok {
			if attributed := attributeTeam(group.teams, m); attributed != "" {
				team = attributed
			}
		}
		aggs[team].matches++
		aggs[team].sum += mg.avg()
	}

	breakdown := make([]TeamBreakdown, 0, len(group.teams))
	for _, team := range group.teams {
		agg := aggs[team]
		if agg.matches == 0 {
			continue
		}
		breakdown = append(breakdown, TeamBreakdown{
			Team:      team,
			Matches:   agg.matches,
			AvgRating: round2(agg.sum / float64(agg.matches)),
		})
	}
	return breakdown
}

func attributeTeam(teams []string, m match.Match) string {
	home := normalizeName(m.HomeTeam)
	away := normalizeName(m.AwayTeam)
	for _, team := range teams {
		normalized := normalizeName(team)
		if normalized == "" {
			continue
		}
		if strings.Contains(home, normalized) || strings.Contains(normalized, home) ||
			strings.Contains(away, normalized) || strings.Contains(normalized, away) {
			return team
		}
	}
	return ""
}

func (s *FusionService) rank(entities []Entity, kind string) {
	score := func(e Entity) float64 {
		if kind == KindCoach {
			return e.AvgRating + coachMatchBonusWeight*math.Log10(1+float64(e.TotalMatches))
		}
		return e.AvgRating
	}

	sort.SliceStable(entities, func(i, j int) bool {
		si, sj := score(entities[i]), score(entities[j])
		if si != sj {
			return si > sj
		}
		return entities[i].TotalMatches > entities[j].TotalMatches
	})

	if kind == KindCoach {
		for i := range entities {
			entities[i].Insights = coachInsights(entities[i])
		}
	}
}

// coachInsights derives short tactical notes from the rating shape.
func coachInsights(e Entity) []string {
	var insights []string
	switch {
	case e.AvgRating >= 8.5:
		insights = append(insights, "elite match preparation, fans rate nearly every game highly")
	case e.AvgRating >= 7:
		insights = append(insights, "consistently well rated across the period")
	case e.AvgRating < 5:
		insights = append(insights, "ratings trending critical, recent games poorly received")
	}
	if e.TotalMatches >= 20 {
		insights = append(insights, fmt.Sprintf("large body of work, %d rated matches", e.TotalMatches))
	}
	if spread := float64(e.BestRating) - e.AvgRating; spread >= 3 {
		insights = append(insights, "divisive profile, peak ratings far above the average")
	}
	if len(insights) == 0 {
		insights = append(insights, "steady mid-table rating profile")
	}
	return insights
}

func (s *FusionService) stats(rows []fusedRow, entities []Entity, ratingsByRow map[int64][]rating.Rating, kind string) LeaderboardStats {
	stats := LeaderboardStats{
		SourceRows:    len(rows),
		FusedEntities: len(entities),
		BySport:       make(map[string]int),
	}
	if kind == KindPlayer {
		stats.ByPosition = make(map[string]int)
	} else {
		stats.ByStyle = make(map[string]int)
	}

	var sum, count int
	for _, row := range rows {
		stats.BySport[row.sport]++
		if kind == KindPlayer {
			if row.position != "" {
				stats.ByPosition[row.position]++
			}
		} else if row.style != "" {
			stats.ByStyle[row.style]++
		}
		for _, rt := range ratingsByRow[row.id] {
			sum += rt.Value
			count++
		}
	}
	if count > 0 {
		stats.GlobalAvg = round2(float64(sum) / float64(count))
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
