package match

import "time"

const (
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
	StatusUnknown   = "unknown"
)

// Match is the durable form of a unified event. Rating aggregates are
// maintained by the rating endpoints, not by the importer.
type Match struct {
	ID           int64
	PublicID     string
	ExternalID   string
	Sport        string
	Competition  string
	HomeTeam     string
	AwayTeam     string
	HomeScore    int
	AwayScore    int
	HomeLogoURL  string
	AwayLogoURL  string
	Date         time.Time
	Status       string
	Venue        string
	Season       string
	EventType    string
	Details      map[string]string
	AvgRating    float64
	TotalRatings int
	CreatedAt    time.Time
}

// NormalizeStatus folds provider status strings into the small set the
// API exposes.
func NormalizeStatus(raw string) string {
	switch raw {
	case "FT", "AET", "PEN", "Match Finished", "Finished", "finished", "Ended":
		return StatusFinished
	case "CANC", "ABD", "Cancelled", "cancelled", "Postponed":
		return StatusCancelled
	default:
		if raw == "" {
			return StatusUnknown
		}
		return raw
	}
}
