package player

import "time"

const (
	PositionGoalkeeper = "goalkeeper"
	PositionDefender   = "defender"
	PositionMidfielder = "midfielder"
	PositionForward    = "forward"
)

// Player rows are stored exactly as imported, one row per distinct
// (name, team, sport, position) tuple. The same real-world person may
// exist as several rows; fusion happens at read time.
type Player struct {
	ID        int64
	Name      string
	Team      string
	Sport     string
	Position  string
	ImageURL  string
	CreatedAt time.Time
}
