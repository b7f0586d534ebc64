package coach

import "time"

// Coach rows follow the same non-fused storage rule as players: one row
// per distinct (name, team, sport) tuple as imported.
type Coach struct {
	ID        int64
	Name      string
	Team      string
	Sport     string
	Style     string
	CreatedAt time.Time
}
