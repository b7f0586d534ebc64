package rating

import "time"

const (
	MinValue = 1
	MaxValue = 10
)

// Rating is one user vote on a player, coach, or match. At most one of
// PlayerID and CoachID is set; MatchID is either the rated entity itself
// or the match context of a player or coach rating.
type Rating struct {
	ID        int64
	UserID    string
	PlayerID  *int64
	CoachID   *int64
	MatchID   *int64
	Value     int
	Comment   string
	CreatedAt time.Time
}

func (r Rating) TargetsPlayer() bool { return r.PlayerID != nil }
func (r Rating) TargetsCoach() bool  { return r.CoachID != nil }
func (r Rating) TargetsMatch() bool {
	return r.MatchID != nil && r.PlayerID == nil && r.CoachID == nil
}

func ValidValue(v int) bool {
	return v >= MinValue && v <= MaxValue
}
