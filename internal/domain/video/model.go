package video

import "time"

// Suggestion is a community-submitted highlight link for a match.
type Suggestion struct {
	ID        int64
	MatchID   int64
	UserID    string
	Title     string
	URL       string
	Upvotes   int
	Downvotes int
	CreatedAt time.Time
}

// Score orders suggestions; ties resolve by recency at the repository.
func (s Suggestion) Score() int {
	return s.Upvotes - s.Downvotes
}

const (
	VoteUp   = 1
	VoteDown = -1
)
