package matchlist

import "time"

// MatchList is a user-curated, ordered collection of matches.
type MatchList struct {
	ID        int64
	PublicID  string
	UserID    string
	Name      string
	Entries   []Entry
	CreatedAt time.Time
}

type Entry struct {
	MatchID  int64
	Position int
}
