package favorite

import "time"

const (
	KindPlayer = "player"
	KindMatch  = "match"
)

type Favorite struct {
	ID         int64
	UserID     string
	EntityKind string
	EntityID   int64
	CreatedAt  time.Time
}

func ValidKind(kind string) bool {
	return kind == KindPlayer || kind == KindMatch
}
