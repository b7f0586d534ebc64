package matchlist

import "context"

type Repository interface {
	Create(ctx context.Context, list MatchList) (MatchList, error)
	GetByPublicID(ctx context.Context, publicID string) (*MatchList, error)
	ListByUser(ctx context.Context, userID string) ([]MatchList, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	// SetEntries replaces the list's entries with the given ordering.
	SetEntries(ctx context.Context, id int64, entries []Entry) error
}
