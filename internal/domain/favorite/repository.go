package favorite

import "context"

type Repository interface {
	// Upsert is idempotent: favoriting the same entity twice keeps one row.
	Upsert(ctx context.Context, f Favorite) error
	Delete(ctx context.Context, userID, entityKind string, entityID int64) error
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)
}
