package rating

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, r Rating) (Rating, error)
	GetByID(ctx context.Context, id int64) (*Rating, error)
	Update(ctx context.Context, id int64, value int, comment string) error
	Delete(ctx context.Context, id int64) error
	// ListByPlayerIDs returns ratings for the given players created at or
	// after since; a zero since means all time.
	ListByPlayerIDs(ctx context.Context, playerIDs []int64, since time.Time) ([]Rating, error)
	ListByCoachIDs(ctx context.Context, coachIDs []int64, since time.Time) ([]Rating, error)
	ListByMatchID(ctx context.Context, matchID int64) ([]Rating, error)
}
