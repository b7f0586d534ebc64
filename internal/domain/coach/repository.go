package coach

import "context"

type Repository interface {
	List(ctx context.Context, sport string) ([]Coach, error)
	FindByTuple(ctx context.Context, name, team, sport string) (*Coach, error)
	Insert(ctx context.Context, c Coach) (Coach, error)
	GetByID(ctx context.Context, id int64) (*Coach, error)
}
