package player

import "context"

type Repository interface {
	// List returns players filtered by sport and/or position; empty
	// strings match everything.
	List(ctx context.Context, sport, position string) ([]Player, error)
	FindByTuple(ctx context.Context, name, team, sport, position string) (*Player, error)
	Insert(ctx context.Context, p Player) (Player, error)
	GetByID(ctx context.Context, id int64) (*Player, error)
}
