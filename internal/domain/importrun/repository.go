package importrun

import "context"

type Repository interface {
	Insert(ctx context.Context, run Run) (Run, error)
	GetByRunID(ctx context.Context, runID string) (*Run, error)
}
