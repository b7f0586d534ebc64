package memory

import (
	"context"
	"sync"

	"github.com/sporating/sporating/internal/domain/importrun"
)

type ImportRunRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[string]importrun.Run
}

func NewImportRunRepository() *ImportRunRepository {
	return &ImportRunRepository{rows: make(map[string]importrun.Run)}
}

func (r *ImportRunRepository) Insert(_ context.Context, run importrun.Run) (importrun.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	run.ID = r.nextID
	r.rows[run.RunID] = run
	return run, nil
}

func (r *ImportRunRepository) GetByRunID(_ context.Context, runID string) (*importrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if run, ok := r.rows[runID]; ok {
		found := run
		found.Breakdown = append([]importrun.SportResult(nil), run.Breakdown...)
		return &found, nil
	}
	return nil, nil
}
