package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sporating/sporating/internal/domain/coach"
)

type CoachRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]coach.Coach
}

func NewCoachRepository() *CoachRepository {
	return &CoachRepository{rows: make(map[int64]coach.Coach)}
}

func (r *CoachRepository) List(_ context.Context, sport string) ([]coach.Coach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []coach.Coach
	for _, c := range r.rows {
		if sport != "" && c.Sport != sport {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CoachRepository) FindByTuple(_ context.Context, name, team, sport string) (*coach.Coach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.rows {
		if c.Name == name && c.Team == team && c.Sport == sport {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *CoachRepository) Insert(_ context.Context, c coach.Coach) (coach.Coach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.rows[c.ID] = c
	return c, nil
}

func (r *CoachRepository) GetByID(_ context.Context, id int64) (*coach.Coach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.rows[id]; ok {
		found := c
		return &found, nil
	}
	return nil, nil
}
