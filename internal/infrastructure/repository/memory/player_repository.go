package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sporating/sporating/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{rows: make(map[int64]player.Player)}
}

func (r *PlayerRepository) List(_ context.Context, sport, position string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []player.Player
	for _, p := range r.rows {
		if sport != "" && p.Sport != sport {
			continue
		}
		if position != "" && p.Position != position {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) FindByTuple(_ context.Context, name, team, sport, position string) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.rows {
		if p.Name == name && p.Team == team && p.Sport == sport && p.Position == position {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *PlayerRepository) Insert(_ context.Context, p player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.rows[p.ID] = p
	return p, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.rows[id]; ok {
		found := p
		return &found, nil
	}
	return nil, nil
}
