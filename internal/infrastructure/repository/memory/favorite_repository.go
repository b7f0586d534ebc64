package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sporating/sporating/internal/domain/favorite"
)

type FavoriteRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]favorite.Favorite
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{rows: make(map[int64]favorite.Favorite)}
}

func (r *FavoriteRepository) Upsert(_ context.Context, f favorite.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID == f.UserID && existing.EntityKind == f.EntityKind && existing.EntityID == f.EntityID {
			return nil
		}
	}
	r.nextID++
	f.ID = r.nextID
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	r.rows[f.ID] = f
	return nil
}

func (r *FavoriteRepository) Delete(_ context.Context, userID, entityKind string, entityID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, f := range r.rows {
		if f.UserID == userID && f.EntityKind == entityKind && f.EntityID == entityID {
			delete(r.rows, id)
			return nil
		}
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(_ context.Context, userID string) ([]favorite.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []favorite.Favorite
	for _, f := range r.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
