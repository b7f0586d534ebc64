package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sporating/sporating/internal/domain/matchlist"
)

type MatchListRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]matchlist.MatchList
}

func NewMatchListRepository() *MatchListRepository {
	return &MatchListRepository{rows: make(map[int64]matchlist.MatchList)}
}

func (r *MatchListRepository) Create(_ context.Context, list matchlist.MatchList) (matchlist.MatchList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	list.ID = r.nextID
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now().UTC()
	}
	r.rows[list.ID] = cloneList(list)
	return list, nil
}

func (r *MatchListRepository) GetByPublicID(_ context.Context, publicID string) (*matchlist.MatchList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, list := range r.rows {
		if list.PublicID == publicID {
			found := cloneList(list)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MatchListRepository) ListByUser(_ context.Context, userID string) ([]matchlist.MatchList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []matchlist.MatchList
	for _, list := range r.rows {
		if list.UserID == userID {
			out = append(out, cloneList(list))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MatchListRepository) Rename(_ context.Context, id int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.rows[id]
	if !ok {
		return nil
	}
	list.Name = name
	r.rows[id] = list
	return nil
}

func (r *MatchListRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *MatchListRepository) SetEntries(_ context.Context, id int64, entries []matchlist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.rows[id]
	if !ok {
		return nil
	}
	list.Entries = append([]matchlist.Entry(nil), entries...)
	r.rows[id] = list
	return nil
}

func cloneList(list matchlist.MatchList) matchlist.MatchList {
	list.Entries = append([]matchlist.Entry(nil), list.Entries...)
	return list
}
