package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sporating/sporating/internal/domain/rating"
)

type RatingRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]rating.Rating
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{rows: make(map[int64]rating.Rating)}
}

func (r *RatingRepository) Insert(_ context.Context, rt rating.Rating) (rating.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rt.ID = r.nextID
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now().UTC()
	}
	r.rows[rt.ID] = rt
	return rt, nil
}

func (r *RatingRepository) GetByID(_ context.Context, id int64) (*rating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rt, ok := r.rows[id]; ok {
		found := rt
		return &found, nil
	}
	return nil, nil
}

func (r *RatingRepository) Update(_ context.Context, id int64, value int, comment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rows[id]
	if !ok {
		return nil
	}
	rt.Value = value
	rt.Comment = comment
	r.rows[id] = rt
	return nil
}

func (r *RatingRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *RatingRepository) ListByPlayerIDs(_ context.Context, playerIDs []int64, since time.Time) ([]rating.Rating, error) {
	wanted := make(map[int64]bool, len(playerIDs))
	for _, id := range playerIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []rating.Rating
	for _, rt := range r.rows {
		if rt.PlayerID == nil || !wanted[*rt.PlayerID] {
			continue
		}
		if !since.IsZero() && rt.CreatedAt.Before(since) {
			continue
		}
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RatingRepository) ListByCoachIDs(_ context.Context, coachIDs []int64, since time.Time) ([]rating.Rating, error) {
	wanted := make(map[int64]bool, len(coachIDs))
	for _, id := range coachIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []rating.Rating
	for _, rt := range r.rows {
		if rt.CoachID == nil || !wanted[*rt.CoachID] {
			continue
		}
		if !since.IsZero() && rt.CreatedAt.Before(since) {
			continue
		}
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RatingRepository) ListByMatchID(_ context.Context, matchID int64) ([]rating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []rating.Rating
	for _, rt := range r.rows {
		if rt.MatchID != nil && *rt.MatchID == matchID {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
