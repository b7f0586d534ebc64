// Package memory holds map-backed repositories. They serve unit tests and
// the DB-less development mode, and mirror the postgres repositories'
// semantics including nil-on-not-found lookups.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sporating/sporating/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{rows: make(map[int64]match.Match)}
}

func (r *MatchRepository) FindByExternalID(_ context.Context, sport, externalID string) (*match.Match, error) {
	if externalID == "" {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.rows {
		if m.Sport == sport && m.ExternalID == externalID {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MatchRepository) FindSimilar(_ context.Context, homeTeam, awayTeam, competition string, from, to time.Time) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.rows {
		if m.HomeTeam == homeTeam && m.AwayTeam == awayTeam && m.Competition == competition &&
			!m.Date.Before(from) && !m.Date.After(to) {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MatchRepository) Insert(_ context.Context, m match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.rows[m.ID] = m
	return m, nil
}

func (r *MatchRepository) GetByPublicID(_ context.Context, publicID string) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.rows {
		if m.PublicID == publicID {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MatchRepository) ListByIDs(_ context.Context, ids []int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []match.Match
	for _, id := range ids {
		if m, ok := r.rows[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	var out []match.Match
	for _, m := range r.rows {
		if filter.Sport != "" && m.Sport != filter.Sport {
			continue
		}
		if filter.Competition != "" && m.Competition != filter.Competition {
			continue
		}
		if !filter.From.IsZero() && m.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && m.Date.After(filter.To) {
			continue
		}
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MatchRepository) UpdateRatingAggregates(_ context.Context, id int64, avgRating float64, totalRatings int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil
	}
	m.AvgRating = avgRating
	m.TotalRatings = totalRatings
	r.rows[id] = m
	return nil
}
