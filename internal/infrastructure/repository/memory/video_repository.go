package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sporating/sporating/internal/domain/video"
)

type voteKey struct {
	suggestionID int64
	userID       string
}

type VideoRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]video.Suggestion
	votes  map[voteKey]int
}

func NewVideoRepository() *VideoRepository {
	return &VideoRepository{
		rows:  make(map[int64]video.Suggestion),
		votes: make(map[voteKey]int),
	}
}

func (r *VideoRepository) Insert(_ context.Context, s video.Suggestion) (video.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.rows[s.ID] = s
	return s, nil
}

func (r *VideoRepository) GetByID(_ context.Context, id int64) (*video.Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.rows[id]; ok {
		found := s
		return &found, nil
	}
	return nil, nil
}

func (r *VideoRepository) ListByMatch(_ context.Context, matchID int64) ([]video.Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []video.Suggestion
	for _, s := range r.rows {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score() != out[j].Score() {
			return out[i].Score() > out[j].Score()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *VideoRepository) CastVote(_ context.Context, suggestionID int64, userID string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[suggestionID]
	if !ok {
		return nil
	}

	key := voteKey{suggestionID: suggestionID, userID: userID}
	if previous, voted := r.votes[key]; voted {
		if previous == value {
			return nil
		}
		if previous == video.VoteUp {
			s.Upvotes--
		} else {
			s.Downvotes--
		}
	}

	r.votes[key] = value
	if value == video.VoteUp {
		s.Upvotes++
	} else {
		s.Downvotes++
	}
	r.rows[suggestionID] = s
	return nil
}
