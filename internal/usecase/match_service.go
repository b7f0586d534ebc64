package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/platform/logging"
)

const maxMatchPageSize = 200

type MatchService struct {
	matchRepo match.Repository
	logger    *logging.Logger
}

func NewMatchService(matchRepo match.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{matchRepo: matchRepo, logger: logger}
}

// ListFilter is the transport-facing form of a match listing.
type ListFilter struct {
	Sport       string
	Competition string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

func (s *MatchService) List(ctx context.Context, filter ListFilter) ([]match.Match, error) {
	ctx, span := startSpan(ctx, "MatchService.List")
	defer span.End()

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > maxMatchPageSize {
		filter.Limit = maxMatchPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, crerr.Wrap(ErrInvalidInput, "date range is inverted")
	}

	matches, err := s.matchRepo.List(ctx, match.Filter{
		Sport:       filter.Sport,
		Competition: filter.Competition,
		From:        filter.From,
		To:          filter.To,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}
	if matches == nil {
		matches = []match.Match{}
	}
	return matches, nil
}

func (s *MatchService) Get(ctx context.Context, publicID string) (match.Match, error) {
	ctx, span := startSpan(ctx, "MatchService.Get")
	defer span.End()

	if publicID == "" {
		return match.Match{}, crerr.Wrap(ErrInvalidInput, "match id is required")
	}

	m, err := s.matchRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return match.Match{}, crerr.Wrap(err, "load match")
	}
	if m == nil {
		return match.Match{}, crerr.Wrapf(ErrNotFound, "match %s", publicID)
	}
	return *m, nil
}
