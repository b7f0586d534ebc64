package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/coach"
	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/domain/player"
	"github.com/sporating/sporating/internal/domain/rating"
	"github.com/sporating/sporating/internal/platform/logging"
)

// RatingService owns the rating lifecycle and keeps a match's denormalized
// aggregates in step with the votes targeting it.
type RatingService struct {
	ratingRepo rating.Repository
	matchRepo  match.Repository
	playerRepo player.Repository
	coachRepo  coach.Repository
	logger     *logging.Logger
}

func NewRatingService(
	ratingRepo rating.Repository,
	matchRepo match.Repository,
	playerRepo player.Repository,
	coachRepo coach.Repository,
	logger *logging.Logger,
) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RatingService{
		ratingRepo: ratingRepo,
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		coachRepo:  coachRepo,
		logger:     logger,
	}
}

// CreateRatingInput carries one new vote. Exactly one of PlayerID and
// CoachID may be set; MatchID alone rates the match itself.
type CreateRatingInput struct {
	UserID   string
	PlayerID *int64
	CoachID  *int64
	MatchID  *int64
	Value    int
	Comment  string
}

func (s *RatingService) Create(ctx context.Context, input CreateRatingInput) (rating.Rating, error) {
	ctx, span := startSpan(ctx, "RatingService.Create")
	defer span.End()

	if input.UserID == "" {
		return rating.Rating{}, crerr.Wrap(ErrUnauthorized, "user is required")
	}
	if !rating.ValidValue(input.Value) {
		return rating.Rating{}, crerr.Wrapf(ErrInvalidInput, "value must be between %d and %d", rating.MinValue, rating.MaxValue)
	}
	if input.PlayerID != nil && input.CoachID != nil {
		return rating.Rating{}, crerr.Wrap(ErrInvalidInput, "rating targets both a player and a coach")
	}
	if input.PlayerID == nil && input.CoachID == nil && input.MatchID == nil {
		return rating.Rating{}, crerr.Wrap(ErrInvalidInput, "rating has no target")
	}

	if err := s.verifyTargets(ctx, input); err != nil {
		return rating.Rating{}, err
	}

	created, err := s.ratingRepo.Insert(ctx, rating.Rating{
		UserID:   input.UserID,
		PlayerID: input.PlayerID,
		CoachID:  input.CoachID,
		MatchID:  input.MatchID,
		Value:    input.Value,
		Comment:  input.Comment,
	})
	if err != nil {
		return rating.Rating{}, crerr.Wrap(err, "insert rating")
	}

	if created.TargetsMatch() {
		s.refreshMatchAggregates(ctx, *created.MatchID)
	}
	return created, nil
}

func (s *RatingService) Update(ctx context.Context, userID string, ratingID int64, value int, comment string) (rating.Rating, error) {
	ctx, span := startSpan(ctx, "RatingService.Update")
	defer span.End()

	if !rating.ValidValue(value) {
		return rating.Rating{}, crerr.Wrapf(ErrInvalidInput, "value must be between %d and %d", rating.MinValue, rating.MaxValue)
	}

	existing, err := s.ownedRating(ctx, userID, ratingID)
	if err != nil {
		return rating.Rating{}, err
	}

	if err := s.ratingRepo.Update(ctx, ratingID, value, comment); err != nil {
		return rating.Rating{}, crerr.Wrap(err, "update rating")
	}
	existing.Value = value
	existing.Comment = comment

	if existing.TargetsMatch() {
		s.refreshMatchAggregates(ctx, *existing.MatchID)
	}
	return *existing, nil
}

func (s *RatingService) Delete(ctx context.Context, userID string, ratingID int64) error {
	ctx, span := startSpan(ctx, "RatingService.Delete")
	defer span.End()

	existing, err := s.ownedRating(ctx, userID, ratingID)
	if err != nil {
		return err
	}

	if err := s.ratingRepo.Delete(ctx, ratingID); err != nil {
		return crerr.Wrap(err, "delete rating")
	}
	if existing.TargetsMatch() {
		s.refreshMatchAggregates(ctx, *existing.MatchID)
	}
	return nil
}

func (s *RatingService) ownedRating(ctx context.Context, userID string, ratingID int64) (*rating.Rating, error) {
	if userID == "" {
		return nil, crerr.Wrap(ErrUnauthorized, "user is required")
	}
	existing, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return nil, crerr.Wrap(err, "load rating")
	}
	if existing == nil {
		return nil, crerr.Wrapf(ErrNotFound, "rating %d", ratingID)
	}
	if existing.UserID != userID {
		return nil, crerr.Wrap(ErrForbidden, "rating belongs to another user")
	}
	return existing, nil
}

func (s *RatingService) verifyTargets(ctx context.Context, input CreateRatingInput) error {
	if input.PlayerID != nil {
		p, err := s.playerRepo.GetByID(ctx, *input.PlayerID)
		if err != nil {
			return crerr.Wrap(err, "load player")
		}
		if p == nil {
			return crerr.Wrapf(ErrNotFound, "player %d", *input.PlayerID)
		}
	}
	if input.CoachID != nil {
		c, err := s.coachRepo.GetByID(ctx, *input.CoachID)
		if err != nil {
			return crerr.Wrap(err, "load coach")
		}
		if c == nil {
			return crerr.Wrapf(ErrNotFound, "coach %d", *input.CoachID)
		}
	}
	if input.MatchID != nil {
		found, err := s.matchRepo.ListByIDs(ctx, []int64{*input.MatchID})
		if err != nil {
			return crerr.Wrap(err, "load match")
		}
		if len(found) == 0 {
			return crerr.Wrapf(ErrNotFound, "match %d", *input.MatchID)
		}
	}
	return nil
}

// refreshMatchAggregates recomputes a match's denormalized rating columns.
// Failures are logged only: the vote row is the source of truth and the
// next vote will repair the aggregates.
func (s *RatingService) refreshMatchAggregates(ctx context.Context, matchID int64) {
	ratings, err := s.ratingRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		s.logger.WarnContext(ctx, "aggregate recompute failed", "match_id", matchID, "error", err)
		return
	}

	var sum, count int
	for _, rt := range ratings {
		if !rt.TargetsMatch() {
			continue
		}
		sum += rt.Value
		count++
	}

	avg := 0.0
	if count > 0 {
		avg = round2(float64(sum) / float64(count))
	}
	if err := s.matchRepo.UpdateRatingAggregates(ctx, matchID, avg, count); err != nil {
		s.logger.WarnContext(ctx, "aggregate update failed", "match_id", matchID, "error", err)
	}
}
