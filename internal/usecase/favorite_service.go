package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/favorite"
	"github.com/sporating/sporating/internal/platform/logging"
)

type FavoriteService struct {
	favoriteRepo favorite.Repository
	logger       *logging.Logger
}

func NewFavoriteService(favoriteRepo favorite.Repository, logger *logging.Logger) *FavoriteService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FavoriteService{favoriteRepo: favoriteRepo, logger: logger}
}

// Add favorites an entity for the user. Favoriting twice is a no-op.
func (s *FavoriteService) Add(ctx context.Context, userID, entityKind string, entityID int64) error {
	ctx, span := startSpan(ctx, "FavoriteService.Add")
	defer span.End()

	if userID == "" {
		return crerr.Wrap(ErrUnauthorized, "user is required")
	}
	if !favorite.ValidKind(entityKind) {
		return crerr.Wrapf(ErrInvalidInput, "unknown entity kind %q", entityKind)
	}
	if entityID <= 0 {
		return crerr.Wrap(ErrInvalidInput, "entity id is required")
	}

	if err := s.favoriteRepo.Upsert(ctx, favorite.Favorite{
		UserID:     userID,
		EntityKind: entityKind,
		EntityID:   entityID,
	}); err != nil {
		return crerr.Wrap(err, "upsert favorite")
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, entityKind string, entityID int64) error {
	ctx, span := startSpan(ctx, "FavoriteService.Remove")
	defer span.End()

	if userID == "" {
		return crerr.Wrap(ErrUnauthorized, "user is required")
	}
	if !favorite.ValidKind(entityKind) {
		return crerr.Wrapf(ErrInvalidInput, "unknown entity kind %q", entityKind)
	}

	if err := s.favoriteRepo.Delete(ctx, userID, entityKind, entityID); err != nil {
		return crerr.Wrap(err, "delete favorite")
	}
	return nil
}

func (s *FavoriteService) ListMine(ctx context.Context, userID string) ([]favorite.Favorite, error) {
	ctx, span := startSpan(ctx, "FavoriteService.ListMine")
	defer span.End()

	if userID == "" {
		return nil, crerr.Wrap(ErrUnauthorized, "user is required")
	}

	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, crerr.Wrap(err, "list favorites")
	}
	if favorites == nil {
		favorites = []favorite.Favorite{}
	}
	return favorites, nil
}
