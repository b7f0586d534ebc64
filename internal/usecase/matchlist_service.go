package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/matchlist"
	"github.com/sporating/sporating/internal/platform/id"
	"github.com/sporating/sporating/internal/platform/logging"
)

const maxListEntries = 500

type MatchListService struct {
	listRepo matchlist.Repository
	idGen    id.Generator
	logger   *logging.Logger
}

func NewMatchListService(listRepo matchlist.Repository, idGen id.Generator, logger *logging.Logger) *MatchListService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchListService{listRepo: listRepo, idGen: idGen, logger: logger}
}

func (s *MatchListService) Create(ctx context.Context, userID, name string) (matchlist.MatchList, error) {
	ctx, span := startSpan(ctx, "MatchListService.Create")
	defer span.End()

	if userID == "" {
		return matchlist.MatchList{}, crerr.Wrap(ErrUnauthorized, "user is required")
	}
	if name == "" {
		return matchlist.MatchList{}, crerr.Wrap(ErrInvalidInput, "list name is required")
	}

	publicID, err := s.idGen.NewID()
	if err != nil {
		return matchlist.MatchList{}, crerr.Wrap(err, "generate list id")
	}

	created, err := s.listRepo.Create(ctx, matchlist.MatchList{
		PublicID: publicID,
		UserID:   userID,
		Name:     name,
	})
	if err != nil {
		return matchlist.MatchList{}, crerr.Wrap(err, "create match list")
	}
	return created, nil
}

func (s *MatchListService) Get(ctx context.Context, publicID string) (matchlist.MatchList, error) {
	ctx, span := startSpan(ctx, "MatchListService.Get")
	defer span.End()

	list, err := s.listRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return matchlist.MatchList{}, crerr.Wrap(err, "load match list")
	}
	if list == nil {
		return matchlist.MatchList{}, crerr.Wrapf(ErrNotFound, "match list %s", publicID)
	}
	return *list, nil
}

func (s *MatchListService) ListMine(ctx context.Context, userID string) ([]matchlist.MatchList, error) {
	ctx, span := startSpan(ctx, "MatchListService.ListMine")
	defer span.End()

	if userID == "" {
		return nil, crerr.Wrap(ErrUnauthorized, "user is required")
	}
	lists, err := s.listRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, crerr.Wrap(err, "list match lists")
	}
	if lists == nil {
		lists = []matchlist.MatchList{}
	}
	return lists, nil
}

func (s *MatchListService) Rename(ctx context.Context, userID, publicID, name string) error {
	ctx, span := startSpan(ctx, "MatchListService.Rename")
	defer span.End()

	if name == "" {
		return crerr.Wrap(ErrInvalidInput, "list name is required")
	}
	list, err := s.ownedList(ctx, userID, publicID)
	if err != nil {
		return err
	}
	if err := s.listRepo.Rename(ctx, list.ID, name); err != nil {
		return crerr.Wrap(err, "rename match list")
	}
	return nil
}

func (s *MatchListService) Delete(ctx context.Context, userID, publicID string) error {
	ctx, span := startSpan(ctx, "MatchListService.Delete")
	defer span.End()

	list, err := s.ownedList(ctx, userID, publicID)
	if err != nil {
		return err
	}
	if err := s.listRepo.Delete(ctx, list.ID); err != nil {
		return crerr.Wrap(err, "delete match list")
	}
	return nil
}

// SetEntries replaces the list's content with the given ordering.
// Positions are re-numbered from the slice order, so callers reorder by
// sending the ids in the order they want.
func (s *MatchListService) SetEntries(ctx context.Context, userID, publicID string, matchIDs []int64) error {
	ctx, span := startSpan(ctx, "MatchListService.SetEntries")
	defer span.End()

	if len(matchIDs) > maxListEntries {
		return crerr.Wrapf(ErrInvalidInput, "list exceeds %d entries", maxListEntries)
	}

	list, err := s.ownedList(ctx, userID, publicID)
	if err != nil {
		return err
	}

	seen := make(map[int64]bool, len(matchIDs))
	entries := make([]matchlist.Entry, 0, len(matchIDs))
	for _, matchID := range matchIDs {
		if matchID <= 0 {
			return crerr.Wrap(ErrInvalidInput, "invalid match id")
		}
		if seen[matchID] {
			continue
		}
		seen[matchID] = true
		entries = append(entries, matchlist.Entry{MatchID: matchID, Position: len(entries)})
	}

	if err := s.listRepo.SetEntries(ctx, list.ID, entries); err != nil {
		return crerr.Wrap(err, "set match list entries")
	}
	return nil
}

func (s *MatchListService) ownedList(ctx context.Context, userID, publicID string) (*matchlist.MatchList, error) {
	if userID == "" {
		return nil, crerr.Wrap(ErrUnauthorized, "user is required")
	}
	list, err := s.listRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, crerr.Wrap(err, "load match list")
	}
	if list == nil {
		return nil, crerr.Wrapf(ErrNotFound, "match list %s", publicID)
	}
	if list.UserID != userID {
		return nil, crerr.Wrap(ErrForbidden, "match list belongs to another user")
	}
	return list, nil
}
