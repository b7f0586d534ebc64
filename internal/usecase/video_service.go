package usecase

import (
	"context"
	"net/url"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/domain/video"
	"github.com/sporating/sporating/internal/platform/logging"
)

type VideoService struct {
	videoRepo video.Repository
	matchRepo match.Repository
	logger    *logging.Logger
}

func NewVideoService(videoRepo video.Repository, matchRepo match.Repository, logger *logging.Logger) *VideoService {
	if logger == nil {
		logger = logging.Default()
	}
	return &VideoService{videoRepo: videoRepo, matchRepo: matchRepo, logger: logger}
}

func (s *VideoService) Suggest(ctx context.Context, userID, matchPublicID, title, rawURL string) (video.Suggestion, error) {
	ctx, span := startSpan(ctx, "VideoService.Suggest")
	defer span.End()

	if userID == "" {
		return video.Suggestion{}, crerr.Wrap(ErrUnauthorized, "user is required")
	}
	if title == "" {
		return video.Suggestion{}, crerr.Wrap(ErrInvalidInput, "title is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || !strings.HasPrefix(parsed.Scheme, "http") || parsed.Host == "" {
		return video.Suggestion{}, crerr.Wrap(ErrInvalidInput, "url must be absolute http(s)")
	}

	m, err := s.matchRepo.GetByPublicID(ctx, matchPublicID)
	if err != nil {
		return video.Suggestion{}, crerr.Wrap(err, "load match")
	}
	if m == nil {
		return video.Suggestion{}, crerr.Wrapf(ErrNotFound, "match %s", matchPublicID)
	}

	created, err := s.videoRepo.Insert(ctx, video.Suggestion{
		MatchID: m.ID,
		UserID:  userID,
		Title:   title,
		URL:     parsed.String(),
	})
	if err != nil {
		return video.Suggestion{}, crerr.Wrap(err, "insert video suggestion")
	}
	return created, nil
}

// ListForMatch returns suggestions best-voted first.
func (s *VideoService) ListForMatch(ctx context.Context, matchPublicID string) ([]video.Suggestion, error) {
	ctx, span := startSpan(ctx, "VideoService.ListForMatch")
	defer span.End()

	m, err := s.matchRepo.GetByPublicID(ctx, matchPublicID)
	if err != nil {
		return nil, crerr.Wrap(err, "load match")
	}
	if m == nil {
		return nil, crerr.Wrapf(ErrNotFound, "match %s", matchPublicID)
	}

	suggestions, err := s.videoRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, crerr.Wrap(err, "list video suggestions")
	}
	if suggestions == nil {
		suggestions = []video.Suggestion{}
	}
	return suggestions, nil
}

// Vote records an up or down vote, one per user, switchable.
func (s *VideoService) Vote(ctx context.Context, userID string, suggestionID int64, up bool) error {
	ctx, span := startSpan(ctx, "VideoService.Vote")
	defer span.End()

	if userID == "" {
		return crerr.Wrap(ErrUnauthorized, "user is required")
	}

	suggestion, err := s.videoRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return crerr.Wrap(err, "load video suggestion")
	}
	if suggestion == nil {
		return crerr.Wrapf(ErrNotFound, "video suggestion %d", suggestionID)
	}

	value := video.VoteDown
	if up {
		value = video.VoteUp
	}
	if err := s.videoRepo.CastVote(ctx, suggestionID, userID, value); err != nil {
		return crerr.Wrap(err, "cast vote")
	}
	return nil
}
