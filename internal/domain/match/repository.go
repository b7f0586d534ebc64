package match

import (
	"context"
	"time"
)

// Filter narrows match listings. Zero values mean "no constraint".
type Filter struct {
	Sport       string
	Competition string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

type Repository interface {
	FindByExternalID(ctx context.Context, sport, externalID string) (*Match, error)
	// FindSimilar returns a match with identical team/competition strings
	// whose date falls inside [from, to], or nil.
	FindSimilar(ctx context.Context, homeTeam, awayTeam, competition string, from, to time.Time) (*Match, error)
	Insert(ctx context.Context, m Match) (Match, error)
	GetByPublicID(ctx context.Context, publicID string) (*Match, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Match, error)
	List(ctx context.Context, filter Filter) ([]Match, error)
	UpdateRatingAggregates(ctx context.Context, id int64, avgRating float64, totalRatings int) error
}
