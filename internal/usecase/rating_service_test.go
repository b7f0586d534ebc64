package usecase

import (
	"context"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/event"
	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/infrastructure/repository/memory"
	"github.com/sporating/sporating/internal/platform/logging"
)

type ratingFixture struct {
	service *RatingService
	ratings *memory.RatingRepository
	matches *memory.MatchRepository
	players *memory.PlayerRepository
	coaches *memory.CoachRepository
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	f := &ratingFixture{
		ratings: memory.NewRatingRepository(),
		matches: memory.NewMatchRepository(),
		players: memory.NewPlayerRepository(),
		coaches: memory.NewCoachRepository(),
	}
	f.service = NewRatingService(f.ratings, f.matches, f.players, f.coaches, logging.NewNop())
	return f
}

func (f *ratingFixture) addMatch(t *testing.T) match.Match {
	t.Helper()
	m, err := f.matches.Insert(context.Background(), match.Match{
		PublicID: "m-1",
		Sport:    event.SportFootball,
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Date:     time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("insert match: %v", err)
	}
	return m
}

func TestCreateMatchRatingUpdatesAggregates(t *testing.T) {
	f := newRatingFixture(t)
	m := f.addMatch(t)

	first, err := f.service.Create(context.Background(), CreateRatingInput{
		UserID:  "u-1",
		MatchID: &m.ID,
		Value:   8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Create(context.Background(), CreateRatingInput{
		UserID:  "u-2",
		MatchID: &m.ID,
		Value:   5,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := f.matches.ListByIDs(context.Background(), []int64{m.ID})
	if stored[0].AvgRating != 6.5 || stored[0].TotalRatings != 2 {
		t.Fatalf("unexpected aggregates: avg=%.2f total=%d", stored[0].AvgRating, stored[0].TotalRatings)
	}

	if err := f.service.Delete(context.Background(), "u-1", first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ = f.matches.ListByIDs(context.Background(), []int64{m.ID})
	if stored[0].AvgRating != 5.00 || stored[0].TotalRatings != 1 {
		t.Fatalf("aggregates not repaired after delete: avg=%.2f total=%d", stored[0].AvgRating, stored[0].TotalRatings)
	}
}

func TestCreateRatingValidation(t *testing.T) {
	f := newRatingFixture(t)
	m := f.addMatch(t)

	cases := []struct {
		name  string
		input CreateRatingInput
		want  error
	}{
		{"missing user", CreateRatingInput{MatchID: &m.ID, Value: 5}, ErrUnauthorized},
		{"value too low", CreateRatingInput{UserID: "u-1", MatchID: &m.ID, Value: 0}, ErrInvalidInput},
		{"value too high", CreateRatingInput{UserID: "u-1", MatchID: &m.ID, Value: 11}, ErrInvalidInput},
		{"no target", CreateRatingInput{UserID: "u-1", Value: 5}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.service.Create(context.Background(), tc.input); !crerr.Is(err, tc.want) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.want)
			}
		})
	}

	missing := int64(999)
	if _, err := f.service.Create(context.Background(), CreateRatingInput{
		UserID: "u-1", MatchID: &missing, Value: 5,
	}); !crerr.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error for missing match: %v", err)
	}
	if _, err := f.service.Create(context.Background(), CreateRatingInput{
		UserID: "u-1", PlayerID: &missing, Value: 5,
	}); !crerr.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error for missing player: %v", err)
	}
}

func TestUpdateRatingRequiresOwnership(t *testing.T) {
	f := newRatingFixture(t)
	m := f.addMatch(t)

	created, err := f.service.Create(context.Background(), CreateRatingInput{
		UserID: "u-1", MatchID: &m.ID, Value: 8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.Update(context.Background(), "u-2", created.ID, 3, ""); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.service.Update(context.Background(), "u-1", created.ID, 3, "changed my mind")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Value != 3 || updated.Comment != "changed my mind" {
		t.Fatalf("unexpected updated rating: %+v", updated)
	}

	stored, _ := f.matches.ListByIDs(context.Background(), []int64{m.ID})
	if stored[0].AvgRating != 3.00 {
		t.Fatalf("aggregates not refreshed on update: avg=%.2f", stored[0].AvgRating)
	}

	if _, err := f.service.Update(context.Background(), "u-1", 999, 5, ""); !crerr.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error for missing rating: %v", err)
	}
}
