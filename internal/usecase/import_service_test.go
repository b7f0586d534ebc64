package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/event"
	"github.com/sporating/sporating/internal/domain/importrun"
	"github.com/sporating/sporating/internal/infrastructure/repository/memory"
	"github.com/sporating/sporating/internal/platform/id"
	"github.com/sporating/sporating/internal/platform/logging"
)

type stubGateway struct {
	sport  string
	result event.FetchResult
	panics bool
}

func (g *stubGateway) Sport() string { return g.sport }

func (g *stubGateway) FetchEvents(context.Context, string) event.FetchResult {
	if g.panics {
		panic("gateway exploded")
	}
	return g.result
}

func footballEvent(externalID string, date time.Time) event.UnifiedEvent {
	return event.UnifiedEvent{
		ExternalID:  externalID,
		Sport:       event.SportFootball,
		Competition: "Premier League",
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		HomeScore:   "2",
		AwayScore:   "1",
		Date:        date,
		Status:      "FT",
		Season:      "2025",
		EventType:   event.TypeMatch,
		Source:      event.SourceLive,
	}
}

type importFixture struct {
	service *ImportService
	matches *memory.MatchRepository
	players *memory.PlayerRepository
	coaches *memory.CoachRepository
	runs    *memory.ImportRunRepository
}

func newImportFixture(t *testing.T, gateways ...SportGateway) importFixture {
	t.Helper()
	f := importFixture{
		matches: memory.NewMatchRepository(),
		players: memory.NewPlayerRepository(),
		coaches: memory.NewCoachRepository(),
		runs:    memory.NewImportRunRepository(),
	}
	f.service = NewImportService(
		gateways, f.matches, f.players, f.coaches, f.runs,
		id.NewRandomGenerator(), logging.NewNop(), 2,
	)
	return f
}

func TestImportAllSavesEventsAndRecordsRun(t *testing.T) {
	date := time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC)
	gw := &stubGateway{
		sport: event.SportFootball,
		result: event.FetchResult{
			Events: []event.UnifiedEvent{
				footballEvent("f-1", date),
				footballEvent("f-1", date), // exact duplicate in one batch
			},
			Source: event.SourceLive,
		},
	}
	f := newImportFixture(t, gw)

	run, err := f.service.ImportAll(context.Background(), "2025", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Total != 2 || run.Saved != 1 || run.Skipped != 1 || run.Errors != 0 {
		t.Fatalf("unexpected run counts: total=%d saved=%d skipped=%d errors=%d",
			run.Total, run.Saved, run.Skipped, run.Errors)
	}
	if run.RunID == "" {
		t.Fatal("expected a run id")
	}

	stored, err := f.service.GetRun(context.Background(), run.RunID)
	if err != nil {
		t.Fatalf("unexpected error loading run: %v", err)
	}
	if len(stored.Breakdown) != 1 {
		t.Fatalf("unexpected breakdown length: got=%d want=1", len(stored.Breakdown))
	}
	br := stored.Breakdown[0]
	if br.Sport != event.SportFootball || br.Status != importrun.TaskStatusSuccess {
		t.Fatalf("unexpected breakdown entry: %+v", br)
	}

	saved, err := f.matches.FindByExternalID(context.Background(), event.SportFootball, "f-1")
	if err != nil || saved == nil {
		t.Fatalf("expected saved match, got match=%v err=%v", saved, err)
	}
	if saved.HomeScore != 2 || saved.AwayScore != 1 {
		t.Fatalf("unexpected scores: got=%d/%d", saved.HomeScore, saved.AwayScore)
	}
	if saved.Status != "finished" {
		t.Fatalf("unexpected status: got=%s", saved.Status)
	}
	if !strings.HasPrefix(saved.HomeLogoURL, "data:image/svg+xml") {
		t.Fatalf("expected placeholder logo, got=%s", saved.HomeLogoURL)
	}
	if saved.Details[event.DetailSource] != string(event.SourceLive) {
		t.Fatalf("unexpected source detail: got=%s", saved.Details[event.DetailSource])
	}
}

func TestImportAllSkipsHeuristicDuplicates(t *testing.T) {
	date := time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC)
	gw := &stubGateway{
		sport: event.SportFootball,
		result: event.FetchResult{
			Events: []event.UnifiedEvent{footballEvent("other-id", date.Add(6*time.Hour))},
			Source: event.SourceLive,
		},
	}
	f := newImportFixture(t, gw)

	// Same fixture already stored under a different external id.
	first := footballEvent("f-1", date)
	if _, err := f.service.save(context.Background(), first); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	run, err := f.service.ImportAll(context.Background(), "2025", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Saved != 0 || run.Skipped != 1 {
		t.Fatalf("unexpected counts: saved=%d skipped=%d", run.Saved, run.Skipped)
	}
}

func TestImportAllSurvivesGatewayPanic(t *testing.T) {
	date := time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC)
	healthy := &stubGateway{
		sport: event.SportFootball,
		result: event.FetchResult{
			Events: []event.UnifiedEvent{footballEvent("f-1", date)},
			Source: event.SourceLive,
		},
	}
	broken := &stubGateway{sport: event.SportMMA, panics: true}
	f := newImportFixture(t, healthy, broken)

	run, err := f.service.ImportAll(context.Background(), "2025", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Saved != 1 {
		t.Fatalf("healthy gateway result lost: saved=%d", run.Saved)
	}

	statuses := map[string]string{}
	for _, br := range run.Breakdown {
		statuses[br.Sport] = br.Status
	}
	if statuses[event.SportMMA] != importrun.TaskStatusFailed {
		t.Fatalf("unexpected status for panicking gateway: got=%s", statuses[event.SportMMA])
	}
	if statuses[event.SportFootball] != importrun.TaskStatusSuccess {
		t.Fatalf("unexpected status for healthy gateway: got=%s", statuses[event.SportFootball])
	}
}

func TestImportAllFiltersSports(t *testing.T) {
	football := &stubGateway{sport: event.SportFootball, result: event.FetchResult{Source: event.SourceLive}}
	mma := &stubGateway{sport: event.SportMMA, result: event.FetchResult{Source: event.SourceLive}}
	f := newImportFixture(t, football, mma)

	run, err := f.service.ImportAll(context.Background(), "2025", []string{event.SportMMA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Breakdown) != 1 || run.Breakdown[0].Sport != event.SportMMA {
		t.Fatalf("unexpected breakdown: %+v", run.Breakdown)
	}

	if _, err := f.service.ImportAll(context.Background(), "2025", []string{"cricket"}); !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error for unknown sport: %v", err)
	}
}

func TestImportCreatesPeopleFromDetails(t *testing.T) {
	date := time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC)
	ev := event.UnifiedEvent{
		ExternalID:  "race-1",
		Sport:       event.SportFormula1,
		Competition: "Monaco Grand Prix",
		HomeTeam:    "Max Verstappen",
		AwayTeam:    "Lando Norris",
		HomeScore:   "W",
		AwayScore:   "L",
		Date:        date,
		Status:      "Completed",
		Season:      "2025",
		EventType:   event.TypeRace,
		Details: map[string]string{
			event.DetailHomePlayer: "Max Verstappen",
			event.DetailHomeTeam:   "Red Bull Racing",
			event.DetailAwayPlayer: "Lando Norris",
			event.DetailAwayTeam:   "McLaren",
		},
		Source: event.SourceLive,
	}
	gw := &stubGateway{
		sport:  event.SportFormula1,
		result: event.FetchResult{Events: []event.UnifiedEvent{ev}, Source: event.SourceLive},
	}
	f := newImportFixture(t, gw)

	if _, err := f.service.ImportAll(context.Background(), "2025", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := f.matches.FindByExternalID(context.Background(), event.SportFormula1, "race-1")
	if err != nil || saved == nil {
		t.Fatalf("expected saved race, got match=%v err=%v", saved, err)
	}
	if saved.HomeScore != 1 || saved.AwayScore != 0 {
		t.Fatalf("symbolic scores not mapped: got=%d/%d", saved.HomeScore, saved.AwayScore)
	}

	players, err := f.players.List(context.Background(), event.SportFormula1, "")
	if err != nil {
		t.Fatalf("unexpected error listing players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("unexpected player count: got=%d want=2", len(players))
	}

	// Re-importing must not duplicate people.
	if _, err := f.service.ImportAll(context.Background(), "2025", nil); err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	players, _ = f.players.List(context.Background(), event.SportFormula1, "")
	if len(players) != 2 {
		t.Fatalf("players duplicated on re-import: got=%d want=2", len(players))
	}
}

func TestGetRunNotFound(t *testing.T) {
	f := newImportFixture(t, &stubGateway{sport: event.SportFootball})
	if _, err := f.service.GetRun(context.Background(), "missing"); !crerr.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.GetRun(context.Background(), ""); !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error for empty id: %v", err)
	}
}
