package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sporating/sporating/internal/domain/coach"
	"github.com/sporating/sporating/internal/domain/event"
	"github.com/sporating/sporating/internal/domain/importrun"
	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/domain/player"
	"github.com/sporating/sporating/internal/platform/id"
	"github.com/sporating/sporating/internal/platform/logging"
)

// ImportService fans out to every registered sport gateway, funnels the
// unified events through duplicate-aware persistence, and records one run
// row per pass.
type ImportService struct {
	gateways    []SportGateway
	matchRepo   match.Repository
	playerRepo  player.Repository
	coachRepo   coach.Repository
	runRepo     importrun.Repository
	idGen       id.Generator
	logger      *logging.Logger
	workerCount int
}

func NewImportService(
	gateways []SportGateway,
	matchRepo match.Repository,
	playerRepo player.Repository,
	coachRepo coach.Repository,
	runRepo importrun.Repository,
	idGen id.Generator,
	logger *logging.Logger,
	workerCount int,
) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	return &ImportService{
		gateways:    gateways,
		matchRepo:   matchRepo,
		playerRepo:  playerRepo,
		coachRepo:   coachRepo,
		runRepo:     runRepo,
		idGen:       idGen,
		logger:      logger,
		workerCount: workerCount,
	}
}

// ImportAll runs every gateway (or only those named in sports) for the
// given season and persists the outcome. Gateway failures and panics are
// absorbed into the per-sport breakdown; only run bookkeeping can error.
func (s *ImportService) ImportAll(ctx context.Context, season string, sports []string) (importrun.Run, error) {
	ctx, span := startSpan(ctx, "ImportService.ImportAll",
		trace.WithAttributes(attribute.String("import.season", season)))
	defer span.End()

	if season == "" {
		season = strconv.Itoa(time.Now().Year())
	}

	selected := s.selectGateways(sports)
	if len(selected) == 0 {
		return importrun.Run{}, crerr.Wrap(ErrInvalidInput, "no matching sports")
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return importrun.Run{}, crerr.Wrap(err, "generate run id")
	}

	startedAt := time.Now().UTC()
	s.logger.InfoContext(ctx, "import run started",
		"run_id", runID,
		"season", season,
		"sports", len(selected),
	)

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return importrun.Run{}, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	results := make([]importrun.SportResult, len(selected))
	var wg sync.WaitGroup
	for i, gw := range selected {
		i, gw := i, gw
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.runGateway(ctx, gw, season)
		})
		if submitErr != nil {
			results[i] = importrun.SportResult{
				Sport:  gw.Sport(),
				Status: importrun.TaskStatusFailed,
				Errors: 1,
			}
			wg.Done()
		}
	}
	wg.Wait()

	run := importrun.Run{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Breakdown:  results,
	}
	for _, r := range results {
		run.Total += r.Fetched
		run.Saved += r.Saved
		run.Skipped += r.Skipped
		run.Errors += r.Errors
	}

	saved, err := s.runRepo.Insert(ctx, run)
	if err != nil {
		return importrun.Run{}, crerr.Wrap(err, "persist import run")
	}

	s.logger.InfoContext(ctx, "import run finished",
		"run_id", runID,
		"total", run.Total,
		"saved", run.Saved,
		"skipped", run.Skipped,
		"errors", run.Errors,
		"duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	)
	return saved, nil
}

// GetRun returns a finished run by its public id.
func (s *ImportService) GetRun(ctx context.Context, runID string) (importrun.Run, error) {
	ctx, span := startSpan(ctx, "ImportService.GetRun")
	defer span.End()

	if runID == "" {
		return importrun.Run{}, crerr.Wrap(ErrInvalidInput, "run id is required")
	}

	run, err := s.runRepo.GetByRunID(ctx, runID)
	if err != nil {
		return importrun.Run{}, crerr.Wrap(err, "load import run")
	}
	if run == nil {
		return importrun.Run{}, crerr.Wrapf(ErrNotFound, "import run %s", runID)
	}
	return *run, nil
}

func (s *ImportService) selectGateways(sports []string) []SportGateway {
	if len(sports) == 0 {
		return s.gateways
	}
	wanted := make(map[string]bool, len(sports))
	for _, sport := range sports {
		wanted[sport] = true
	}

	var selected []SportGateway
	for _, gw := range s.gateways {
		if wanted[gw.Sport()] {
			selected = append(selected, gw)
		}
	}
	return selected
}

// runGateway executes one gateway end to end. A panic inside a gateway or
// the persistence path marks the sport failed instead of killing the run.
func (s *ImportService) runGateway(ctx context.Context, gw SportGateway, season string) (result importrun.SportResult) {
	start := time.Now()
	result.Sport = gw.Sport()
	result.Status = importrun.TaskStatusSuccess
	result.Source = string(event.SourceLive)

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "gateway panicked",
				"sport", result.Sport,
				"panic", r,
			)
			result.Status = importrun.TaskStatusFailed
			result.Errors++
		}
		result.DurationMs = time.Since(start).Milliseconds()
	}()

	fetched := gw.FetchEvents(ctx, season)
	result.Fetched = len(fetched.Events)
	result.Source = string(fetched.Source)

	if len(fetched.Events) == 0 {
		result.Status = importrun.TaskStatusSkipped
		return result
	}

	for _, ev := range fetched.Events {
		saved, err := s.save(ctx, ev)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "event save failed",
				"sport", ev.Sport,
				"external_id", ev.ExternalID,
				"error", err,
			)
			result.Errors++
		case saved:
			result.Saved++
		default:
			result.Skipped++
		}
	}

	if result.Errors > 0 && result.Saved == 0 {
		result.Status = importrun.TaskStatusFailed
	}
	return result
}

// save persists one unified event unless it already exists. External ids
// are checked first; the date-window heuristic then runs regardless, so a
// provider that reissues ids between runs cannot duplicate a match.
func (s *ImportService) save(ctx context.Context, ev event.UnifiedEvent) (bool, error) {
	if ev.HomeTeam == "" || ev.AwayTeam == "" {
		return false, crerr.New("event is missing participants")
	}

	if ev.ExternalID != "" {
		existing, err := s.matchRepo.FindByExternalID(ctx, ev.Sport, ev.ExternalID)
		if err != nil {
			return false, crerr.Wrap(err, "lookup by external id")
		}
		if existing != nil {
			return false, nil
		}
	}

	similar, err := s.matchRepo.FindSimilar(ctx,
		ev.HomeTeam, ev.AwayTeam, ev.Competition,
		ev.Date.Add(-event.DedupWindow), ev.Date.Add(event.DedupWindow),
	)
	if err != nil {
		return false, crerr.Wrap(err, "lookup similar match")
	}
	if similar != nil {
		return false, nil
	}

	publicID, err := s.idGen.NewID()
	if err != nil {
		return false, crerr.Wrap(err, "generate match id")
	}

	details := make(map[string]string, len(ev.Details)+1)
	for k, v := range ev.Details {
		details[k] = v
	}
	details[event.DetailSource] = string(ev.Source)

	homeLogo := details["home_logo"]
	if homeLogo == "" {
		homeLogo = placeholderLogo(ev.Sport, ev.HomeTeam)
	}
	awayLogo := details["away_logo"]
	if awayLogo == "" {
		awayLogo = placeholderLogo(ev.Sport, ev.AwayTeam)
	}

	m := match.Match{
		PublicID:    publicID,
		ExternalID:  ev.ExternalID,
		Sport:       ev.Sport,
		Competition: ev.Competition,
		HomeTeam:    ev.HomeTeam,
		AwayTeam:    ev.AwayTeam,
		HomeScore:   event.ParseScore(ev.HomeScore),
		AwayScore:   event.ParseScore(ev.AwayScore),
		HomeLogoURL: homeLogo,
		AwayLogoURL: awayLogo,
		Date:        ev.Date,
		Status:      match.NormalizeStatus(ev.Status),
		Venue:       ev.Venue,
		Season:      ev.Season,
		EventType:   ev.EventType,
		Details:     details,
	}
	if _, err := s.matchRepo.Insert(ctx, m); err != nil {
		return false, crerr.Wrap(err, "insert match")
	}

	s.ensurePeople(ctx, ev)
	return true, nil
}

// ensurePeople creates player and coach rows named in the event details.
// Failures are logged, not returned: the match row is already saved and
// people rows can be recreated on the next run.
func (s *ImportService) ensurePeople(ctx context.Context, ev event.UnifiedEvent) {
	people := []struct {
		nameKey, teamKey string
	}{
		{event.DetailHomePlayer, event.DetailHomeTeam},
		{event.DetailAwayPlayer, event.DetailAwayTeam},
	}
	for _, p := range people {
		name := ev.Details[p.nameKey]
		if name == "" {
			continue
		}
		team := ev.Details[p.teamKey]
		if err := s.ensurePlayer(ctx, name, team, ev.Sport); err != nil {
			s.logger.WarnContext(ctx, "player upsert failed",
				"player", name, "sport", ev.Sport, "error", err)
		}
	}

	coaches := []struct {
		nameKey string
		team    string
	}{
		{event.DetailHomeCoach, ev.HomeTeam},
		{event.DetailAwayCoach, ev.AwayTeam},
	}
	for _, c := range coaches {
		name := ev.Details[c.nameKey]
		if name == "" {
			continue
		}
		if err := s.ensureCoach(ctx, name, c.team, ev.Sport); err != nil {
			s.logger.WarnContext(ctx, "coach upsert failed",
				"coach", name, "sport", ev.Sport, "error", err)
		}
	}
}

func (s *ImportService) ensurePlayer(ctx context.Context, name, team, sport string) error {
	existing, err := s.playerRepo.FindByTuple(ctx, name, team, sport, "")
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = s.playerRepo.Insert(ctx, player.Player{
		Name:     name,
		Team:     team,
		Sport:    sport,
		ImageURL: placeholderLogo(sport, name),
	})
	return err
}

func (s *ImportService) ensureCoach(ctx context.Context, name, team, sport string) error {
	existing, err := s.coachRepo.FindByTuple(ctx, name, team, sport)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = s.coachRepo.Insert(ctx, coach.Coach{
		Name:  name,
		Team:  team,
		Sport: sport,
	})
	return err
}
