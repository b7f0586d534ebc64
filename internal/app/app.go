// Package app assembles configuration, storage, gateways, services, and
// the HTTP transport into a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/external/accounts"
	"github.com/sporating/sporating/external/basketballapi"
	"github.com/sporating/sporating/external/footballapi"
	"github.com/sporating/sporating/external/formula1api"
	"github.com/sporating/sporating/external/jobqueue"
	"github.com/sporating/sporating/external/mmaapi"
	"github.com/sporating/sporating/external/rugbyapi"
	"github.com/sporating/sporating/external/tennisweb"
	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/domain/coach"
	"github.com/sporating/sporating/internal/domain/favorite"
	"github.com/sporating/sporating/internal/domain/importrun"
	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/domain/matchlist"
	"github.com/sporating/sporating/internal/domain/player"
	"github.com/sporating/sporating/internal/domain/rating"
	"github.com/sporating/sporating/internal/domain/video"
	"github.com/sporating/sporating/internal/infrastructure/repository/memory"
	"github.com/sporating/sporating/internal/infrastructure/repository/postgres"
	"github.com/sporating/sporating/internal/interfaces/httpapi"
	idgen "github.com/sporating/sporating/internal/platform/id"
	"github.com/sporating/sporating/internal/platform/logging"
	"github.com/sporating/sporating/internal/usecase"
)

// App owns the HTTP server and every resource that outlives a single
// request. Shutdown releases them in reverse order of acquisition.
type App struct {
	Server *http.Server

	db            *sqlx.DB
	stopScheduler context.CancelFunc
	logger        *logging.Logger
}

type repositories struct {
	match     match.Repository
	player    player.Repository
	coach     coach.Repository
	rating    rating.Repository
	favorite  favorite.Repository
	matchList matchlist.Repository
	video     video.Repository
	importRun importrun.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var db *sqlx.DB
	var repos repositories
	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, using in-memory repositories")
		repos = memoryRepositories()
	} else {
		if err := runMigrations(cfg, logger); err != nil {
			return nil, err
		}
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repos = postgresRepositories(db)
	}

	aliases, err := loadAliases(cfg, logger)
	if err != nil {
		return nil, err
	}

	gateways := buildGateways(cfg, logger)
	idGen := idgen.NewRandomGenerator()

	services := httpapi.Services{
		Import: usecase.NewImportService(
			gateways,
			repos.match,
			repos.player,
			repos.coach,
			repos.importRun,
			idGen,
			logger,
			cfg.ImportWorkerCount,
		),
		Fusion: usecase.NewFusionService(
			repos.player,
			repos.coach,
			repos.rating,
			repos.match,
			aliases,
			cfg.LeaderboardRecentMatches,
			cfg.LeaderboardDefaultLimit,
			logger,
		),
		Match:     usecase.NewMatchService(repos.match, logger),
		Rating:    usecase.NewRatingService(repos.rating, repos.match, repos.player, repos.coach, logger),
		Favorite:  usecase.NewFavoriteService(repos.favorite, logger),
		MatchList: usecase.NewMatchListService(repos.matchList, idGen, logger),
		Video:     usecase.NewVideoService(repos.video, repos.match, logger),
	}

	accountsClient := accounts.NewClient(cfg, logger)
	server := httpapi.NewServer(cfg, services, accountsClient, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	publisher := jobqueue.NewPublisher(cfg, logger)
	startImportScheduler(schedulerCtx, cfg, publisher, services.Import, logger)

	return &App{
		Server:        httpServer,
		db:            db,
		stopScheduler: stopScheduler,
		logger:        logger,
	}, nil
}

// Shutdown drains in-flight requests, stops the import scheduler, and
// closes the database pool.
func (a *App) Shutdown(ctx context.Context) error {
	a.stopScheduler()

	err := a.Server.Shutdown(ctx)

	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

func memoryRepositories() repositories {
	return repositories{
		match:     memory.NewMatchRepository(),
		player:    memory.NewPlayerRepository(),
		coach:     memory.NewCoachRepository(),
		rating:    memory.NewRatingRepository(),
		favorite:  memory.NewFavoriteRepository(),
		matchList: memory.NewMatchListRepository(),
		video:     memory.NewVideoRepository(),
		importRun: memory.NewImportRunRepository(),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		match:     postgres.NewMatchRepository(db),
		player:    postgres.NewPlayerRepository(db),
		coach:     postgres.NewCoachRepository(db),
		rating:    postgres.NewRatingRepository(db),
		favorite:  postgres.NewFavoriteRepository(db),
		matchList: postgres.NewMatchListRepository(db),
		video:     postgres.NewVideoRepository(db),
		importRun: postgres.NewImportRunRepository(db),
	}
}

func loadAliases(cfg config.Config, logger *logging.Logger) (*usecase.AliasTable, error) {
	if cfg.AliasTablePath == "" {
		return usecase.NewAliasTable(), nil
	}
	aliases, err := usecase.LoadAliasTable(cfg.AliasTablePath)
	if err != nil {
		return nil, fmt.Errorf("load alias table %s: %w", cfg.AliasTablePath, err)
	}
	logger.Info("alias table loaded", "path", cfg.AliasTablePath)
	return aliases, nil
}

func buildGateways(cfg config.Config, logger *logging.Logger) []usecase.SportGateway {
	var gateways []usecase.SportGateway
	if cfg.Football.Enabled {
		gateways = append(gateways, footballapi.NewGateway(cfg.Football, logger))
	}
	if cfg.Basketball.Enabled {
		gateways = append(gateways, basketballapi.NewGateway(cfg.Basketball, logger))
	}
	if cfg.Rugby.Enabled {
		gateways = append(gateways, rugbyapi.NewGateway(cfg.Rugby, logger))
	}
	if cfg.Formula1.Enabled {
		gateways = append(gateways, formula1api.NewGateway(cfg.Formula1, logger))
	}
	if cfg.MMA.Enabled {
		gateways = append(gateways, mmaapi.NewGateway(cfg.MMA, logger))
	}
	if cfg.Tennis.Enabled {
		gateways = append(gateways, tennisweb.NewGateway(cfg.Tennis, logger))
	}
	return gateways
}

// startImportScheduler keeps imports flowing without an external cron.
// With QStash enabled the next run is published to the queue and comes
// back through the internal jobs endpoint, so runs survive restarts.
// Without it the import runs in-process on a plain ticker.
func startImportScheduler(
	ctx context.Context,
	cfg config.Config,
	publisher *jobqueue.Publisher,
	imports *usecase.ImportService,
	logger *logging.Logger,
) {
	if cfg.ImportInterval <= 0 {
		logger.Info("import scheduler disabled", "reason", "IMPORT_INTERVAL<=0")
		return
	}

	go func() {
		ticker := time.NewTicker(cfg.ImportInterval)
		defer ticker.Stop()

		logger.Info("import scheduler started",
			"interval", cfg.ImportInterval.String(),
			"qstash", publisher.Enabled(),
		)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if publisher.Enabled() {
					job := jobqueue.ImportJob{Season: cfg.ImportSeason}
					if err := publisher.EnqueueImport(ctx, job, 0); err != nil {
						logger.ErrorContext(ctx, "enqueue import job", "error", err)
					}
					continue
				}
				if _, err := imports.ImportAll(ctx, cfg.ImportSeason, nil); err != nil {
					logger.ErrorContext(ctx, "scheduled import failed", "error", err)
				}
			}
		}
	}()
}
