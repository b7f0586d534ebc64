// Package httpapi is the HTTP transport: routing, middleware, request
// decoding, and the response envelope. All domain behavior lives in the
// usecase services it delegates to.
package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/platform/logging"
	"github.com/sporating/sporating/internal/usecase"
)

type Services struct {
	Import    *usecase.ImportService
	Fusion    *usecase.FusionService
	Match     *usecase.MatchService
	Rating    *usecase.RatingService
	Favorite  *usecase.FavoriteService
	MatchList *usecase.MatchListService
	Video     *usecase.VideoService
}

type Server struct {
	services Services
	accounts TokenVerifier
	validate *validator.Validate

	serviceName      string
	corsOrigins      []string
	internalJobToken string
	swaggerEnabled   bool
	defaultSeason    string

	logger *logging.Logger
}

func NewServer(cfg config.Config, services Services, accounts TokenVerifier, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{
		services:         services,
		accounts:         accounts,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		serviceName:      cfg.ServiceName,
		corsOrigins:      cfg.CORSAllowedOrigins,
		internalJobToken: cfg.InternalJobToken,
		swaggerEnabled:   cfg.SwaggerEnabled,
		defaultSeason:    cfg.ImportSeason,
		logger:           logger,
	}
}

// Handler assembles the mux and wraps it with the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /v1/leaderboards/players", s.handlePlayerLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/coaches", s.handleCoachLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/players/{name}", s.handlePlayerDetail)

	mux.HandleFunc("GET /v1/matches", s.handleListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", s.handleGetMatch)

	mux.HandleFunc("POST /v1/ratings", s.requireAuth(s.handleCreateRating))
	mux.HandleFunc("PUT /v1/ratings/{ratingID}", s.requireAuth(s.handleUpdateRating))
	mux.HandleFunc("DELETE /v1/ratings/{ratingID}", s.requireAuth(s.handleDeleteRating))

	mux.HandleFunc("PUT /v1/favorites", s.requireAuth(s.handleAddFavorite))
	mux.HandleFunc("DELETE /v1/favorites", s.requireAuth(s.handleRemoveFavorite))
	mux.HandleFunc("GET /v1/favorites/me", s.requireAuth(s.handleListFavorites))

	mux.HandleFunc("POST /v1/match-lists", s.requireAuth(s.handleCreateMatchList))
	mux.HandleFunc("GET /v1/match-lists/me", s.requireAuth(s.handleListMyMatchLists))
	mux.HandleFunc("GET /v1/match-lists/{listID}", s.handleGetMatchList)
	mux.HandleFunc("PUT /v1/match-lists/{listID}", s.requireAuth(s.handleRenameMatchList))
	mux.HandleFunc("DELETE /v1/match-lists/{listID}", s.requireAuth(s.handleDeleteMatchList))
	mux.HandleFunc("PUT /v1/match-lists/{listID}/entries", s.requireAuth(s.handleSetMatchListEntries))

	mux.HandleFunc("POST /v1/matches/{matchID}/videos", s.requireAuth(s.handleSuggestVideo))
	mux.HandleFunc("GET /v1/matches/{matchID}/videos", s.handleListVideos)
	mux.HandleFunc("POST /v1/videos/{videoID}/votes", s.requireAuth(s.handleVoteVideo))

	mux.HandleFunc("POST /v1/internal/jobs/import", s.requireInternalToken(s.handleRunImport))
	mux.HandleFunc("GET /v1/internal/jobs/import/runs/{runID}", s.requireInternalToken(s.handleGetImportRun))

	if s.swaggerEnabled {
		s.registerSwagger(mux)
	}

	return chain(mux,
		requestTracing(s.serviceName),
		requestLogging(s.logger),
		corsHeaders(s.corsOrigins),
		recoverPanic(s.logger),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
