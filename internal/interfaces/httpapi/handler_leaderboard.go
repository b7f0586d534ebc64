package httpapi

import (
	"net/http"

	"github.com/sporating/sporating/internal/usecase"
)

func (s *Server) handlePlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.handleLeaderboard(w, r, usecase.KindPlayer)
}

func (s *Server) handleCoachLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.handleLeaderboard(w, r, usecase.KindCoach)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request, kind string) {
	minMatches, err := queryInt(r, "minMatches", 0)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	period, err := queryPeriod(r, "period")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	board, err := s.services.Fusion.ComputeLeaderboard(r.Context(), usecase.LeaderboardQuery{
		Kind:       kind,
		Sport:      r.URL.Query().Get("sport"),
		Position:   r.URL.Query().Get("position"),
		MinMatches: minMatches,
		Period:     period,
		Limit:      limit,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, board)
}

func (s *Server) handlePlayerDetail(w http.ResponseWriter, r *http.Request) {
	entity, err := s.services.Fusion.GetEntity(r.Context(), usecase.KindPlayer, r.PathValue("name"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, entity)
}
