package httpapi

import (
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/domain/rating"
	"github.com/sporating/sporating/internal/usecase"
)

type createRatingRequest struct {
	PlayerID *int64 `json:"playerId"`
	CoachID  *int64 `json:"coachId"`
	MatchID  *int64 `json:"matchId"`
	Value    int    `json:"value" validate:"required,min=1,max=10"`
	Comment  string `json:"comment" validate:"max=2000"`
}

type updateRatingRequest struct {
	Value   int    `json:"value" validate:"required,min=1,max=10"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ratingResponse struct {
	ID        int64     `json:"id"`
	PlayerID  *int64    `json:"playerId,omitempty"`
	CoachID   *int64    `json:"coachId,omitempty"`
	MatchID   *int64    `json:"matchId,omitempty"`
	Value     int       `json:"value"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRatingResponse(rt rating.Rating) ratingResponse {
	return ratingResponse{
		ID:        rt.ID,
		PlayerID:  rt.PlayerID,
		CoachID:   rt.CoachID,
		MatchID:   rt.MatchID,
		Value:     rt.Value,
		Comment:   rt.Comment,
		CreatedAt: rt.CreatedAt,
	}
}

func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	var req createRatingRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	created, err := s.services.Rating.Create(r.Context(), usecase.CreateRatingInput{
		UserID:   principal.UserID,
		PlayerID: req.PlayerID,
		CoachID:  req.CoachID,
		MatchID:  req.MatchID,
		Value:    req.Value,
		Comment:  req.Comment,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusCreated, toRatingResponse(created))
}

func (s *Server) handleUpdateRating(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}
	ratingID, err := pathInt64(r, "ratingID")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req updateRatingRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	updated, err := s.services.Rating.Update(r.Context(), principal.UserID, ratingID, req.Value, req.Comment)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, toRatingResponse(updated))
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}
	ratingID, err := pathInt64(r, "ratingID")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.services.Rating.Delete(r.Context(), principal.UserID, ratingID); err != nil {
		writeError(r.Context(), w, crerr.Wrapf(err, "rating %d", ratingID))
		return
	}
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "deleted"})
}
