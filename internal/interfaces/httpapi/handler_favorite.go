package httpapi

import (
	"net/http"
	"time"

	"github.com/sporating/sporating/internal/domain/favorite"
	"github.com/sporating/sporating/internal/usecase"
)

type favoriteRequest struct {
	EntityKind string `json:"entityKind" validate:"required,oneof=player match"`
	EntityID   int64  `json:"entityId" validate:"required,gt=0"`
}

type favoriteResponse struct {
	EntityKind string    `json:"entityKind"`
	EntityID   int64     `json:"entityId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	var req favoriteRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.services.Favorite.Add(r.Context(), principal.UserID, req.EntityKind, req.EntityID); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "favorited"})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	var req favoriteRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.services.Favorite.Remove(r.Context(), principal.UserID, req.EntityKind, req.EntityID); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	favorites, err := s.services.Favorite.ListMine(r.Context(), principal.UserID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	items := make([]favoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		items = append(items, toFavoriteResponse(f))
	}
	writeData(r.Context(), w, http.StatusOK, map[string]any{"items": items})
}

func toFavoriteResponse(f favorite.Favorite) favoriteResponse {
	return favoriteResponse{
		EntityKind: f.EntityKind,
		EntityID:   f.EntityID,
		CreatedAt:  f.CreatedAt,
	}
}
