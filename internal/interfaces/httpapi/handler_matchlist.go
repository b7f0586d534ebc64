package httpapi

import (
	"net/http"
	"time"

	"github.com/sporating/sporating/internal/domain/matchlist"
	"github.com/sporating/sporating/internal/usecase"
)

type createMatchListRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type setEntriesRequest struct {
	MatchIDs []int64 `json:"matchIds" validate:"required"`
}

type matchListResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MatchIDs  []int64   `json:"matchIds"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMatchListResponse(list matchlist.MatchList) matchListResponse {
	matchIDs := make([]int64, 0, len(list.Entries))
	for _, entry := range list.Entries {
		matchIDs = append(matchIDs, entry.MatchID)
	}
	return matchListResponse{
		ID:        list.PublicID,
		Name:      list.Name,
		MatchIDs:  matchIDs,
		CreatedAt: list.CreatedAt,
	}
}

func (s *Server) handleCreateMatchList(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	var req createMatchListRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	created, err := s.services.MatchList.Create(r.Context(), principal.UserID, req.Name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusCreated, toMatchListResponse(created))
}

func (s *Server) handleListMyMatchLists(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	lists, err := s.services.MatchList.ListMine(r.Context(), principal.UserID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	items := make([]matchListResponse, 0, len(lists))
	for _, list := range lists {
		items = append(items, toMatchListResponse(list))
	}
	writeData(r.Context(), w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetMatchList(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.MatchList.Get(r.Context(), r.PathValue("listID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, toMatchListResponse(list))
}

func (s *Server) handleRenameMatchList(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	var req createMatchListRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.services.MatchList.Rename(r.Context(), principal.UserID, r.PathValue("listID"), req.Name); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "renamed"})
}

func (s *Server) handleDeleteMatchList(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	if err := s.services.MatchList.Delete(r.Context(), principal.UserID, r.PathValue("listID")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSetMatchListEntries(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	var req setEntriesRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.services.MatchList.SetEntries(r.Context(), principal.UserID, r.PathValue("listID"), req.MatchIDs); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "updated"})
}
