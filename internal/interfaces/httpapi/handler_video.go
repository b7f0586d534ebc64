package httpapi

import (
	"net/http"
	"time"

	"github.com/sporating/sporating/internal/domain/video"
	"github.com/sporating/sporating/internal/usecase"
)

type suggestVideoRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,url"`
}

type voteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

type videoResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func toVideoResponse(s video.Suggestion) videoResponse {
	return videoResponse{
		ID:        s.ID,
		Title:     s.Title,
		URL:       s.URL,
		Upvotes:   s.Upvotes,
		Downvotes: s.Downvotes,
		Score:     s.Score(),
		CreatedAt: s.CreatedAt,
	}
}

func (s *Server) handleSuggestVideo(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}

	var req suggestVideoRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	created, err := s.services.Video.Suggest(r.Context(), principal.UserID, r.PathValue("matchID"), req.Title, req.URL)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusCreated, toVideoResponse(created))
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.services.Video.ListForMatch(r.Context(), r.PathValue("matchID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	items := make([]videoResponse, 0, len(suggestions))
	for _, suggestion := range suggestions {
		items = append(items, toVideoResponse(suggestion))
	}
	writeData(r.Context(), w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleVoteVideo(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(r.Context(), w, usecase.ErrUnauthorized)
		return
	}
	videoID, err := pathInt64(r, "videoID")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req voteRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.services.Video.Vote(r.Context(), principal.UserID, videoID, req.Direction == "up"); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, map[string]string{"status": "voted"})
}
