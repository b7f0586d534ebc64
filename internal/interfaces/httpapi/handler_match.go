package httpapi

import (
	"net/http"
	"time"

	"github.com/sporating/sporating/internal/domain/match"
	"github.com/sporating/sporating/internal/usecase"
)

type matchResponse struct {
	ID           string            `json:"id"`
	Sport        string            `json:"sport"`
	Competition  string            `json:"competition"`
	HomeTeam     string            `json:"homeTeam"`
	AwayTeam     string            `json:"awayTeam"`
	HomeScore    int               `json:"homeScore"`
	AwayScore    int               `json:"awayScore"`
	HomeLogoURL  string            `json:"homeLogoUrl"`
	AwayLogoURL  string            `json:"awayLogoUrl"`
	Date         time.Time         `json:"date"`
	Status       string            `json:"status"`
	Venue        string            `json:"venue,omitempty"`
	Season       string            `json:"season,omitempty"`
	EventType    string            `json:"eventType"`
	Details      map[string]string `json:"details,omitempty"`
	AvgRating    float64           `json:"avgRating"`
	TotalRatings int               `json:"totalRatings"`
}

func toMatchResponse(m match.Match) matchResponse {
	return matchResponse{
		ID:           m.PublicID,
		Sport:        m.Sport,
		Competition:  m.Competition,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		HomeLogoURL:  m.HomeLogoURL,
		AwayLogoURL:  m.AwayLogoURL,
		Date:         m.Date,
		Status:       m.Status,
		Venue:        m.Venue,
		Season:       m.Season,
		EventType:    m.EventType,
		Details:      m.Details,
		AvgRating:    m.AvgRating,
		TotalRatings: m.TotalRatings,
	}
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	from, err := queryTime(r, "from")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	matches, err := s.services.Match.List(r.Context(), usecase.ListFilter{
		Sport:       r.URL.Query().Get("sport"),
		Competition: r.URL.Query().Get("competition"),
		From:        from,
		To:          to,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	items := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		items = append(items, toMatchResponse(m))
	}
	writeData(r.Context(), w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.services.Match.Get(r.Context(), r.PathValue("matchID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, toMatchResponse(m))
}
