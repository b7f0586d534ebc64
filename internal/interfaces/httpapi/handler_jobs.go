package httpapi

import (
	"net/http"
	"time"

	"github.com/sporating/sporating/internal/domain/importrun"
)

type runImportRequest struct {
	Season string   `json:"season"`
	Sports []string `json:"sports"`
}

type importRunResponse struct {
	RunID      string                  `json:"runId"`
	StartedAt  time.Time               `json:"startedAt"`
	FinishedAt time.Time               `json:"finishedAt"`
	Total      int                     `json:"total"`
	Saved      int                     `json:"saved"`
	Skipped    int                     `json:"skipped"`
	Errors     int                     `json:"errors"`
	Breakdown  []importrun.SportResult `json:"breakdown"`
}

func toImportRunResponse(run importrun.Run) importRunResponse {
	return importRunResponse{
		RunID:      run.RunID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Total:      run.Total,
		Saved:      run.Saved,
		Skipped:    run.Skipped,
		Errors:     run.Errors,
		Breakdown:  run.Breakdown,
	}
}

// handleRunImport executes a full import pass synchronously. Provider
// failures are folded into the breakdown, so the response is a success
// envelope even when some sports came back empty.
func (s *Server) handleRunImport(w http.ResponseWriter, r *http.Request) {
	var req runImportRequest
	// The body is optional: an empty request imports every sport for the
	// configured season.
	if r.ContentLength > 0 {
		if err := s.decodeBody(r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
	}
	if req.Season == "" {
		req.Season = s.defaultSeason
	}

	run, err := s.services.Import.ImportAll(r.Context(), req.Season, req.Sports)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, toImportRunResponse(run))
}

func (s *Server) handleGetImportRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.services.Import.GetRun(r.Context(), r.PathValue("runID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(r.Context(), w, http.StatusOK, toImportRunResponse(run))
}
