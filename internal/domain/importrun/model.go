package importrun

import "time"

const (
	TaskStatusSuccess = "success"
	TaskStatusFailed  = "failed"
	TaskStatusSkipped = "skipped"
)

// SportResult is one gateway's contribution to an import run.
type SportResult struct {
	Sport      string `json:"sport"`
	Status     string `json:"status"`
	Source     string `json:"source"`
	Fetched    int    `json:"fetched"`
	Saved      int    `json:"saved"`
	Skipped    int    `json:"skipped"`
	Errors     int    `json:"errors"`
	DurationMs int64  `json:"duration_ms"`
}

// Run is the persisted record of one full import pass.
type Run struct {
	ID         int64
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Saved      int
	Skipped    int
	Errors     int
	Breakdown  []SportResult
}
