package app

import "strings"

// Leaderboard reads and import upserts are multi-line statements; collapse
// them to one line and cap the length so span attributes stay readable.
const maxTracedQueryLength = 512

func formatDBQueryForTrace(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	normalized := strings.Join(fields, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
