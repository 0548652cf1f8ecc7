package core

import "context"

// Context keys for scoring options
type contextKey string

const (
	skipHistoryKey contextKey = "skipHistory"
	runIDKey       contextKey = "runID"
)

// WithoutHistory marks the context so that scoring passes are not recorded
// in the history store. Read-only callers such as the MCP tools use it.
func WithoutHistory(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipHistoryKey, true)
}

// shouldSkipHistory returns whether history recording is disabled for the context
func shouldSkipHistory(ctx context.Context) bool {
	val := ctx.Value(skipHistoryKey)
	if val == nil {
		return false // default: record when a store exists
	}
	skip, ok := val.(bool)
	return ok && skip
}

// withRunID stores the history run ID in the context
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID retrieves the history run ID from the context
func getRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0, false
	}
	runID, ok := val.(int64)
	return runID, ok
}
