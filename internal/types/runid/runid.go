// Package runid identifies a single resolution run. The identifier is attached
// to log records and to the resolved output.
package runid

import (
	"context"

	"github.com/google/uuid"
)

// RunID is a unique identifier of a resolution run.
type RunID string

// LogKey is the field name used for the run ID in log records.
const LogKey = "run_id"

// contextKey is an unexported type for context keys defined in this package.
type contextKey int

// runIDContextKey is the key for [RunID] in Contexts. Clients use
// runid.NewContext and runid.FromContext instead of using this key directly.
var runIDContextKey contextKey

// Generate generates a new run ID.
func Generate() RunID {
	return RunID(uuid.New().String())
}

// Parse validates s and returns it as a RunID in canonical form.
func Parse(s string) (RunID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RunID(id.String()), nil
}

// FromContext returns the RunID value stored in ctx, if any.
func FromContext(ctx context.Context) (RunID, bool) {
	id, exists := ctx.Value(runIDContextKey).(RunID)
	return id, exists
}

// NewContext returns a new Context that carries value runID.
func NewContext(ctx context.Context, runID RunID) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}
