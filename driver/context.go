package driver

import (
	"context"

	"github.com/google/uuid"
)

// ExecutionID identifies one execution context: the unit of test isolation that owns at most one
// driver at a time.
type ExecutionID string

type executionIDKey struct{}

// NewExecutionContext returns a child of ctx carrying a fresh ExecutionID.
func NewExecutionContext(ctx context.Context) (context.Context, ExecutionID) {
	id := ExecutionID(uuid.NewString())
	return context.WithValue(ctx, executionIDKey{}, id), id
}

// ExecutionIDFrom returns the ExecutionID carried by ctx, if any.
func ExecutionIDFrom(ctx context.Context) (ExecutionID, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(executionIDKey{}).(ExecutionID)
	return id, ok && id != ""
}
