package context

import (
	"context"
	"testing"
	"time"
)

// grace is left between the context deadline and the test deadline for cleanups.
const grace = time.Second

// WithTest returns a context which ends with the test: it is canceled on test cleanup,
// and, under `go test -timeout`, expires shortly before the test deadline.
func WithTest(t *testing.T) context.Context {
	t.Helper()
	ctx := t.Context()
	deadline, ok := t.Deadline()
	if !ok {
		return ctx
	}
	dctx, cancel := context.WithDeadline(ctx, deadline.Add(-grace))
	t.Cleanup(cancel)
	return dctx
}
