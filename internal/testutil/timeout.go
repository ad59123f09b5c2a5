package testutil

import (
	"context"
	"testing"
	"time"
)

const (
	// DefaultAgentTimeout bounds tests that run a fake agent subprocess.
	DefaultAgentTimeout = 30 * time.Second

	// DefaultTestBuffer is subtracted from the test deadline to leave time
	// for cleanup before the test binary times out.
	DefaultTestBuffer = 5 * time.Second
)

// ContextWithTestDeadline creates a context that ends before the test's
// deadline, or after fallback when the test has none.
func ContextWithTestDeadline(t *testing.T, fallback time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	if deadline, ok := t.Deadline(); ok {
		adjusted := deadline.Add(-DefaultTestBuffer)
		if time.Until(adjusted) > 0 {
			return context.WithDeadline(context.Background(), adjusted)
		}
	}

	return context.WithTimeout(context.Background(), fallback)
}

// AgentContext creates a context suitable for running a fake agent.
func AgentContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return ContextWithTestDeadline(t, DefaultAgentTimeout)
}
