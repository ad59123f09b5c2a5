package agent

import (
	"context"
	"sync"

	"github.com/thruflo/ralph-loop/internal/config"
)

// MockInvoker is a test double for Invoker.
type MockInvoker struct {
	// InvokeFunc is called on each Invoke with the 1-based call number.
	// If nil, Invoke returns nil.
	InvokeFunc func(ctx context.Context, call int) error

	mu    sync.Mutex
	calls int
}

// Invoke records the call and delegates to InvokeFunc.
func (m *MockInvoker) Invoke(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, call)
	}
	return nil
}

// Calls returns how many times Invoke has been called.
func (m *MockInvoker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Factory returns an agent.Factory that always hands out m.
func (m *MockInvoker) Factory() Factory {
	return func(_ config.AgentName, _ config.AgentSpec, _ Options) Invoker {
		return m
	}
}
