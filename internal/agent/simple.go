package agent

import (
	"context"

	"github.com/thruflo/ralph-loop/internal/config"
)

// Simple runs the agent with its standard streams connected directly to
// the configured ones.
type Simple struct {
	base
}

// NewSimple creates a pass-through Invoker.
func NewSimple(name config.AgentName, spec config.AgentSpec, opts Options) *Simple {
	return &Simple{base{name: name, spec: spec, opts: opts.withDefaults()}}
}

// Invoke runs the agent to completion.
func (s *Simple) Invoke(ctx context.Context) error {
	cmd := s.command(ctx)
	cmd.Stdin = s.opts.Stdin
	cmd.Stdout = s.opts.Stdout
	cmd.Stderr = s.opts.Stderr

	s.opts.Logger.Debug("starting agent", "agent", s.name, "command", s.spec.Command, "mode", config.ModeSimple)
	if err := s.fail(ctx, cmd.Run()); err != nil {
		return err
	}
	return ctx.Err()
}
