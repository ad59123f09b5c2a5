package agent

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/thruflo/ralph-loop/internal/config"
	"github.com/thruflo/ralph-loop/internal/stream"
)

// Streaming runs an agent that emits stream-json events and renders them
// as progress lines on Stdout.
type Streaming struct {
	base
}

// NewStreaming creates an Invoker that interprets the agent's event stream.
func NewStreaming(name config.AgentName, spec config.AgentSpec, opts Options) *Streaming {
	return &Streaming{base{name: name, spec: spec, opts: opts.withDefaults()}}
}

// Invoke runs the agent, reading its merged output until EOF or
// cancellation, then waits for it to exit.
func (s *Streaming) Invoke(ctx context.Context) error {
	// A single pipe for both streams keeps stdout and stderr lines in the
	// order the child wrote them.
	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create output pipe: %w", err)
	}
	defer pr.Close()

	cmd := s.command(ctx)
	cmd.Stdin = s.opts.Stdin
	cmd.Stdout = pw
	cmd.Stderr = pw

	s.opts.Logger.Debug("starting agent", "agent", s.name, "command", s.spec.Command, "mode", config.ModeStreaming)
	if err := cmd.Start(); err != nil {
		pw.Close()
		return s.fail(ctx, err)
	}
	// The child holds its own copy; ours must go so EOF arrives on exit.
	pw.Close()

	summary, streamErr := stream.NewInterpreter(s.opts.Stdout).Consume(ctx, pr)
	if streamErr != nil && ctx.Err() == nil {
		s.opts.Logger.Warn("agent output could not be read", "agent", s.name, "error", streamErr)
		// Keep draining so the child is not killed by a broken pipe.
		_, _ = io.Copy(io.Discard, pr)
	}

	waitErr := cmd.Wait()
	s.opts.Logger.Debug("agent exited",
		"agent", s.name,
		"tools", summary.Tools,
		"chars", summary.Chars,
		"result_seen", summary.Completed,
	)

	if err := s.fail(ctx, waitErr); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
