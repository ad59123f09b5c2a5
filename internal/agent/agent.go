// Package agent runs one agent CLI invocation as a foreground subprocess.
//
// Two variants share the Invoker interface: Simple passes the child's stdio
// straight through, Streaming merges stdout and stderr into one pipe and
// renders it with a stream.Interpreter. Both send SIGTERM to the child when
// the context is cancelled.
package agent

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/thruflo/ralph-loop/internal/config"
	"github.com/thruflo/ralph-loop/internal/logging"
)

// Invoker runs an agent once and blocks until it exits.
type Invoker interface {
	// Invoke returns nil on a zero exit status, an *Error on a launch or
	// exit failure, and the context's error when ctx was cancelled.
	Invoke(ctx context.Context) error
}

// Options configures the standard streams and logging of an invocation.
// Nil streams default to the process's own.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	return o
}

// Factory builds an Invoker for a named agent.
type Factory func(name config.AgentName, spec config.AgentSpec, opts Options) Invoker

// New returns the Invoker variant selected by spec.Mode.
func New(name config.AgentName, spec config.AgentSpec, opts Options) Invoker {
	if spec.Streaming() {
		return NewStreaming(name, spec, opts)
	}
	return NewSimple(name, spec, opts)
}

// Available reports whether the spec's executable can be found on PATH.
func Available(spec config.AgentSpec) bool {
	if spec.Executable() == "" {
		return false
	}
	_, err := exec.LookPath(spec.Executable())
	return err == nil
}

// base holds what both variants need to build and classify a command.
type base struct {
	name config.AgentName
	spec config.AgentSpec
	opts Options
}

func (b *base) command(ctx context.Context) *exec.Cmd {
	argv := b.spec.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	return cmd
}

func (b *base) fail(ctx context.Context, err error) error {
	return classify(ctx, b.name, b.spec.Executable(), err)
}
