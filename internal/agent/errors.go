package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"syscall"

	"github.com/thruflo/ralph-loop/internal/config"
)

// Kind classifies an agent failure.
type Kind int

const (
	// KindNotFound means the executable could not be located.
	KindNotFound Kind = iota + 1
	// KindStart means the executable exists but could not be launched.
	KindStart
	// KindExit means the agent ran and exited with a non-zero status.
	KindExit
	// KindInterrupted means the agent was stopped by SIGINT or SIGTERM, or
	// exited with the matching 128+n status.
	KindInterrupted
)

// Error is returned when an agent cannot be run or exits unsuccessfully.
type Error struct {
	Kind     Kind
	Agent    config.AgentName
	Command  string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("agent command not found: %s. Please ensure the agent is installed and available in PATH.", e.Command)
	case KindExit:
		return fmt.Sprintf("agent command %s failed with exit code %d", e.Command, e.ExitCode)
	case KindInterrupted:
		return fmt.Sprintf("agent command %s was interrupted", e.Command)
	default:
		return fmt.Sprintf("failed to start agent command %s: %v", e.Command, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an agent executable lookup failure.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}

// IsInterrupted reports whether err is an agent that was stopped by an
// interrupt or termination signal.
func IsInterrupted(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindInterrupted
}

// classify turns an exec error into an *Error. Cancellation wins over
// whatever the child reported, since the child was signalled by us.
func classify(ctx context.Context, name config.AgentName, command string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: KindNotFound, Agent: name, Command: command, ExitCode: -1, Err: err}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if interruptedExit(exitErr) {
			return &Error{Kind: KindInterrupted, Agent: name, Command: command, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &Error{Kind: KindExit, Agent: name, Command: command, ExitCode: exitErr.ExitCode(), Err: err}
	}

	return &Error{Kind: KindStart, Agent: name, Command: command, ExitCode: -1, Err: err}
}

// interruptedExit reports whether the child died from SIGINT or SIGTERM, or
// exited with 130 or 143. A terminal sends Ctrl-C to the whole foreground
// process group, so the child can exit before our own handler has run.
func interruptedExit(e *exec.ExitError) bool {
	if ws, ok := e.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		switch ws.Signal() {
		case syscall.SIGINT, syscall.SIGTERM:
			return true
		}
	}
	switch e.ExitCode() {
	case 128 + int(syscall.SIGINT), 128 + int(syscall.SIGTERM):
		return true
	}
	return false
}
