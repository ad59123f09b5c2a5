package cli

import (
	"context"
	"errors"

	"github.com/thruflo/ralph-loop/internal/loop"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, loop.ErrInterrupted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// Silent reports whether err should not be printed. Interruptions have
// already been announced by the loop.
func Silent(err error) bool {
	return ExitCode(err) == ExitInterrupted
}
