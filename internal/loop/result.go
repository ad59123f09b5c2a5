package loop

import "errors"

var (
	// ErrInvalidArgument is returned for an unusable iteration count.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInterrupted is returned when SIGINT or SIGTERM ended the run.
	ErrInterrupted = errors.New("interrupted")
	// ErrStalled is returned when stall detection stopped the run.
	ErrStalled = errors.New("no progress")
)

// ExitReason indicates why the loop stopped.
type ExitReason int

const (
	ExitReasonUnknown     ExitReason = iota
	ExitReasonNothingToDo            // No incomplete tasks at start
	ExitReasonCompleted              // All planned iterations ran
	ExitReasonInterrupted            // SIGINT/SIGTERM or parent cancellation
	ExitReasonStalled                // No progress for N iterations
	ExitReasonFailed                 // Agent could not run or exited non-zero
)

// String returns a human-readable description of the exit reason.
func (r ExitReason) String() string {
	switch r {
	case ExitReasonNothingToDo:
		return "nothing to do"
	case ExitReasonCompleted:
		return "completed"
	case ExitReasonInterrupted:
		return "interrupted"
	case ExitReasonStalled:
		return "stalled"
	case ExitReasonFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a run.
type Result struct {
	RunID  string
	Reason ExitReason
	// Planned is the number of iterations the run set out to do.
	Planned int
	// Completed counts invocations that exited successfully.
	Completed int
	// Incomplete is the number of incomplete tasks when the run started.
	Incomplete int
	// History is only recorded when stall detection is enabled.
	History []Progress
}
