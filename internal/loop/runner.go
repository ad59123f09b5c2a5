package loop

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/thruflo/ralph-loop/internal/agent"
	"github.com/thruflo/ralph-loop/internal/config"
	"github.com/thruflo/ralph-loop/internal/logging"
	"github.com/thruflo/ralph-loop/internal/tasks"
)

// Separator is printed after every successful iteration.
var Separator = strings.Repeat("-", 40)

// RunnerOptions holds the dependencies of a Runner. Only Config is required.
type RunnerOptions struct {
	Config *config.Config

	// Store defaults to a store over Config.TasksFile.
	Store *tasks.Store
	// NewInvoker defaults to agent.New.
	NewInvoker agent.Factory
	// AgentOptions are passed to NewInvoker. A nil Stdout is set to Out.
	AgentOptions agent.Options
	// Out receives the loop's progress lines. Defaults to os.Stdout.
	Out io.Writer
	// Logger defaults to logging.Default().
	Logger *logging.Logger
	// Signals that interrupt the run. Defaults to SIGINT and SIGTERM.
	Signals []os.Signal
	// NewRunID defaults to a random UUID.
	NewRunID func() string
}

// RunOptions selects the agent and bounds a single run.
type RunOptions struct {
	Agent config.AgentName
	// Iterations is the number of invocations; 0 means one per incomplete
	// task. Negative values are rejected.
	Iterations int
	// NoProgressThreshold stops the run after that many consecutive
	// iterations without a newly passing task. 0 disables the check.
	NoProgressThreshold int
}

// Runner drives the iteration loop.
type Runner struct {
	cfg        *config.Config
	store      *tasks.Store
	newInvoker agent.Factory
	agentOpts  agent.Options
	out        io.Writer
	logger     *logging.Logger
	signals    []os.Signal
	newRunID   func() string
	styles     styles
}

type styles struct {
	banner  lipgloss.Style
	done    lipgloss.Style
	warning lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		done:    r.NewStyle().Foreground(lipgloss.Color("10")),
		warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
}

// NewRunner creates a Runner with explicit options.
func NewRunner(opts RunnerOptions) *Runner {
	r := &Runner{
		cfg:        opts.Config,
		store:      opts.Store,
		newInvoker: opts.NewInvoker,
		agentOpts:  opts.AgentOptions,
		out:        opts.Out,
		logger:     opts.Logger,
		signals:    opts.Signals,
		newRunID:   opts.NewRunID,
	}

	if r.store == nil {
		r.store = tasks.NewStore(r.cfg.TasksFile)
	}
	if r.newInvoker == nil {
		r.newInvoker = agent.New
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.agentOpts.Stdout == nil {
		r.agentOpts.Stdout = r.out
	}
	if r.logger == nil {
		r.logger = logging.Default()
	}
	if r.agentOpts.Logger == nil {
		r.agentOpts.Logger = r.logger
	}
	if len(r.signals) == 0 {
		r.signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	if r.newRunID == nil {
		r.newRunID = func() string { return uuid.New().String() }
	}
	r.styles = newStyles(r.out)

	return r
}

// runState is the mutable state of one run.
type runState struct {
	result      *Result
	interrupted atomic.Bool
}

// Run executes the loop. The returned Result is never nil; it describes
// how far the run got even when an error is returned.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	st := &runState{result: &Result{RunID: r.newRunID()}}
	res := st.result
	log := r.logger.WithFields(map[string]interface{}{
		"run_id": res.RunID,
		"agent":  string(opts.Agent),
	})

	spec, err := r.cfg.Agent(opts.Agent)
	if err != nil {
		res.Reason = ExitReasonFailed
		return res, err
	}

	// Validating
	if !r.store.Exists() {
		res.Reason = ExitReasonFailed
		return res, fmt.Errorf("%w: %s. Please ensure tasks_list.json exists", tasks.ErrNotFound, r.store.Path())
	}

	// Counting
	incomplete, err := r.store.CountIncomplete()
	if err != nil {
		res.Reason = ExitReasonFailed
		return res, err
	}
	res.Incomplete = incomplete
	log.Debug("counted tasks", "incomplete", incomplete, "tasks_file", r.store.Path())

	if incomplete == 0 {
		r.printf("No incomplete tasks found in tasks_list.json (all items have passes: true)\n")
		r.printf("Nothing to do. Exiting.\n")
		res.Reason = ExitReasonNothingToDo
		return res, nil
	}

	if opts.Iterations < 0 {
		res.Reason = ExitReasonFailed
		return res, fmt.Errorf("%w: iterations must be a positive integer, got %d", ErrInvalidArgument, opts.Iterations)
	}
	if opts.NoProgressThreshold < 0 {
		res.Reason = ExitReasonFailed
		return res, fmt.Errorf("%w: no-progress threshold must not be negative, got %d", ErrInvalidArgument, opts.NoProgressThreshold)
	}

	res.Planned = opts.Iterations
	if res.Planned == 0 {
		res.Planned = incomplete
	}

	r.printf("Found %d incomplete task(s) to work on\n", incomplete)

	// The signal scope covers the loop only; stop restores default
	// handling on every return path below.
	loopCtx, stop := signal.NotifyContext(ctx, r.signals...)
	defer stop()
	stopWatch := context.AfterFunc(loopCtx, func() { st.interrupted.Store(true) })
	defer stopWatch()

	if opts.NoProgressThreshold > 0 {
		r.recordProgress(st, log, 0)
	}

	invoker := r.newInvoker(opts.Agent, spec, r.agentOpts)
	log.Info("starting run", "iterations", res.Planned, "mode", spec.Mode)

	for i := 1; i <= res.Planned; i++ {
		if r.isInterrupted(loopCtx, st) {
			break
		}

		r.println(r.styles.banner.Render(fmt.Sprintf("Iteration %d of %d", i, res.Planned)))
		log.Debug("invoking agent", "iteration", i)

		if err := invoker.Invoke(loopCtx); err != nil {
			// The child can see Ctrl-C and exit before the signal scope fires.
			if agent.IsInterrupted(err) {
				st.interrupted.Store(true)
			}
			if r.isInterrupted(loopCtx, st) {
				break
			}
			log.Error("agent failed", "iteration", i, "error", err)
			res.Reason = ExitReasonFailed
			return res, err
		}

		res.Completed++
		if !spec.Streaming() {
			r.printf("Completed iteration %d\n", i)
		}
		r.println(Separator)

		if opts.NoProgressThreshold > 0 {
			r.recordProgress(st, log, i)
			if i < res.Planned && Stalled(res.History, opts.NoProgressThreshold) {
				r.println(r.styles.warning.Render(fmt.Sprintf(
					"No task passed in the last %d iteration(s), stopping", opts.NoProgressThreshold)))
				log.Warn("run stalled", "iteration", i, "threshold", opts.NoProgressThreshold)
				res.Reason = ExitReasonStalled
				return res, fmt.Errorf("%w after %d iteration(s)", ErrStalled, res.Completed)
			}
		}
	}

	if r.isInterrupted(loopCtx, st) {
		r.printf("\nInterrupted after %d iteration(s)\n", res.Completed)
		log.Info("run interrupted", "completed", res.Completed)
		res.Reason = ExitReasonInterrupted
		return res, ErrInterrupted
	}

	r.println(r.styles.done.Render(fmt.Sprintf("All %d iteration(s) completed", res.Planned)))
	log.Info("run completed", "completed", res.Completed)
	res.Reason = ExitReasonCompleted
	return res, nil
}

// isInterrupted checks the flag set by the signal scope. The context is
// consulted too since the flag is set asynchronously.
func (r *Runner) isInterrupted(ctx context.Context, st *runState) bool {
	if ctx.Err() != nil {
		st.interrupted.Store(true)
	}
	return st.interrupted.Load()
}

// recordProgress appends the current passing count to the history. A task
// file the agent left unreadable is logged and skipped, not fatal.
func (r *Runner) recordProgress(st *runState, log *logging.Logger, iteration int) {
	completed, err := r.store.CountComplete()
	if err != nil {
		log.Warn("could not read task progress", "iteration", iteration, "error", err)
		return
	}

	st.result.History = append(st.result.History, Progress{Iteration: iteration, TasksCompleted: completed})
	log.Debug("task progress",
		"iteration", iteration,
		"passing", completed,
		"rate", ProgressRate(st.result.History, 3),
	)
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Runner) println(s string) {
	fmt.Fprintln(r.out, s)
}
