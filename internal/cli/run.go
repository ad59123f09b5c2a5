package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/ralph-loop/internal/agent"
	"github.com/thruflo/ralph-loop/internal/config"
	"github.com/thruflo/ralph-loop/internal/logging"
	"github.com/thruflo/ralph-loop/internal/loop"
)

var (
	runIterations          int
	runConfigPath          string
	runNoProgressThreshold int
)

// runInvokerFactory builds agent invokers. It can be overridden in tests.
var runInvokerFactory agent.Factory

var runCmd = &cobra.Command{
	Use:   "run <agent>",
	Short: "Run the agent loop",
	Long: `Runs the named agent (claude, cursor-agent or opencode) once per
iteration. Without --iterations, one iteration is run per incomplete task.

Press Ctrl-C to stop: the running agent receives SIGTERM and ralph-loop
exits with status 130.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&runIterations, "iterations", "n", 0, "number of iterations to run (default: number of incomplete tasks)")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to configuration file (default: .ralph/ralph_config.json)")
	runCmd.Flags().IntVar(&runNoProgressThreshold, "no-progress-threshold", 0, "stop after N iterations without a newly passing task (0 disables)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	name, err := config.ParseAgentName(args[0])
	if err != nil {
		return fmt.Errorf("invalid agent %q: %w", args[0], err)
	}

	if cmd.Flags().Changed("iterations") && runIterations <= 0 {
		return fmt.Errorf("%w: iterations must be a positive integer", loop.ErrInvalidArgument)
	}
	if runNoProgressThreshold < 0 {
		return fmt.Errorf("%w: no-progress threshold must not be negative", loop.ErrInvalidArgument)
	}

	cfg, err := config.Resolve(runConfigPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	runner := loop.NewRunner(loop.RunnerOptions{
		Config:     cfg,
		NewInvoker: runInvokerFactory,
		AgentOptions: agent.Options{
			Stdin:  cmd.InOrStdin(),
			Stderr: cmd.ErrOrStderr(),
		},
		Out:    cmd.OutOrStdout(),
		Logger: logging.Default(),
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := runner.Run(ctx, loop.RunOptions{
		Agent:               name,
		Iterations:          runIterations,
		NoProgressThreshold: runNoProgressThreshold,
	})
	logging.Debug("run finished", "run_id", res.RunID, "reason", res.Reason.String(), "completed", res.Completed)
	return err
}
