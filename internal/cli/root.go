package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thruflo/ralph-loop/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ralph-loop",
	Short: "Run AI coding agents in a loop over a task list",
	Long: `ralph-loop repeatedly invokes an AI coding agent (claude, cursor-agent
or opencode), once per iteration, against the task list in
.ralph/tasks_list.json. By default it runs one iteration per incomplete
task; each iteration the agent picks one task, works on it and marks it
as passing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLevel(logging.LevelDebug)
		}
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("ralph-loop version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
