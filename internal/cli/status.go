package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/thruflo/ralph-loop/internal/agent"
	"github.com/thruflo/ralph-loop/internal/config"
	"github.com/thruflo/ralph-loop/internal/tasks"
)

var statusConfigPath string

// agentAvailable reports whether an agent executable is installed.
// It can be overridden in tests.
var agentAvailable = agent.Available

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show task progress and agent availability",
	Long: `Shows how many tasks in the task list are passing, lists the
incomplete ones, and reports whether each agent's executable is on PATH.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusConfigPath, "config", "", "path to configuration file (default: .ralph/ralph_config.json)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(statusConfigPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	r := lipgloss.NewRenderer(out)
	heading := r.NewStyle().Bold(true)
	ok := r.NewStyle().Foreground(lipgloss.Color("10"))
	missing := r.NewStyle().Foreground(lipgloss.Color("9"))

	list, err := tasks.NewStore(cfg.TasksFile).ReadTasks()
	if err != nil {
		return err
	}

	completed, total := tasks.Progress(list)
	fmt.Fprintln(out, heading.Render("Tasks"))
	fmt.Fprintf(out, "%s: %d/%d passing\n", cfg.TasksFile, completed, total)
	printIncomplete(out, list)

	fmt.Fprintln(out)
	fmt.Fprintln(out, heading.Render("Agents"))

	nameWidth := 0
	for _, name := range config.AgentNames() {
		nameWidth = max(nameWidth, len(name))
	}
	for _, name := range config.AgentNames() {
		spec, err := cfg.Agent(name)
		if err != nil {
			return err
		}
		mark := ok.Render("found")
		if !agentAvailable(spec) {
			mark = missing.Render("not found")
		}
		fmt.Fprintf(out, "  %-*s  %-9s  %s (%s)\n", nameWidth, name, spec.Mode, spec.Executable(), mark)
	}

	return nil
}

func printIncomplete(out io.Writer, list []tasks.Task) {
	var lines []string
	for i, t := range list {
		if t.Passes {
			continue
		}
		lines = append(lines, fmt.Sprintf("  [%d] %s: %s", i, t.Category, t.Description))
	}
	if len(lines) == 0 {
		fmt.Fprintln(out, "All tasks are passing.")
		return
	}
	fmt.Fprintln(out, "Incomplete:")
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}
