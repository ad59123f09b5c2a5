package config

import "fmt"

// Default file locations, relative to the working directory.
const (
	DefaultTasksFile    = ".ralph/tasks_list.json"
	DefaultProgressFile = ".ralph/progress_tasks.txt"
	DefaultConfigFile   = ".ralph/ralph_config.json"
)

// instructionsTemplate is the prompt handed to every agent. %[1]s is the
// quote character used around file names and commands.
const instructionsTemplate = `Initial tasks

  - Run %[1]spwd%[1]s to see the directory you are working in. You will only be able to edit files in this directory.
  - Read @CLAUDE.md in the repository root, the git logs and @./ralph/progress_tasks.txt to get up to speed on what was recently worked on.
  - Read the @.ralph/tasks_list.json list file and choose the single highest-priority feature that is not yet done to work on.
  - Do not work on multiple features at once.

  Then, work on that feature only.

  Once complete, you may update that single feature object "passes" property to true.

  Update %[1]s./.ralph/progress_tasks.txt%[1]s with a 3-4 lines summary of what has been done. Be extremely concise. Sacrifice grammar for the sake of concision.

  IT IS IMPERATIVE THAT YOU DO NOT UPDATE %[1]s./.ralph/tasks_list.json%[1]s in any other way - only the single feature "passes" property. It is unacceptable to remove or edit other fields because this could lead to missing or buggy functionality.

  If you learn anything useful that might be helpful for future turns - such as implementation or details about writing or updating test cases, please update @CLAUDE.md with this information.

  Then commit these changes, other than the files in the .ralph directory. And report on how you did.`

// DefaultInstructions returns the built-in prompt. opencode receives the
// prompt through a shell-friendly variant with double quotes.
func DefaultInstructions(name AgentName) string {
	if name == AgentOpencode {
		return fmt.Sprintf(instructionsTemplate, `"`)
	}
	return fmt.Sprintf(instructionsTemplate, "`")
}

// DefaultAgents returns the built-in invocation spec for each agent.
func DefaultAgents() map[AgentName]AgentSpec {
	return map[AgentName]AgentSpec{
		AgentClaude: {
			Command:      []string{"claude", "--dangerously-skip-permissions", "--model", "opus", "-p"},
			Instructions: DefaultInstructions(AgentClaude),
			Mode:         ModeSimple,
		},
		AgentCursor: {
			Command: []string{
				"agent",
				"--model", "composer-1.5",
				"--sandbox", "disabled",
				"--force",
				"-p",
				"--output-format", "stream-json",
				"--stream-partial-output",
			},
			Instructions: DefaultInstructions(AgentCursor),
			Mode:         ModeStreaming,
		},
		AgentOpencode: {
			Command:      []string{"opencode", "--model", "openai/gpt-5.1-codex-mini", "run"},
			Instructions: DefaultInstructions(AgentOpencode),
			Mode:         ModeSimple,
		},
	}
}

// DefaultConfig returns a Config with the built-in paths and agents.
func DefaultConfig() Config {
	agents := DefaultAgents()
	return Config{
		TasksFile:    DefaultTasksFile,
		ProgressFile: DefaultProgressFile,
		ConfigFile:   DefaultConfigFile,
		Claude:       agents[AgentClaude],
		CursorAgent:  agents[AgentCursor],
		Opencode:     agents[AgentOpencode],
	}
}
