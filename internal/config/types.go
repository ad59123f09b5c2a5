package config

import (
	"fmt"
	"strings"
)

// AgentName identifies one of the supported agent CLIs.
type AgentName string

// Supported agents.
const (
	AgentClaude   AgentName = "claude"
	AgentCursor   AgentName = "cursor-agent"
	AgentOpencode AgentName = "opencode"
)

// AgentNames returns every supported agent name.
func AgentNames() []AgentName {
	return []AgentName{AgentClaude, AgentCursor, AgentOpencode}
}

// ParseAgentName validates an agent name given on the command line.
func ParseAgentName(s string) (AgentName, error) {
	for _, name := range AgentNames() {
		if string(name) == s {
			return name, nil
		}
	}

	names := make([]string, 0, len(AgentNames()))
	for _, name := range AgentNames() {
		names = append(names, string(name))
	}
	return "", ValidationError{
		Field:   "agent",
		Message: fmt.Sprintf("must be one of: %s", strings.Join(names, ", ")),
	}
}

// Mode selects how an agent's output is handled.
type Mode string

const (
	// ModeSimple runs the agent with its output passed straight through.
	ModeSimple Mode = "simple"
	// ModeStreaming parses the agent's stream-json events into progress lines.
	ModeStreaming Mode = "streaming"
)

// AgentSpec describes how to invoke one agent.
type AgentSpec struct {
	Command      []string `json:"command" yaml:"command" env:"COMMAND" envSeparator:" "`
	Instructions string   `json:"instructions" yaml:"instructions" env:"INSTRUCTIONS"`
	Mode         Mode     `json:"mode,omitempty" yaml:"mode,omitempty" env:"MODE"`
}

// Argv returns the full argument vector: the command followed by the
// instructions as the final argument.
func (s AgentSpec) Argv() []string {
	argv := make([]string, 0, len(s.Command)+1)
	argv = append(argv, s.Command...)
	return append(argv, s.Instructions)
}

// Executable returns the program name, or "" if the command is empty.
func (s AgentSpec) Executable() string {
	if len(s.Command) == 0 {
		return ""
	}
	return s.Command[0]
}

// Streaming reports whether the agent emits stream-json progress events.
func (s AgentSpec) Streaming() bool {
	return s.Mode == ModeStreaming
}

// Config represents the ralph_config.json file.
type Config struct {
	TasksFile    string `json:"tasks_file" yaml:"tasks_file" env:"TASKS_FILE"`
	ProgressFile string `json:"progress_file" yaml:"progress_file" env:"PROGRESS_FILE"`
	ConfigFile   string `json:"config_file" yaml:"config_file" env:"CONFIG_FILE"`

	Claude      AgentSpec `json:"claude" yaml:"claude" envPrefix:"CLAUDE_"`
	CursorAgent AgentSpec `json:"cursor_agent" yaml:"cursor_agent" envPrefix:"CURSOR_AGENT_"`
	Opencode    AgentSpec `json:"opencode" yaml:"opencode" envPrefix:"OPENCODE_"`
}

// Agent returns the invocation spec for the named agent.
func (c *Config) Agent(name AgentName) (AgentSpec, error) {
	switch name {
	case AgentClaude:
		return c.Claude, nil
	case AgentCursor:
		return c.CursorAgent, nil
	case AgentOpencode:
		return c.Opencode, nil
	}
	_, err := ParseAgentName(string(name))
	return AgentSpec{}, err
}

// agents returns pointers to each spec keyed by agent name, for code that
// must visit all three.
func (c *Config) agents() []agentField {
	return []agentField{
		{AgentClaude, "claude", &c.Claude},
		{AgentCursor, "cursor_agent", &c.CursorAgent},
		{AgentOpencode, "opencode", &c.Opencode},
	}
}

type agentField struct {
	name  AgentName
	field string
	spec  *AgentSpec
}
