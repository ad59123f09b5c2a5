package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// RALPH_TASKS_FILE or RALPH_CLAUDE_COMMAND.
const EnvPrefix = "RALPH_"

// ErrNotFound is returned when an explicitly requested config file is missing.
var ErrNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Load reads the config file at path over the built-in defaults, then
// applies environment overrides. Files ending in .yaml or .yml are read as
// YAML, everything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := baseConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return finish(&cfg)
}

// Resolve returns the configuration for a CLI invocation. An explicit
// path must exist. With no path, the default config file is used when
// present and the built-in defaults otherwise.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return Load(DefaultConfigFile)
	}

	cfg := baseConfig()
	return finish(&cfg)
}

// baseConfig is DefaultConfig with every mode cleared. Only a mode named
// in the file or the environment survives; finish infers the others from
// the final command.
func baseConfig() Config {
	cfg := DefaultConfig()
	for _, a := range cfg.agents() {
		a.spec.Mode = ""
	}
	return cfg
}

func finish(cfg *Config) (*Config, error) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	for _, a := range cfg.agents() {
		if a.spec.Mode == "" {
			a.spec.Mode = inferMode(a.name, a.spec.Command)
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// inferMode picks the output mode for specs that do not name one. Only
// cursor-agent's stream-json events are understood.
func inferMode(name AgentName, command []string) Mode {
	if name != AgentCursor {
		return ModeSimple
	}
	for i, arg := range command {
		if arg == "--output-format=stream-json" {
			return ModeStreaming
		}
		if arg == "--output-format" && i+1 < len(command) && command[i+1] == "stream-json" {
			return ModeStreaming
		}
	}
	return ModeSimple
}

// ValidateConfig checks that all config values are usable.
func ValidateConfig(cfg *Config) error {
	if cfg.TasksFile == "" {
		return ValidationError{Field: "tasks_file", Message: "required field is empty"}
	}
	if cfg.ProgressFile == "" {
		return ValidationError{Field: "progress_file", Message: "required field is empty"}
	}
	if cfg.ConfigFile == "" {
		return ValidationError{Field: "config_file", Message: "required field is empty"}
	}

	for _, a := range cfg.agents() {
		if a.spec.Executable() == "" {
			return ValidationError{Field: a.field + ".command", Message: "must name an executable"}
		}
		switch a.spec.Mode {
		case ModeSimple, ModeStreaming:
		default:
			return ValidationError{
				Field:   a.field + ".mode",
				Message: fmt.Sprintf("must be %q or %q, got %q", ModeSimple, ModeStreaming, a.spec.Mode),
			}
		}
	}

	return nil
}

// Save writes the full configuration to path, or to c.ConfigFile when path
// is empty. Parent directories are created as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = c.ConfigFile
	}

	data, err := Marshal(c, path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal encodes the configuration in the format implied by path.
func Marshal(c *Config, path string) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append(data, '\n'), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
