package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thruflo/ralph-loop/internal/config"
	"gopkg.in/yaml.v3"
)

var (
	configRecreate bool
	configPrint    bool
	configPath     string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Reports whether the configuration file exists.

With --recreate, writes the built-in defaults to the configuration file,
overwriting it. With --print, shows the effective configuration after
RALPH_* environment overrides are applied.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configRecreate, "recreate", false, "recreate configuration file with default values")
	configCmd.Flags().BoolVar(&configPrint, "print", false, "print the effective configuration as YAML")
	configCmd.Flags().StringVar(&configPath, "config", "", "path to configuration file (default: .ralph/ralph_config.json)")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := configPath
	if path == "" {
		path = config.DefaultConfigFile
	}

	if configRecreate {
		cfg := config.DefaultConfig()
		cfg.ConfigFile = path
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Configuration file created at: %s\n", path)
		fmt.Fprintln(out, "\nYou can edit this file to customize agent commands and instructions.")
		if !configPrint {
			return nil
		}
	}

	if configPrint {
		cfg, err := config.Resolve(configPath)
		if err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Configuration file exists at: %s\n", path)
		fmt.Fprintln(out, "\nTo recreate with defaults, run: ralph-loop config --recreate")
	} else {
		fmt.Fprintf(out, "Configuration file not found at: %s\n", path)
		fmt.Fprintln(out, "\nTo create it, run: ralph-loop config --recreate")
	}
	return nil
}
