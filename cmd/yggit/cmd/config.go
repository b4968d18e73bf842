package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	LogLevel string `json:"loglevel" yaml:"loglevel"` // Log level (info, debug, none)
	Path     string `json:"path" yaml:"path"`         // Default repository path
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setYggitParams(flags *flagsT) {
	if flags.root.path == "." && c.Path != "" {
		flags.root.path = c.Path
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the config file",
	Long: `Commands to manage the config file for yggit.

The config file is optional: it carries defaults for flags that apply to every
run, like the logging level. Per repository settings (identity, editor,
default upstream) live in the git configuration instead.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
