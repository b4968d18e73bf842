package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yggit/yggit/pkg/dlogger"
)

type flagsT struct {
	root struct {
		logLevel string
		path     string
	}
	push struct {
		force  bool
		noPush bool
		onto   string
	}
	apply struct {
		onto string
	}
	show struct {
		onto string
	}
	test struct {
		onto string
	}
}

var yggitFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	if cmd != nil {
		cmd.PersistentFlags().StringVar(&yggitFlags.root.logLevel, logLevel, "",
			"The logging level, one of: info, debug, none")
	}
	return logLevel
}

func addPathFlag(cmd *cobra.Command) string {
	path := "path"
	if cmd != nil {
		cmd.PersistentFlags().StringVar(&yggitFlags.root.path, path, ".",
			"A path inside the repository to operate on, defaults to the current directory")
	}
	return path
}

func addOntoFlag(cmd *cobra.Command, target *string) string {
	onto := "onto"
	if cmd != nil {
		cmd.Flags().StringVar(target, onto, "",
			"The boundary branch the stack is based on, defaults to the repository's default branch")
	}
	return onto
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	if cmd != nil {
		cmd.Flags().BoolVar(&yggitFlags.push.force, force, false,
			"Overwrite remote branches unconditionally instead of force-with-lease")
	}
	return force
}

func addNoPushFlag(cmd *cobra.Command) string {
	noPush := "no-push"
	if cmd != nil {
		cmd.Flags().BoolVar(&yggitFlags.push.noPush, noPush, false,
			"Save the plan and move local branches without contacting any remote")
	}
	return noPush
}

// logLevel resolves the effective logging level: flag, then config file, then
// info.
func logLevel() string {
	if yggitFlags.root.logLevel != "" {
		return yggitFlags.root.logLevel
	}
	if config != nil && config.LogLevel != "" {
		return config.LogLevel
	}
	return dlogger.LogLevelInfo
}
