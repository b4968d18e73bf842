package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/yggit/yggit/pkg/core"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Edit the validation commands and run them for every commit",
	Long: `Edit the validation commands and run them for every commit.

Opens the plan in your editor showing the "$ command" lines of each commit.
Saving the plan persists the commands, then every command runs in the working
tree, in stack order. A failing command does not stop the run; the report
lists every outcome.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, err := newEngine()
		if err != nil {
			wrapFatalln("initialize", err)
			return
		}

		results, err := engine.Test(ctx, yggitFlags.test.onto)
		if err != nil {
			wrapFatalln("test", err)
			return
		}
		if len(results) > 0 {
			infoLogger.Println(core.FormatTestReport(results))
		}
		for _, r := range results {
			if !r.Passed {
				wrapFatalWithCodef(1, "some validation commands failed")
				return
			}
		}
	},
}

func init() {
	addOntoFlag(testCmd, &yggitFlags.test.onto)

	rootCmd.AddCommand(testCmd)
}
