package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/yggit/yggit/pkg/core"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Edit the push plan and move local branches, without pushing",
	Long: `Edit the push plan and move local branches, without pushing.

Same plan as push, but stops once the metadata is saved and the local
branches point at their commits. No remote is contacted. Useful to inspect
the resulting branches before publishing them.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, err := newEngine()
		if err != nil {
			wrapFatalln("initialize", err)
			return
		}

		results, err := engine.Apply(ctx, yggitFlags.apply.onto)
		if err != nil {
			wrapFatalln("apply", err)
			return
		}
		if len(results) > 0 {
			// with apply, results only carry branch-move failures
			infoLogger.Println(core.FormatReport(results))
			wrapFatalWithCodef(1, "some branches could not be moved")
			return
		}
	},
}

func init() {
	addOntoFlag(applyCmd, &yggitFlags.apply.onto)

	rootCmd.AddCommand(applyCmd)
}
