package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current plan in the editor, read-only",
	Long: `Display the current plan in the editor, read-only.

The full plan is shown: push targets and validation commands for every commit
of the stack. Edits made in the editor are discarded.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, err := newEngine()
		if err != nil {
			wrapFatalln("initialize", err)
			return
		}

		if err := engine.Show(ctx, yggitFlags.show.onto); err != nil {
			wrapFatalln("show", err)
			return
		}
	},
}

func init() {
	addOntoFlag(showCmd, &yggitFlags.show.onto)

	rootCmd.AddCommand(showCmd)
}
