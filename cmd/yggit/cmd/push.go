package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/yggit/yggit/pkg/core"
	"github.com/yggit/yggit/pkg/model"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Edit the push plan and push every targeted branch",
	Long: `Edit the push plan and push every targeted branch.

Opens the plan in your editor with one line per commit of the stack. Add a
"-> branch" line under a commit to target a branch, "-> remote:branch" to pick
a remote other than the default upstream. Saving the plan persists the
targets, moves the local branches and pushes each one.

Pushes are force-with-lease: a branch the remote moved since the last fetch is
rejected and reported, without touching the other branches of the run.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, err := newEngine()
		if err != nil {
			wrapFatalln("initialize", err)
			return
		}

		mode := model.PushForceWithLease
		if yggitFlags.push.force {
			mode = model.PushForce
		}
		results, err := engine.Push(ctx, core.PushParams{
			Boundary: yggitFlags.push.onto,
			Mode:     mode,
			NoPush:   yggitFlags.push.noPush,
		})
		if err != nil {
			wrapFatalln("push", err)
			return
		}
		if len(results) > 0 {
			infoLogger.Println(core.FormatReport(results))
		}
		for _, r := range results {
			if !r.Status.Pushed() && r.Status != model.NotPushedNoUpdate {
				wrapFatalWithCodef(1, "some branches were not pushed")
				return
			}
		}
	},
}

func init() {
	addOntoFlag(pushCmd, &yggitFlags.push.onto)
	addForceFlag(pushCmd)
	addNoPushFlag(pushCmd)

	rootCmd.AddCommand(pushCmd)
}
