package core

import (
	"context"

	"github.com/yggit/yggit/pkg/plan"
	"go.uber.org/zap"
)

// TestResult is the outcome of one validation command of one commit.
type TestResult struct {
	Commit  string
	Command string
	Passed  bool
	Output  string
	Err     error
}

// Test lets the user edit the validation commands of the stack, merges them
// (tests only, push targets are preserved untouched) and runs every command in
// the working tree. A failing command does not stop the run.
func (e *Engine) Test(ctx context.Context, boundary string) ([]TestResult, error) {
	entries, err := e.entries(ctx, boundary)
	if err != nil {
		return nil, err
	}

	instructions, err := e.editPlan(ctx, entries, plan.FilterTests)
	if err != nil {
		return nil, err
	}

	if err = e.Merge(ctx, instructions, MergeTestsOnly); err != nil {
		return nil, err
	}

	var results []TestResult
	for _, ins := range instructions {
		for _, command := range ins.Tests {
			e.l.Debug("running test command",
				zap.String("commit", ins.ID),
				zap.String("command", command),
			)
			out, runErr := e.runCmd(ctx, e.repo.Root(), command)
			results = append(results, TestResult{
				Commit:  ins.ID,
				Command: command,
				Passed:  runErr == nil,
				Output:  out,
				Err:     runErr,
			})
		}
	}
	return results, nil
}
