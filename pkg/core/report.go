package core

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/yggit/yggit/pkg/model"
)

// FormatReport renders the per-branch outcomes of a push run. Every target
// branch appears with its specific outcome, never a single aggregate result.
func FormatReport(results []model.PushResult) string {
	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("BRANCH", "ORIGIN", "COMMIT", "RESULT")
	for _, r := range results {
		table.AddRow(r.Branch, r.Origin, short(r.Commit), colorize(r))
	}
	return table.String()
}

// FormatTestReport renders the per-command outcomes of a test run.
func FormatTestReport(results []TestResult) string {
	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("COMMIT", "COMMAND", "RESULT")
	for _, r := range results {
		status := color.GreenString("passed")
		if !r.Passed {
			status = color.RedString("failed")
		}
		table.AddRow(short(r.Commit), r.Command, status)
	}
	return table.String()
}

func colorize(r model.PushResult) string {
	msg := r.Status.String()
	if r.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, r.Err)
	}
	switch {
	case r.Status.Pushed():
		return color.GreenString(msg)
	case r.Status == model.NotPushedNoUpdate:
		return color.YellowString(msg)
	default:
		return color.RedString(msg)
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
