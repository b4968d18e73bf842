// Package plan renders the commit stack with its pending metadata as an
// editable text plan, and parses the edited plan back into instructions.
//
// The grammar is line oriented:
//
//	<commit-id> <title>
//	-> [origin:]branch
//	$ <command>
//	# comment
//
// A commit line opens an entry; it may be followed by at most one target line
// and any number of test lines. Blank lines separate entries and comment lines
// are ignored.
package plan

import (
	"strings"

	"github.com/yggit/yggit/pkg/model"
)

// Entry pairs a commit with its currently stored metadata. A zero Meta means
// the commit carries no record.
type Entry struct {
	Commit model.Commit
	Meta   model.Metadata
}

// Filter selects which annotation kinds the renderer emits. Commands that only
// edit one field of the metadata render only that field, so the user cannot
// accidentally clear the other one.
type Filter int

const (
	// FilterAll renders targets and tests
	FilterAll Filter = iota

	// FilterTargets renders push targets only
	FilterTargets

	// FilterTests renders test commands only
	FilterTests
)

const helpTargets = `
# Here is how to use yggit
#
# Commands:
# -> <branch> add a branch to the above commit
# -> <origin>:<branch> add a branch to the above commit
#
# What happens next?
#  - All branches are pushed on origin, except if you specified a custom origin
#
# It's not a rebase, you can't edit commits nor reorder them
`

const helpTests = `
# Here is how to use yggit
#
# Commands:
# $ <command> this command will be executed
#
# It's not a rebase, you can't edit commits nor reorder them
`

const helpAll = `
# Here is how to use yggit
#
# Commands:
# -> <branch> add a branch to the above commit
# -> <origin>:<branch> add a branch to the above commit
# $ <command> this command will be executed
#
# What happens next?
#  - All branches are pushed on origin, except if you specified a custom origin
#
# It's not a rebase, you can't edit commits nor reorder them
`

// Render produces the editable plan for the given entries, in order, followed
// by embedded help text. The parser ignores the help lines.
func Render(entries []Entry, filter Filter) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Commit.ID)
		b.WriteString(" ")
		b.WriteString(e.Commit.Title)
		b.WriteString("\n")
		if filter != FilterTests {
			if t := e.Meta.Push; t != nil {
				b.WriteString("-> ")
				if t.Origin != nil && *t.Origin != "" {
					b.WriteString(*t.Origin)
					b.WriteString(":")
				}
				b.WriteString(t.Branch)
				b.WriteString("\n")
			}
		}
		if filter != FilterTargets {
			for _, cmd := range e.Meta.Tests {
				b.WriteString("$ ")
				b.WriteString(cmd)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	switch filter {
	case FilterTargets:
		b.WriteString(helpTargets)
	case FilterTests:
		b.WriteString(helpTests)
	default:
		b.WriteString(helpAll)
	}
	return b.String()
}
