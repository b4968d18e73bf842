package plan

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/model"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrMalformedPlan rejects the whole plan: nothing is merged or written
	ErrMalformedPlan errString = "malformed plan"
)

// Parse tokenizes an edited plan into an ordered list of instructions.
//
// A commit line with no annotation lines yields an instruction with no target
// and no tests, which signals that any stored metadata must be cleared. Any
// line outside the grammar fails the whole parse.
func Parse(text string) ([]model.Instruction, error) {
	var (
		instructions []model.Instruction
		current      *model.Instruction
	)

	flush := func() {
		if current != nil {
			instructions = append(instructions, *current)
			current = nil
		}
	}

	for i, raw := range strings.Split(text, "\n") {
		lineno := i + 1
		line := strings.TrimRight(raw, "\r")

		switch {
		case strings.TrimSpace(line) == "":
			continue

		case strings.HasPrefix(line, "#"):
			continue

		case strings.HasPrefix(line, "->"):
			if current == nil {
				return nil, errors.Wrapf(ErrMalformedPlan, "line %d: target with no commit above", lineno)
			}
			if current.Target != nil {
				return nil, errors.Wrapf(ErrMalformedPlan, "line %d: more than one target for commit %s", lineno, current.ID)
			}
			if len(current.Tests) > 0 {
				return nil, errors.Wrapf(ErrMalformedPlan, "line %d: target must precede test commands", lineno)
			}
			target, err := parseTarget(strings.TrimSpace(line[len("->"):]))
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineno)
			}
			current.Target = target

		case strings.HasPrefix(line, "$"):
			if current == nil {
				return nil, errors.Wrapf(ErrMalformedPlan, "line %d: test command with no commit above", lineno)
			}
			cmd := strings.TrimSpace(line[len("$"):])
			if cmd == "" {
				return nil, errors.Wrapf(ErrMalformedPlan, "line %d: empty test command", lineno)
			}
			current.Tests = append(current.Tests, cmd)

		default:
			id, _, ok := splitCommitLine(line)
			if !ok {
				return nil, errors.Wrapf(ErrMalformedPlan, "line %d: %q", lineno, line)
			}
			flush()
			current = &model.Instruction{ID: id}
		}
	}
	flush()

	return instructions, nil
}

func splitCommitLine(line string) (id, title string, ok bool) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return "", "", false
	}
	id = fields[0]
	title = strings.TrimSpace(fields[1])
	if model.ValidateID(id) != nil || title == "" {
		return "", "", false
	}
	return id, title, true
}

func parseTarget(spec string) (*model.Target, error) {
	if spec == "" {
		return nil, errors.Wrap(ErrMalformedPlan, "empty target")
	}
	target := &model.Target{}
	if idx := strings.Index(spec, ":"); idx >= 0 {
		origin := spec[:idx]
		if err := model.ValidateOrigin(origin); err != nil || origin == "" {
			return nil, errors.Wrapf(ErrMalformedPlan, "bad origin %q", origin)
		}
		target.Origin = &origin
		spec = spec[idx+1:]
	}
	if err := model.ValidateBranch(spec); err != nil {
		return nil, errors.Wrapf(ErrMalformedPlan, "bad branch %q", spec)
	}
	target.Branch = spec
	return target, nil
}
