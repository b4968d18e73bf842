package core

import (
	"context"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/metastore"
	"github.com/yggit/yggit/pkg/model"
	"github.com/yggit/yggit/pkg/plan"
	"github.com/yggit/yggit/pkg/vcs"
	"go.uber.org/zap"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrNoEditor means an operation that edits the plan was built without an editor
	ErrNoEditor errString = "no editor configured"
)

// TextEditor blocks on a user-driven edit of the plan and returns the result.
type TextEditor interface {
	Edit(ctx context.Context, content string) (string, error)
}

// Engine ties the facade, the metadata store and the editor together.
type Engine struct {
	repo vcs.Repository
	meta *metastore.Store
	edit TextEditor
	l    *zap.Logger

	// runCmd executes one test command in the working tree, patched in tests
	runCmd func(ctx context.Context, dir, command string) (string, error)
}

// Option is a functor to build an engine with some options
type Option func(*Engine)

// WithEditor injects the plan editor.
func WithEditor(edit TextEditor) Option {
	return func(e *Engine) {
		e.edit = edit
	}
}

// WithMetaStore overrides the metadata store built over the repository.
func WithMetaStore(s *metastore.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.meta = s
		}
	}
}

// Logger injects a logging facility into core operations
func Logger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.l = l
		}
	}
}

// New builds an engine over the repository facade.
func New(repo vcs.Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:   repo,
		l:      zap.NewNop(),
		runCmd: runShell,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.meta == nil {
		e.meta = metastore.New(repo, metastore.Logger(e.l))
	}
	return e
}

func runShell(ctx context.Context, dir, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// entries lists the working stack down to the boundary, pairing each commit
// with its decoded metadata. A record that fails to decode is skipped with a
// warning; the rest of the stack is still processed.
func (e *Engine) entries(ctx context.Context, boundary string) ([]plan.Entry, error) {
	if boundary == "" {
		var err error
		boundary, err = e.repo.DefaultBoundary()
		if err != nil {
			return nil, err
		}
	}
	commits, err := e.repo.ListCommits(ctx, boundary)
	if err != nil {
		return nil, errors.Wrapf(err, "list commits down to %q", boundary)
	}

	entries := make([]plan.Entry, 0, len(commits))
	for _, c := range commits {
		entry := plan.Entry{
			Commit: model.Commit{ID: c.ID, Title: c.Title, Description: c.Description},
		}
		if c.HasNote {
			md, derr := metastore.Decode(c.Note)
			if derr != nil {
				e.l.Warn("skipping unreadable metadata record",
					zap.String("commit", c.ID),
					zap.Error(derr),
				)
			} else {
				entry.Meta = md
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// editPlan renders the entries, blocks on the user edit and parses the result.
// A parse failure rejects the whole plan: nothing is merged or written.
func (e *Engine) editPlan(ctx context.Context, entries []plan.Entry, filter plan.Filter) ([]model.Instruction, error) {
	if e.edit == nil {
		return nil, ErrNoEditor
	}
	edited, err := e.edit.Edit(ctx, plan.Render(entries, filter))
	if err != nil {
		return nil, err
	}
	return plan.Parse(edited)
}
