// Package gitgo implements the vcs facade on top of go-git.
package gitgo

import (
	"context"
	"os"
	"path"
	"strings"
	"sync"

	git "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/vcs"
	"go.uber.org/zap"
)

const rewriteRefValue = "refs/notes/commits"

// Repo adapts a go-git repository to the vcs facade.
type Repo struct {
	repo *git.Repository
	cfg  vcs.Config
	root string
	l    *zap.Logger

	// adv caches one ls-remote advertisement per origin and run. The listing
	// happens on a connection owned by the transport, so the captured result
	// is only ever read through this guard, never concurrently with the call.
	mu  sync.Mutex
	adv map[string]map[string]string
}

var _ vcs.Repository = (*Repo)(nil)

// Option customizes a Repo.
type Option func(*Repo)

// Logger injects a logging facility into the adapter.
func Logger(l *zap.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.l = l
		}
	}
}

// Open discovers the repository containing path (walking up to the filesystem
// root, then failing cleanly) and loads its configuration. Configuration
// problems are fatal here, before any core operation runs.
func Open(startPath string, opts ...Option) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(startPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(vcs.ErrRepositoryNotFound, "from %q", startPath)
		}
		return nil, errors.Wrapf(err, "open repository from %q", startPath)
	}

	r := &Repo{
		repo: repo,
		l:    zap.NewNop(),
		adv:  map[string]map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}

	if wt, werr := repo.Worktree(); werr == nil {
		r.root = wt.Filesystem.Root()
	}

	if r.cfg, err = loadConfig(repo); err != nil {
		return nil, err
	}
	return r, nil
}

func loadConfig(repo *git.Repository) (vcs.Config, error) {
	cfg, err := repo.ConfigScoped(gitcfg.SystemScope)
	if err != nil {
		return vcs.Config{}, errors.Wrap(err, "read repository config")
	}

	out := vcs.Config{
		Name:  cfg.User.Name,
		Email: cfg.User.Email,
	}
	if out.Name == "" || out.Email == "" {
		return vcs.Config{}, vcs.ErrMissingIdentity
	}

	out.Editor = cfg.Raw.Section("core").Option("editor")
	if out.Editor == "" {
		out.Editor = os.Getenv("EDITOR")
	}
	if out.Editor == "" {
		return vcs.Config{}, vcs.ErrNoEditor
	}

	// notes must follow commits across rebases or every record would be lost
	if cfg.Raw.Section("notes").Option("rewriteRef") != rewriteRefValue {
		return vcs.Config{}, vcs.ErrBadRewriteRef
	}

	out.DefaultRemote = cfg.Raw.Section("yggit").Option("defaultUpstream")
	if out.DefaultRemote == "" {
		out.DefaultRemote = "origin"
	}
	return out, nil
}

// Config returns the validated repository configuration.
func (r *Repo) Config() vcs.Config { return r.cfg }

// Root returns the working tree path, or "" for a bare repository.
func (r *Repo) Root() string { return r.root }

// DefaultBoundary resolves the branch the stack is based on: the remote HEAD
// when known, falling back to a local main or master branch.
func (r *Repo) DefaultBoundary() (string, error) {
	remoteHead := plumbing.ReferenceName("refs/remotes/" + r.cfg.DefaultRemote + "/HEAD")
	if ref, err := r.repo.Reference(remoteHead, false); err == nil && ref.Type() == plumbing.SymbolicReference {
		return path.Base(ref.Target().String()), nil
	}
	for _, name := range []string{"main", "master"} {
		if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil {
			return name, nil
		}
	}
	return "", vcs.ErrNoBoundary
}

// ListCommits walks first-parent from HEAD down to the boundary branch and
// returns the commits oldest first, each paired with its raw note blob.
func (r *Repo) ListCommits(ctx context.Context, boundary string) ([]vcs.Commit, error) {
	headRef, err := r.repo.Head()
	if err != nil {
		return nil, errors.Wrap(err, "resolve HEAD")
	}
	head, err := r.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "load HEAD commit")
	}

	boundaryHash, err := r.resolveBoundary(boundary)
	if err != nil {
		return nil, err
	}
	boundaryCommit, err := r.repo.CommitObject(boundaryHash)
	if err != nil {
		return nil, errors.Wrapf(vcs.ErrUnknownCommit, "boundary %q", boundary)
	}

	reachable, err := boundaryCommit.IsAncestor(head)
	if err != nil {
		return nil, errors.Wrapf(err, "walk from HEAD to %q", boundary)
	}
	if !reachable {
		return nil, errors.Wrapf(vcs.ErrBoundaryNotReachable, "boundary %q", boundary)
	}

	var out []vcs.Commit
	for cur := head; cur.Hash != boundaryCommit.Hash; {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out = append(out, r.toCommit(ctx, cur))

		if cur.NumParents() == 0 {
			return nil, errors.Wrapf(vcs.ErrBoundaryNotReachable, "boundary %q not on first-parent chain", boundary)
		}
		if cur, err = cur.Parent(0); err != nil {
			return nil, errors.Wrap(err, "walk parent chain")
		}
	}

	// oldest first, matching the plan order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *Repo) resolveBoundary(boundary string) (plumbing.Hash, error) {
	if ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(boundary), true); err == nil {
		return ref.Hash(), nil
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(boundary))
	if err != nil {
		return plumbing.ZeroHash, errors.Wrapf(vcs.ErrUnknownCommit, "boundary %q", boundary)
	}
	return *h, nil
}

func (r *Repo) toCommit(ctx context.Context, c *object.Commit) vcs.Commit {
	title, description := splitMessage(c.Message)
	out := vcs.Commit{
		ID:          c.Hash.String(),
		Title:       title,
		Description: description,
	}
	if blob, ok, err := r.ReadNote(ctx, out.ID); err == nil && ok {
		out.Note = blob
		out.HasNote = true
	}
	return out
}

func splitMessage(message string) (title, description string) {
	parts := strings.SplitN(message, "\n", 2)
	title = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		description = strings.TrimRight(parts[1], "\n")
	}
	return title, description
}

// MoveBranch force-creates or resets a local branch. The branch being the
// current HEAD and already pointing at the commit is a benign no-op; being
// checked out anywhere else is a real conflict.
func (r *Repo) MoveBranch(_ context.Context, branch, id string) error {
	refName := plumbing.NewBranchReferenceName(branch)
	h := plumbing.NewHash(id)

	if _, err := r.repo.CommitObject(h); err != nil {
		return errors.Wrapf(vcs.ErrUnknownCommit, "move %s to %s", branch, id)
	}

	if headRef, err := r.repo.Reference(plumbing.HEAD, false); err == nil &&
		headRef.Type() == plumbing.SymbolicReference && headRef.Target() == refName {
		if cur, cerr := r.repo.Reference(refName, true); cerr == nil && cur.Hash() == h {
			return nil
		}
		return errors.Wrapf(vcs.ErrBranchCheckedOut, "branch %s", branch)
	}

	return r.repo.Storer.SetReference(plumbing.NewHashReference(refName, h))
}
