package gitgo

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/vcs"
	"go.uber.org/zap"
)

// RemoteHead asks the remote where a branch currently points. One listing per
// origin is fetched per run and shared across branches, so negotiating a whole
// stack costs a single round trip.
func (r *Repo) RemoteHead(ctx context.Context, origin, branch string) (string, bool, error) {
	refs, err := r.advertised(ctx, origin)
	if err != nil {
		return "", false, err
	}
	id, ok := refs["refs/heads/"+branch]
	return id, ok, nil
}

func (r *Repo) advertised(ctx context.Context, origin string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.adv[origin]; ok {
		return m, nil
	}

	remote, err := r.repo.Remote(origin)
	if err != nil {
		return nil, errors.Wrapf(err, "remote %q", origin)
	}
	r.l.Debug("listing remote refs", zap.String("origin", origin))
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "list refs on %q", origin)
	}

	m := make(map[string]string, len(refs))
	for _, ref := range refs {
		if ref.Type() == plumbing.HashReference {
			m[ref.Name().String()] = ref.Hash().String()
		}
	}
	r.adv[origin] = m
	return m, nil
}

// Tracking returns the locally recorded remote position of a branch, as of
// the last fetch or push.
func (r *Repo) Tracking(origin, branch string) (string, bool) {
	ref, err := r.repo.Reference(plumbing.NewRemoteReferenceName(origin, branch), true)
	if err != nil {
		return "", false
	}
	return ref.Hash().String(), true
}

// IsAncestor reports whether ancestor is reachable from descendant. Either
// commit missing from the local object store yields ErrUnknownCommit.
func (r *Repo) IsAncestor(ancestor, descendant string) (bool, error) {
	a, err := r.repo.CommitObject(plumbing.NewHash(ancestor))
	if err != nil {
		return false, errors.Wrapf(vcs.ErrUnknownCommit, "commit %s", ancestor)
	}
	d, err := r.repo.CommitObject(plumbing.NewHash(descendant))
	if err != nil {
		return false, errors.Wrapf(vcs.ErrUnknownCommit, "commit %s", descendant)
	}
	ok, err := a.IsAncestor(d)
	if err != nil {
		return false, errors.Wrapf(err, "walk from %s to %s", descendant, ancestor)
	}
	return ok, nil
}

// Push updates one branch on the remote. A non-empty lease makes the server
// verify the remote ref still sits at that commit before accepting. On
// success the tracking ref is advanced and the cached advertisement for the
// origin is dropped, since it no longer reflects the remote.
func (r *Repo) Push(ctx context.Context, origin, branch string, force bool, lease string) error {
	refspec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
	if force {
		refspec = "+" + refspec
	}

	opts := &git.PushOptions{
		RemoteName: origin,
		RefSpecs:   []gitcfg.RefSpec{gitcfg.RefSpec(refspec)},
	}
	if lease != "" {
		opts.RequireRemoteRefs = []gitcfg.RefSpec{
			gitcfg.RefSpec(lease + ":refs/heads/" + branch),
		}
	}

	r.l.Debug("pushing",
		zap.String("origin", origin),
		zap.String("branch", branch),
		zap.Bool("force", force),
		zap.String("lease", lease))

	err := r.repo.PushContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, "push %s to %q", branch, origin)
	}

	if local, lerr := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true); lerr == nil {
		_ = r.repo.Storer.SetReference(
			plumbing.NewHashReference(plumbing.NewRemoteReferenceName(origin, branch), local.Hash()))
	}

	r.mu.Lock()
	delete(r.adv, origin)
	r.mu.Unlock()
	return nil
}
