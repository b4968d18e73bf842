// Package vcs defines the single facade this system needs from the underlying
// version control library: listing the working stack, reading and writing
// out-of-band note blobs, moving branch refs and talking to remotes.
//
// Core logic depends only on these interfaces, never on a specific backing
// library. The go-git implementation lives in pkg/vcs/gitgo.
package vcs

import "context"

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrRepositoryNotFound means no repository was discovered from the start path
	ErrRepositoryNotFound errString = "repository not found"

	// ErrMissingIdentity means user.name or user.email is not configured
	ErrMissingIdentity errString = "user identity not configured"

	// ErrBadRewriteRef means notes.rewriteRef is not set to refs/notes/commits,
	// so note records would be lost on rebase
	ErrBadRewriteRef errString = "notes.rewriteRef must be set to \"refs/notes/commits\""

	// ErrNoEditor means neither core.editor nor $EDITOR is configured
	ErrNoEditor errString = "editor not configured"

	// ErrNoBoundary means no default boundary branch could be determined
	ErrNoBoundary errString = "no main branch found"

	// ErrBoundaryNotReachable means the boundary is not an ancestor of HEAD
	ErrBoundaryNotReachable errString = "boundary is not an ancestor of HEAD"

	// ErrBranchCheckedOut means a branch ref cannot be moved because it is the
	// current HEAD and points elsewhere
	ErrBranchCheckedOut errString = "branch is checked out"

	// ErrUnknownCommit means an object id does not resolve to a local commit
	ErrUnknownCommit errString = "unknown commit"
)

// Config carries the configuration values the workflow needs from the
// repository: the signer identity, the editor command and the default remote.
type Config struct {
	Name          string
	Email         string
	Editor        string
	DefaultRemote string
}

// Commit is a raw stack entry: a commit plus its note blob, if any.
type Commit struct {
	ID          string
	Title       string
	Description string

	// Note is the raw note blob attached to the commit, "" when absent.
	Note string
	// HasNote distinguishes an empty blob from no blob at all.
	HasNote bool
}

// NoteStore reads and writes the raw note blob attached to a commit identity.
// A write fully replaces the stored blob. Delete of an absent note is success.
type NoteStore interface {
	ReadNote(ctx context.Context, id string) (blob string, ok bool, err error)
	WriteNote(ctx context.Context, id, blob string) error
	DeleteNote(ctx context.Context, id string) error
}

// Transport is the remote-facing half of the facade, consumed by the push
// negotiator. Negotiation is an explicit request/response exchange: the
// adapter hides whatever callback protocol the backing library uses.
type Transport interface {
	// RemoteHead returns the advertised position of refs/heads/<branch> on the
	// given remote, before any data transfer. ok is false when the branch does
	// not exist there yet.
	RemoteHead(ctx context.Context, origin, branch string) (id string, ok bool, err error)

	// Tracking returns the last locally recorded position of the remote branch,
	// i.e. the lease. ok is false when the branch was never fetched.
	Tracking(origin, branch string) (id string, ok bool)

	// IsAncestor reports whether ancestor is reachable from descendant.
	// Returns ErrUnknownCommit when either object is not present locally.
	IsAncestor(ancestor, descendant string) (bool, error)

	// Push transfers refs/heads/<branch> to the remote. When lease is non-empty
	// the remote ref is required to still sit at that position. After a
	// successful push the local tracking ref is advanced.
	Push(ctx context.Context, origin, branch string, force bool, lease string) error
}

// Repository is the converged facade over the backing library.
type Repository interface {
	NoteStore
	Transport

	// Config returns the validated repository configuration.
	Config() Config

	// Root returns the path of the working tree.
	Root() string

	// DefaultBoundary returns the branch the stack is based on when the user
	// did not name one, typically the remote HEAD or main/master.
	DefaultBoundary() (string, error)

	// ListCommits returns the commits between HEAD and the boundary branch,
	// oldest first, each paired with its raw note blob.
	ListCommits(ctx context.Context, boundary string) ([]Commit, error)

	// MoveBranch force-creates or resets the local branch to the commit.
	MoveBranch(ctx context.Context, branch, id string) error
}
