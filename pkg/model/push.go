package model

// PushMode selects how aggressively a remote branch may be overwritten.
type PushMode int

const (
	// PushNormal accepts strict fast-forward updates only
	PushNormal PushMode = iota

	// PushForce overwrites the remote branch unconditionally
	PushForce

	// PushForceWithLease overwrites only when the remote still sits where we
	// last observed it
	PushForceWithLease
)

func (m PushMode) String() string {
	switch m {
	case PushNormal:
		return "normal"
	case PushForce:
		return "force"
	case PushForceWithLease:
		return "force-with-lease"
	default:
		return "unknown"
	}
}

// PushStatus is the final classification of one branch push.
type PushStatus int

const (
	// PushedNewBranch means the branch did not exist on the remote and was created
	PushedNewBranch PushStatus = iota

	// PushedUpdated means the remote branch was moved to the requested commit
	PushedUpdated

	// NotPushedDiverged means the remote moved since our last observation
	NotPushedDiverged

	// NotPushedNoUpdate means the remote already points at the requested commit
	NotPushedNoUpdate

	// NotPushedUnimplementedMode means the requested update is not a fast-forward
	// and the selected mode does not allow overwriting
	NotPushedUnimplementedMode

	// NotPushedTransportError means negotiation accepted the update but the
	// transfer itself failed
	NotPushedTransportError
)

func (s PushStatus) String() string {
	switch s {
	case PushedNewBranch:
		return "pushed (new branch)"
	case PushedUpdated:
		return "pushed"
	case NotPushedDiverged:
		return "rejected: remote diverged"
	case NotPushedNoUpdate:
		return "skipped: no update needed"
	case NotPushedUnimplementedMode:
		return "rejected: not a fast-forward"
	case NotPushedTransportError:
		return "failed: transport error"
	default:
		return "unknown"
	}
}

// Pushed reports whether the branch actually reached the remote.
func (s PushStatus) Pushed() bool {
	return s == PushedNewBranch || s == PushedUpdated
}

// PushResult is the outcome of one branch push. Failure of one branch never
// prevents the others from being attempted, so a run yields one result per
// target branch.
type PushResult struct {
	Branch string
	Origin string
	Commit string
	Status PushStatus
	Err    error
}
