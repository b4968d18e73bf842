package core

import (
	"context"

	"github.com/yggit/yggit/pkg/model"
	"github.com/yggit/yggit/pkg/vcs"
)

// decision is the outcome of the push negotiation, before any data transfer.
type decision int

const (
	acceptNewBranch decision = iota
	acceptKnownUpdate
	rejectDiverged
	rejectNoUpdate
	rejectUnimplementedMode
)

func (d decision) accepted() bool {
	return d == acceptNewBranch || d == acceptKnownUpdate
}

// negotiate decides whether overwriting the remote branch with dst is safe
// under the given mode. It only inspects advertised and locally recorded
// positions; no data is transferred.
//
//   - The branch not existing on the remote is accepted under every mode.
//   - Force always accepts.
//   - ForceWithLease accepts only when the remote still sits at the last
//     position recorded locally for that branch, so nobody else's work can be
//     overwritten unseen.
//   - Normal accepts strict fast-forwards only.
func negotiate(ctx context.Context, t vcs.Transport, origin, branch, dst string, mode model.PushMode) (decision, error) {
	remoteSrc, exists, err := t.RemoteHead(ctx, origin, branch)
	if err != nil {
		return rejectDiverged, err
	}
	if !exists {
		return acceptNewBranch, nil
	}

	switch mode {
	case model.PushForce:
		return acceptKnownUpdate, nil

	case model.PushForceWithLease:
		lease, known := t.Tracking(origin, branch)
		if known && lease == remoteSrc {
			return acceptKnownUpdate, nil
		}
		return rejectDiverged, nil

	default: // model.PushNormal
		if remoteSrc == dst {
			return rejectNoUpdate, nil
		}
		ff, err := t.IsAncestor(remoteSrc, dst)
		if err != nil || !ff {
			// the remote position is either unknown locally or not behind dst,
			// and a plain push never overwrites
			return rejectUnimplementedMode, nil
		}
		return acceptKnownUpdate, nil
	}
}
