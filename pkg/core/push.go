package core

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/model"
	"github.com/yggit/yggit/pkg/plan"
	"go.uber.org/zap"
)

// PushParams drive one push run.
type PushParams struct {
	// Boundary is the branch the stack is based on; empty means the
	// repository's default boundary.
	Boundary string

	// Mode selects the overwrite policy for every branch of the run.
	Mode model.PushMode

	// NoPush stops after metadata is saved and branches are moved.
	NoPush bool
}

// intent is one branch to move and push, extracted from the merged plan.
type intent struct {
	branch string
	origin string
	commit string
}

// Push runs the full cycle: list the stack, let the user edit the plan, merge
// the instructions (targets only), move local branches and push each target.
//
// One failing branch never prevents the others from being attempted: the run
// returns one result per target branch.
func (e *Engine) Push(ctx context.Context, params PushParams) ([]model.PushResult, error) {
	entries, err := e.entries(ctx, params.Boundary)
	if err != nil {
		return nil, err
	}

	instructions, err := e.editPlan(ctx, entries, plan.FilterTargets)
	if err != nil {
		return nil, err
	}

	if err = e.Merge(ctx, instructions, MergeTargetsOnly); err != nil {
		return nil, err
	}

	intents := e.collectIntents(instructions)

	results := make([]model.PushResult, 0, len(intents))
	for _, in := range intents {
		if err := e.repo.MoveBranch(ctx, in.branch, in.commit); err != nil {
			results = append(results, model.PushResult{
				Branch: in.branch,
				Origin: in.origin,
				Commit: in.commit,
				Status: model.NotPushedTransportError,
				Err:    errors.Wrapf(err, "move branch %s", in.branch),
			})
			continue
		}
		if params.NoPush {
			continue
		}
		results = append(results, e.pushOne(ctx, in, params.Mode))
	}

	// with NoPush the results only carry branch-move failures
	return results, nil
}

// Apply saves the edited plan and moves branches without pushing anything.
// The returned results are branch-move failures, if any.
func (e *Engine) Apply(ctx context.Context, boundary string) ([]model.PushResult, error) {
	return e.Push(ctx, PushParams{Boundary: boundary, NoPush: true})
}

// Show displays the current plan through the editor. Edits are discarded:
// nothing is parsed, merged or written.
func (e *Engine) Show(ctx context.Context, boundary string) error {
	if e.edit == nil {
		return ErrNoEditor
	}
	entries, err := e.entries(ctx, boundary)
	if err != nil {
		return err
	}
	_, err = e.edit.Edit(ctx, plan.Render(entries, plan.FilterAll))
	return err
}

// collectIntents extracts the branches to push from the instructions, in plan
// order. When two commits declare the same destination branch the last one
// wins; the earlier declaration is dropped with a warning.
func (e *Engine) collectIntents(instructions []model.Instruction) []intent {
	def := e.repo.Config().DefaultRemote

	var ordered []intent
	index := map[string]int{}
	for _, ins := range instructions {
		if ins.Target == nil {
			continue
		}
		in := intent{
			branch: ins.Target.Branch,
			origin: ins.Target.OriginOr(def),
			commit: ins.ID,
		}
		key := in.origin + "/" + in.branch
		if at, dup := index[key]; dup {
			e.l.Warn("duplicate push target, last declaration wins",
				zap.String("branch", in.branch),
				zap.String("origin", in.origin),
				zap.String("dropped", ordered[at].commit),
				zap.String("kept", in.commit),
			)
			ordered[at] = in
			continue
		}
		index[key] = len(ordered)
		ordered = append(ordered, in)
	}
	return ordered
}

// pushOne negotiates and, when accepted, transfers one branch. The decision is
// an explicit return value of the negotiation; transport failures after
// acceptance are reported, not retried.
func (e *Engine) pushOne(ctx context.Context, in intent, mode model.PushMode) model.PushResult {
	res := model.PushResult{
		Branch: in.branch,
		Origin: in.origin,
		Commit: in.commit,
	}

	dec, err := negotiate(ctx, e.repo, in.origin, in.branch, in.commit, mode)
	if err != nil {
		res.Status = model.NotPushedTransportError
		res.Err = errors.Wrapf(err, "negotiate %s/%s", in.origin, in.branch)
		return res
	}

	switch dec {
	case rejectDiverged:
		res.Status = model.NotPushedDiverged
		return res
	case rejectNoUpdate:
		res.Status = model.NotPushedNoUpdate
		return res
	case rejectUnimplementedMode:
		res.Status = model.NotPushedUnimplementedMode
		return res
	}

	lease := ""
	if mode == model.PushForceWithLease && dec == acceptKnownUpdate {
		lease, _ = e.repo.Tracking(in.origin, in.branch)
	}

	e.l.Debug("pushing branch",
		zap.String("branch", in.branch),
		zap.String("origin", in.origin),
		zap.String("commit", in.commit),
		zap.Stringer("mode", mode),
	)

	if err := e.repo.Push(ctx, in.origin, in.branch, mode != model.PushNormal, lease); err != nil {
		res.Status = model.NotPushedTransportError
		res.Err = errors.Wrapf(err, "push %s/%s", in.origin, in.branch)
		return res
	}

	if dec == acceptNewBranch {
		res.Status = model.PushedNewBranch
	} else {
		res.Status = model.PushedUpdated
	}
	return res
}
