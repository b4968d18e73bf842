package core

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yggit/yggit/pkg/metastore"
	"github.com/yggit/yggit/pkg/model"
	"go.uber.org/zap"
)

// MergePolicy determines which field of a commit's metadata an instruction is
// allowed to overwrite. Commands edit disjoint parts of the plan and must not
// clobber each other's state.
type MergePolicy int

const (
	// MergeTargetsOnly replaces the push target and preserves stored tests
	MergeTargetsOnly MergePolicy = iota

	// MergeTestsOnly replaces the test list and preserves the stored target
	MergeTestsOnly
)

func (p MergePolicy) String() string {
	switch p {
	case MergeTargetsOnly:
		return "targets-only"
	case MergeTestsOnly:
		return "tests-only"
	default:
		return "unknown"
	}
}

// Merge reconciles parsed instructions with the stored metadata under the
// given policy and persists the result: records reduced to the default value
// are deleted rather than written.
//
// A commit whose stored record cannot be decoded is skipped with a warning;
// the remaining instructions are still applied.
func (e *Engine) Merge(ctx context.Context, instructions []model.Instruction, policy MergePolicy) error {
	for _, ins := range instructions {
		current, _, err := e.meta.Get(ctx, ins.ID)
		if err != nil {
			if errors.Is(err, metastore.ErrCorruptRecord) {
				e.l.Warn("skipping commit with unreadable metadata record",
					zap.String("commit", ins.ID),
					zap.Error(err),
				)
				continue
			}
			return errors.Wrapf(err, "load metadata for %s", ins.ID)
		}

		next := current.Clone()
		switch policy {
		case MergeTargetsOnly:
			next.Push = ins.Target
		case MergeTestsOnly:
			next.Tests = ins.Tests
		}

		if err := e.meta.Put(ctx, ins.ID, next); err != nil {
			return errors.Wrapf(err, "persist metadata for %s", ins.ID)
		}
	}
	return nil
}
