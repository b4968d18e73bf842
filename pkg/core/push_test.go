package core

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yggit/yggit/pkg/model"
	"github.com/yggit/yggit/pkg/vcs"
)

func stack() []vcs.Commit {
	return []vcs.Commit{
		{ID: commitA, Title: "feat: part one"},
		{ID: commitB, Title: "feat: part two"},
	}
}

func TestPushCreatesNewBranches(t *testing.T) {
	repo := newFakeRepo(stack()...)
	ed := &fakeEditor{transform: func(text string) string {
		text = appendAfterCommit(commitA, "-> feature/one")(text)
		return appendAfterCommit(commitB, "-> feature/two")(text)
	}}
	e := New(repo, WithEditor(ed))

	results, err := e.Push(context.Background(), PushParams{Mode: model.PushForceWithLease})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Equal(t, model.PushedNewBranch, r.Status)
		assert.Equal(t, "origin", r.Origin)
	}
	assert.Equal(t, commitA, repo.branches["feature/one"])
	assert.Equal(t, commitB, repo.branches["feature/two"])
	assert.Equal(t, commitA, repo.remote[key("origin", "feature/one")])
	assert.Equal(t, commitB, repo.remote[key("origin", "feature/two")])

	// the merged targets were persisted
	assert.Contains(t, repo.notes[commitA], `"branch":"feature/one"`)
	assert.Contains(t, repo.notes[commitB], `"branch":"feature/two"`)
}

func TestPushRendersStoredMetadata(t *testing.T) {
	repo := newFakeRepo(stack()...)
	repo.notes[commitA] = `{"push":{"origin":"fork","branch":"feature/one"},"tests":[]}`
	ed := &fakeEditor{}
	e := New(repo, WithEditor(ed))

	_, err := e.Push(context.Background(), PushParams{Mode: model.PushForce})
	require.NoError(t, err)
	assert.Contains(t, ed.seen, commitA+" feat: part one\n-> fork:feature/one\n")
}

// One branch failing negotiation must not prevent the other from being pushed.
func TestPushIndependentBranchIsolation(t *testing.T) {
	repo := newFakeRepo(stack()...)
	// feature/one diverged on the remote since our last fetch
	repo.tracking[key("origin", "feature/one")] = commitC
	repo.remote[key("origin", "feature/one")] = commitD
	ed := &fakeEditor{transform: func(text string) string {
		text = appendAfterCommit(commitA, "-> feature/one")(text)
		return appendAfterCommit(commitB, "-> feature/two")(text)
	}}
	e := New(repo, WithEditor(ed))

	results, err := e.Push(context.Background(), PushParams{Mode: model.PushForceWithLease})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, model.NotPushedDiverged, results[0].Status)
	assert.Equal(t, model.PushedNewBranch, results[1].Status)
	require.Len(t, repo.pushedRefs, 1)
	assert.True(t, strings.HasPrefix(repo.pushedRefs[0], key("origin", "feature/two")))
}

func TestPushTransportErrorAfterAcceptance(t *testing.T) {
	repo := newFakeRepo(stack()...)
	repo.pushErr[key("origin", "feature/one")] = errors.New("broken pipe")
	ed := &fakeEditor{transform: func(text string) string {
		text = appendAfterCommit(commitA, "-> feature/one")(text)
		return appendAfterCommit(commitB, "-> feature/two")(text)
	}}
	e := New(repo, WithEditor(ed))

	results, err := e.Push(context.Background(), PushParams{Mode: model.PushForce})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, model.NotPushedTransportError, results[0].Status)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "broken pipe")
	assert.Equal(t, model.PushedNewBranch, results[1].Status)
}

func TestPushDuplicateTargetLastWins(t *testing.T) {
	repo := newFakeRepo(stack()...)
	ed := &fakeEditor{transform: func(text string) string {
		text = appendAfterCommit(commitA, "-> feature/same")(text)
		return appendAfterCommit(commitB, "-> feature/same")(text)
	}}
	e := New(repo, WithEditor(ed))

	results, err := e.Push(context.Background(), PushParams{Mode: model.PushForce})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, commitB, results[0].Commit)
	assert.Equal(t, commitB, repo.branches["feature/same"])
}

func TestPushNoPushStopsAfterBranchMoves(t *testing.T) {
	repo := newFakeRepo(stack()...)
	ed := &fakeEditor{transform: appendAfterCommit(commitA, "-> feature/one")}
	e := New(repo, WithEditor(ed))

	results, err := e.Push(context.Background(), PushParams{NoPush: true, Mode: model.PushForceWithLease})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, commitA, repo.branches["feature/one"])
	assert.Empty(t, repo.pushedRefs)
}

// A parse failure rejects the whole plan: no metadata write, no branch move,
// no push.
func TestPushParseFailureIsAllOrNothing(t *testing.T) {
	repo := newFakeRepo(stack()...)
	repo.notes[commitA] = `{"push":{"origin":null,"branch":"keep"},"tests":[]}`
	ed := &fakeEditor{transform: func(string) string { return "this is not a plan\n" }}
	e := New(repo, WithEditor(ed))

	_, err := e.Push(context.Background(), PushParams{Mode: model.PushForce})
	require.Error(t, err)

	assert.Equal(t, `{"push":{"origin":null,"branch":"keep"},"tests":[]}`, repo.notes[commitA])
	assert.Empty(t, repo.movedRefs)
	assert.Empty(t, repo.pushedRefs)
}

func TestPushReportsUnmovableBranch(t *testing.T) {
	repo := newFakeRepo(stack()...)
	repo.head = "feature/one"
	repo.branches["feature/one"] = commitD // checked out elsewhere
	ed := &fakeEditor{transform: func(text string) string {
		text = appendAfterCommit(commitA, "-> feature/one")(text)
		return appendAfterCommit(commitB, "-> feature/two")(text)
	}}
	e := New(repo, WithEditor(ed))

	results, err := e.Push(context.Background(), PushParams{Mode: model.PushForce})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Error(t, results[0].Err)
	assert.ErrorIs(t, results[0].Err, vcs.ErrBranchCheckedOut)
	assert.Equal(t, model.PushedNewBranch, results[1].Status)
}

func TestApplyMovesBranchesWithoutPushing(t *testing.T) {
	repo := newFakeRepo(stack()...)
	ed := &fakeEditor{transform: appendAfterCommit(commitB, "-> feature/two")}
	e := New(repo, WithEditor(ed))

	results, err := e.Apply(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, commitB, repo.branches["feature/two"])
	assert.Empty(t, repo.pushedRefs)
}

func TestShowDiscardsEdits(t *testing.T) {
	repo := newFakeRepo(stack()...)
	repo.notes[commitA] = `{"push":{"origin":null,"branch":"feature/one"},"tests":["make test"]}`
	ed := &fakeEditor{transform: func(string) string { return "vandalized\n" }}
	e := New(repo, WithEditor(ed))

	require.NoError(t, e.Show(context.Background(), ""))

	assert.Contains(t, ed.seen, "-> feature/one")
	assert.Contains(t, ed.seen, "$ make test")
	assert.Equal(t, `{"push":{"origin":null,"branch":"feature/one"},"tests":["make test"]}`, repo.notes[commitA])
	assert.Empty(t, repo.movedRefs)
}

func TestTestRunsMergedCommands(t *testing.T) {
	repo := newFakeRepo(stack()...)
	repo.notes[commitA] = `{"push":{"origin":null,"branch":"feature/one"},"tests":[]}`
	ed := &fakeEditor{transform: appendAfterCommit(commitA, "$ make test")}
	e := New(repo, WithEditor(ed))

	var ran []string
	e.runCmd = func(_ context.Context, dir, command string) (string, error) {
		ran = append(ran, command)
		assert.Equal(t, "/tmp/fake", dir)
		if command == "make test" {
			return "ok", nil
		}
		return "", errors.New("unexpected command")
	}

	results, err := e.Test(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Equal(t, []string{"make test"}, ran)

	// tests merged without clobbering the stored target
	assert.Contains(t, repo.notes[commitA], `"branch":"feature/one"`)
	assert.Contains(t, repo.notes[commitA], `"make test"`)
}

func TestTestReportsFailingCommand(t *testing.T) {
	repo := newFakeRepo(stack()...)
	ed := &fakeEditor{transform: appendAfterCommit(commitA, "$ exit 1")}
	e := New(repo, WithEditor(ed))
	e.runCmd = func(_ context.Context, _, _ string) (string, error) {
		return "boom", errors.New("exit status 1")
	}

	results, err := e.Test(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "boom", results[0].Output)
}
