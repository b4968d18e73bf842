package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yggit/yggit/pkg/model"
	"github.com/yggit/yggit/pkg/vcs"
)

func storedBlob(t *testing.T, repo *fakeRepo, id string) string {
	t.Helper()
	blob, ok := repo.notes[id]
	require.True(t, ok, "expected a stored record for %s", id)
	return blob
}

func TestMergeTargetsOnlyPreservesTests(t *testing.T) {
	repo := newFakeRepo()
	repo.notes[commitA] = `{"push":{"origin":null,"branch":"old"},"tests":["make test"]}`
	e := New(repo)

	err := e.Merge(context.Background(), []model.Instruction{
		{ID: commitA, Target: &model.Target{Branch: "new"}},
	}, MergeTargetsOnly)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"push":{"origin":null,"branch":"new"},"tests":["make test"]}`,
		storedBlob(t, repo, commitA))
}

func TestMergeTestsOnlyPreservesTarget(t *testing.T) {
	repo := newFakeRepo()
	repo.notes[commitA] = `{"push":{"origin":"fork","branch":"feature"},"tests":["old command"]}`
	e := New(repo)

	err := e.Merge(context.Background(), []model.Instruction{
		{ID: commitA, Tests: []string{"go test ./...", "go vet ./..."}},
	}, MergeTestsOnly)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"push":{"origin":"fork","branch":"feature"},"tests":["go test ./...","go vet ./..."]}`,
		storedBlob(t, repo, commitA))
}

func TestMergeClearsCoveredField(t *testing.T) {
	repo := newFakeRepo()
	repo.notes[commitA] = `{"push":{"origin":null,"branch":"feature"},"tests":["make test"]}`
	e := New(repo)

	// a bare commit line clears the target, tests survive
	err := e.Merge(context.Background(), []model.Instruction{{ID: commitA}}, MergeTargetsOnly)
	require.NoError(t, err)
	assert.JSONEq(t, `{"push":null,"tests":["make test"]}`, storedBlob(t, repo, commitA))

	// clearing the tests as well reduces the record to the default: it is
	// deleted, not persisted
	err = e.Merge(context.Background(), []model.Instruction{{ID: commitA}}, MergeTestsOnly)
	require.NoError(t, err)
	_, ok := repo.notes[commitA]
	assert.False(t, ok)
}

func TestMergeCreatesRecord(t *testing.T) {
	repo := newFakeRepo()
	e := New(repo)

	err := e.Merge(context.Background(), []model.Instruction{
		{ID: commitB, Target: &model.Target{Branch: "feature/b"}},
	}, MergeTargetsOnly)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"push":{"origin":null,"branch":"feature/b"},"tests":[]}`,
		storedBlob(t, repo, commitB))
}

func TestMergeSkipsCorruptRecord(t *testing.T) {
	repo := newFakeRepo()
	repo.notes[commitA] = "definitely not json"
	repo.notes[commitB] = `{"push":null,"tests":["keep me"]}`
	e := New(repo)

	err := e.Merge(context.Background(), []model.Instruction{
		{ID: commitA, Target: &model.Target{Branch: "a"}},
		{ID: commitB, Target: &model.Target{Branch: "b"}},
	}, MergeTargetsOnly)
	require.NoError(t, err)

	// the corrupt record is left alone, the healthy one is merged
	assert.Equal(t, "definitely not json", repo.notes[commitA])
	assert.JSONEq(t,
		`{"push":{"origin":null,"branch":"b"},"tests":["keep me"]}`,
		storedBlob(t, repo, commitB))
}

func TestMergeNoInstructionsTouchesNothing(t *testing.T) {
	repo := newFakeRepo(vcs.Commit{ID: commitA, Title: "untouched"})
	repo.notes[commitA] = `{"push":{"origin":null,"branch":"keep"},"tests":[]}`
	e := New(repo)

	require.NoError(t, e.Merge(context.Background(), nil, MergeTargetsOnly))
	assert.JSONEq(t, `{"push":{"origin":null,"branch":"keep"},"tests":[]}`, storedBlob(t, repo, commitA))
}
