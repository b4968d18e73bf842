package core

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yggit/yggit/pkg/model"
)

func TestNegotiateNewBranchAcceptedUnderEveryMode(t *testing.T) {
	repo := newFakeRepo()
	for _, mode := range []model.PushMode{model.PushNormal, model.PushForce, model.PushForceWithLease} {
		t.Run(mode.String(), func(t *testing.T) {
			dec, err := negotiate(context.Background(), repo, "origin", "fresh", commitC, mode)
			require.NoError(t, err)
			assert.Equal(t, acceptNewBranch, dec)
		})
	}
}

func TestNegotiateForceAlwaysAccepts(t *testing.T) {
	repo := newFakeRepo()
	repo.remote[key("origin", "main")] = commitB // moved by someone else
	repo.tracking[key("origin", "main")] = commitA

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushForce)
	require.NoError(t, err)
	assert.Equal(t, acceptKnownUpdate, dec)
}

// Remote main was last observed at A, an out-of-band actor moved it to B: a
// force-with-lease push of C must be rejected without transferring data.
func TestNegotiateLeaseRejectsDivergedRemote(t *testing.T) {
	repo := newFakeRepo()
	repo.tracking[key("origin", "main")] = commitA
	repo.remote[key("origin", "main")] = commitB

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushForceWithLease)
	require.NoError(t, err)
	assert.Equal(t, rejectDiverged, dec)
}

// Same setup, but the remote still sits at A: overwriting it is safe.
func TestNegotiateLeaseAcceptsUnmovedRemote(t *testing.T) {
	repo := newFakeRepo()
	repo.tracking[key("origin", "main")] = commitA
	repo.remote[key("origin", "main")] = commitA

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushForceWithLease)
	require.NoError(t, err)
	assert.Equal(t, acceptKnownUpdate, dec)
}

// A remote branch we never fetched is not covered by any lease.
func TestNegotiateLeaseRejectsUnknownTracking(t *testing.T) {
	repo := newFakeRepo()
	repo.remote[key("origin", "main")] = commitB

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushForceWithLease)
	require.NoError(t, err)
	assert.Equal(t, rejectDiverged, dec)
}

func TestNegotiateNormalFastForward(t *testing.T) {
	repo := newFakeRepo()
	repo.remote[key("origin", "main")] = commitA
	repo.ancestors[commitC] = []string{commitB, commitA}

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushNormal)
	require.NoError(t, err)
	assert.Equal(t, acceptKnownUpdate, dec)
}

func TestNegotiateNormalNoUpdateNeeded(t *testing.T) {
	repo := newFakeRepo()
	repo.remote[key("origin", "main")] = commitC

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushNormal)
	require.NoError(t, err)
	assert.Equal(t, rejectNoUpdate, dec)
}

func TestNegotiateNormalRejectsNonFastForward(t *testing.T) {
	repo := newFakeRepo()
	repo.remote[key("origin", "main")] = commitD
	repo.ancestors[commitC] = []string{commitB, commitA}

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushNormal)
	require.NoError(t, err)
	assert.Equal(t, rejectUnimplementedMode, dec)
}

// The remote position may not even exist locally; a plain push cannot verify a
// fast-forward then and must reject.
func TestNegotiateNormalRejectsUnknownRemoteObject(t *testing.T) {
	repo := newFakeRepo()
	repo.remote[key("origin", "main")] = commitD

	dec, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushNormal)
	require.NoError(t, err)
	assert.Equal(t, rejectUnimplementedMode, dec)
}

func TestNegotiateSurfacesTransportError(t *testing.T) {
	repo := newFakeRepo()
	repo.remoteHeadErr = errors.New("connection refused")

	_, err := negotiate(context.Background(), repo, "origin", "main", commitC, model.PushForce)
	require.Error(t, err)
}
