package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/application/usecase"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
)

// fakeBackend records acquire/release traffic and simulates a
// single-call backend holding a process-wide bitmask.
type fakeBackend struct {
	capability inhibit.Capability
	state      inhibit.StateFlags

	acquired   []port.Request
	released   []*port.Acquisition
	acquireErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		capability: inhibit.Capability{Supported: inhibit.All, CanRevoke: true},
	}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Capability() inhibit.Capability { return f.capability }

func (f *fakeBackend) Available() bool { return true }

func (f *fakeBackend) Current(_ context.Context) (inhibit.StateFlags, error) {
	return f.state, nil
}

func (f *fakeBackend) Acquire(_ context.Context, req port.Request) (*port.Acquisition, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired = append(f.acquired, req)
	prev := f.state
	f.state = req.Flags
	return &port.Acquisition{
		Effective: req.Flags,
		Snapshot:  uint32(prev),
	}, nil
}

func (f *fakeBackend) Release(_ context.Context, acq *port.Acquisition) error {
	f.released = append(f.released, acq)
	f.state = inhibit.StateFlags(acq.Snapshot)
	return nil
}

func TestScope_EnterExit_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.state = inhibit.Display // pre-existing inhibition

	scope := usecase.NewScope(backend, inhibit.Suspend)
	effective, err := scope.Enter(ctx)
	require.NoError(t, err)

	// inherit=true composes the request with the current state.
	assert.Equal(t, inhibit.Suspend|inhibit.Display, effective)
	assert.Equal(t, inhibit.Suspend|inhibit.Display, backend.state)

	require.NoError(t, scope.Exit(ctx))

	// The pre-entry state is restored exactly.
	assert.Equal(t, inhibit.Display, backend.state)
	require.Len(t, backend.released, 1)
}

func TestScope_ExitTwice_ReleasesOnce(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()

	scope := usecase.NewScope(backend, inhibit.Suspend)
	_, err := scope.Enter(ctx)
	require.NoError(t, err)

	require.NoError(t, scope.Exit(ctx))
	require.NoError(t, scope.Exit(ctx))
	assert.Len(t, backend.released, 1)
}

func TestScope_CloseWhileActive_Releases(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()

	scope := usecase.NewScope(backend, inhibit.Suspend)
	_, err := scope.Enter(ctx)
	require.NoError(t, err)

	require.NoError(t, scope.Close())
	assert.Len(t, backend.released, 1)

	// Close after the implicit exit does not release again.
	require.NoError(t, scope.Close())
	assert.Len(t, backend.released, 1)
}

func TestScope_NotReusable(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()

	scope := usecase.NewScope(backend, inhibit.Suspend)
	_, err := scope.Enter(ctx)
	require.NoError(t, err)

	_, err = scope.Enter(ctx)
	assert.ErrorIs(t, err, usecase.ErrScopeActive)

	require.NoError(t, scope.Exit(ctx))
	_, err = scope.Enter(ctx)
	assert.ErrorIs(t, err, usecase.ErrScopeSpent)
}

func TestScope_UnsupportedBitDegrades(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.capability = inhibit.Capability{Supported: inhibit.Suspend | inhibit.Display, CanRevoke: true}

	scope := usecase.NewScope(backend, inhibit.Suspend|inhibit.AwayMode)
	effective, err := scope.Enter(ctx)
	require.NoError(t, err)
	defer scope.Close()

	assert.Equal(t, inhibit.Suspend, effective)
	require.Len(t, scope.Degradations(), 1)
	d := scope.Degradations()[0]
	assert.Equal(t, inhibit.AwayMode, d.Flags)
	assert.Equal(t, inhibit.ReasonUnsupported, d.Reason)
}

func TestScope_NoInheritOnAdditiveBackend_Degrades(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.capability = inhibit.Capability{Supported: inhibit.All, CanRevoke: false}
	backend.state = inhibit.Display

	scope := usecase.NewScope(backend, inhibit.Suspend, usecase.WithoutInherit())
	effective, err := scope.Enter(ctx)
	require.NoError(t, err)
	defer scope.Close()

	// The reduction is not honored: the scope proceeds as inherit=true
	// and says so.
	assert.Equal(t, inhibit.Suspend|inhibit.Display, effective)
	require.Len(t, scope.Degradations(), 1)
	assert.Equal(t, inhibit.ReasonInheritNotHonored, scope.Degradations()[0].Reason)
}

func TestScope_NoInheritOnRevocableBackend_Honored(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.state = inhibit.Display

	scope := usecase.NewScope(backend, inhibit.Suspend, usecase.WithoutInherit())
	effective, err := scope.Enter(ctx)
	require.NoError(t, err)
	defer scope.Close()

	assert.Equal(t, inhibit.Suspend, effective)
	assert.Empty(t, scope.Degradations())
}

func TestScope_AcquireError(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.acquireErr = errors.New("bus gone")

	scope := usecase.NewScope(backend, inhibit.Suspend)
	_, err := scope.Enter(ctx)
	require.Error(t, err)

	// Nothing acquired, nothing to release.
	require.NoError(t, scope.Exit(ctx))
	assert.Empty(t, backend.released)
}

func TestScope_ForwardsAppNameAndReason(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()

	scope := usecase.NewScope(backend, inhibit.Suspend,
		usecase.WithAppName("backup-tool"),
		usecase.WithReason("nightly backup"))
	_, err := scope.Enter(ctx)
	require.NoError(t, err)
	defer scope.Close()

	require.Len(t, backend.acquired, 1)
	assert.Equal(t, "backup-tool", backend.acquired[0].AppName)
	assert.Equal(t, "nightly backup", backend.acquired[0].Reason)
}
