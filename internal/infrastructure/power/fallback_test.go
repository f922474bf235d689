package power_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/application/usecase"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/infrastructure/power"
)

func TestFallbackBackends_ScopeProtocol(t *testing.T) {
	ctx := context.Background()

	backends := []port.Backend{
		power.NewDummyBackend(),
		power.NewUnavailableBackend(ctx, "test"),
		power.NewNotImplementedBackend(),
	}

	for _, backend := range backends {
		t.Run(backend.Name(), func(t *testing.T) {
			assert.False(t, backend.Available())

			scope := usecase.NewScope(backend, inhibit.Suspend|inhibit.Display)
			effective, err := scope.Enter(ctx)
			require.NoError(t, err)
			assert.Equal(t, inhibit.None, effective)

			require.NoError(t, scope.Exit(ctx))
			require.NoError(t, scope.Close())
		})
	}
}

func TestDummyBackend_Silent(t *testing.T) {
	ctx := context.Background()
	backend := power.NewDummyBackend()

	acq, err := backend.Acquire(ctx, port.Request{Flags: inhibit.Suspend})
	require.NoError(t, err)
	assert.Empty(t, acq.Degradations)
}

func TestDegradedBackends_ReportReason(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		backend port.Backend
		reason  inhibit.DegradationReason
	}{
		{power.NewUnavailableBackend(ctx, "test"), inhibit.ReasonUnavailable},
		{power.NewNotImplementedBackend(), inhibit.ReasonNotImplemented},
	}

	for _, tc := range cases {
		t.Run(tc.backend.Name(), func(t *testing.T) {
			acq, err := tc.backend.Acquire(ctx, port.Request{Flags: inhibit.Suspend})
			require.NoError(t, err)
			require.Len(t, acq.Degradations, 1)
			assert.Equal(t, tc.reason, acq.Degradations[0].Reason)
			assert.Equal(t, inhibit.Suspend, acq.Degradations[0].Flags)
		})
	}
}
