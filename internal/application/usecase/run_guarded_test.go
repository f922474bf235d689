package usecase_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nosuspend/internal/application/usecase"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
)

func TestRunGuarded_NoCommand(t *testing.T) {
	uc := usecase.NewRunGuardedUseCase(newFakeBackend())
	_, err := uc.Execute(context.Background(), usecase.RunGuardedInput{
		Flags:   inhibit.Suspend,
		Inherit: true,
	})
	assert.ErrorIs(t, err, usecase.ErrNoCommand)
}

func TestRunGuarded_PropagatesExitCodeAndReleases(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	backend := newFakeBackend()
	uc := usecase.NewRunGuardedUseCase(backend)

	code, err := uc.Execute(context.Background(), usecase.RunGuardedInput{
		Command: []string{"sh", "-c", "exit 3"},
		Flags:   inhibit.Suspend,
		Inherit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	// The scope exited even though the child failed.
	require.Len(t, backend.acquired, 1)
	require.Len(t, backend.released, 1)
	assert.Equal(t, inhibit.None, backend.state)
}

func TestRunGuarded_SuccessExitsZero(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	backend := newFakeBackend()
	uc := usecase.NewRunGuardedUseCase(backend)

	code, err := uc.Execute(context.Background(), usecase.RunGuardedInput{
		Command: []string{"sh", "-c", "true"},
		Flags:   inhibit.Suspend | inhibit.Display,
		Inherit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	require.Len(t, backend.acquired, 1)
	assert.Equal(t, inhibit.Suspend|inhibit.Display, backend.acquired[0].Flags)
}

func TestRunGuarded_MissingBinary(t *testing.T) {
	backend := newFakeBackend()
	uc := usecase.NewRunGuardedUseCase(backend)

	_, err := uc.Execute(context.Background(), usecase.RunGuardedInput{
		Command: []string{"definitely-not-a-real-binary-4242"},
		Flags:   inhibit.Suspend,
		Inherit: true,
	})
	require.Error(t, err)

	// Enter succeeded, so the failed start still released the scope.
	require.Len(t, backend.released, 1)
}
