package power

import (
	"context"
	"sync"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/logging"
)

// esContinuous keeps the requested execution state in effect until the
// next call clears it, instead of resetting the idle timer once.
const esContinuous uint32 = 0x80000000

// ExecStateFunc atomically replaces the process-wide execution-state
// bitmask and returns the previous one. On Windows this is
// kernel32.SetThreadExecutionState; tests substitute a recorder.
// Calling it with zero flags queries the current state without
// changing it, where the platform permits that.
type ExecStateFunc func(esFlags uint32) (uint32, error)

// ExecStateBackend is the single-call backend: one idempotent call
// sets the complete inhibition bitmask and yields the previous mask,
// which is snapshotted for restore on release.
type ExecStateBackend struct {
	mu  sync.Mutex
	set ExecStateFunc
}

// Compile-time interface check.
var _ port.Backend = (*ExecStateBackend)(nil)

// NewExecStateBackend wraps the given platform call.
func NewExecStateBackend(set ExecStateFunc) *ExecStateBackend {
	return &ExecStateBackend{set: set}
}

func (b *ExecStateBackend) Name() string {
	return "execution-state"
}

// Capability covers every flag, away-mode included, and the backend
// can shrink the mask to exactly a requested set, so inherit=false is
// honored.
func (b *ExecStateBackend) Capability() inhibit.Capability {
	return inhibit.Capability{Supported: inhibit.All, CanRevoke: true}
}

func (b *ExecStateBackend) Available() bool {
	return true
}

// Current queries the mask with a zero-flag call.
func (b *ExecStateBackend) Current(_ context.Context) (inhibit.StateFlags, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, err := b.set(0)
	if err != nil {
		return inhibit.None, err
	}
	return inhibit.StateFlags(prev) & inhibit.All, nil
}

func (b *ExecStateBackend) Acquire(ctx context.Context, req port.Request) (*port.Acquisition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, err := b.set(uint32(req.Flags) | esContinuous)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Str("flags", req.Flags.String()).
		Uint32("previous", prev).
		Msg("execution state set")

	return &port.Acquisition{
		Effective: req.Flags & inhibit.All,
		Snapshot:  prev,
	}, nil
}

// Release restores the snapshotted previous mask verbatim.
func (b *ExecStateBackend) Release(_ context.Context, acq *port.Acquisition) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.set(acq.Snapshot)
	return err
}
