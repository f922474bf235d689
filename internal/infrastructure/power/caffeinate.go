package power

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/logging"
)

// CaffeinateBackend inhibits sleep on macOS by spawning one caffeinate
// process per acquisition. The child watches our PID (-w) so an
// abnormal exit of this process still ends the inhibition.
type CaffeinateBackend struct {
	path string

	mu    sync.Mutex
	next  port.Handle
	procs map[port.Handle]*caffeinateProc
}

type caffeinateProc struct {
	cmd   *exec.Cmd
	flags inhibit.StateFlags
}

// Compile-time interface check.
var _ port.Backend = (*CaffeinateBackend)(nil)

// NewCaffeinateBackend locates the caffeinate binary. A missing binary
// is an error; the resolver degrades to the unavailable variant.
func NewCaffeinateBackend() (*CaffeinateBackend, error) {
	path, err := exec.LookPath("caffeinate")
	if err != nil {
		return nil, fmt.Errorf("caffeinate not found: %w", err)
	}
	return &CaffeinateBackend{
		path:  path,
		next:  1,
		procs: make(map[port.Handle]*caffeinateProc),
	}, nil
}

func (b *CaffeinateBackend) Name() string {
	return "caffeinate"
}

// Capability: away-mode is a Windows concept, and caffeinate cannot
// revoke assertions held by other processes.
func (b *CaffeinateBackend) Capability() inhibit.Capability {
	return inhibit.Capability{Supported: inhibit.Suspend | inhibit.Display, CanRevoke: false}
}

func (b *CaffeinateBackend) Available() bool {
	return true
}

// Current is the union of this process's live assertions.
func (b *CaffeinateBackend) Current(_ context.Context) (inhibit.StateFlags, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := inhibit.None
	for _, p := range b.procs {
		state = inhibit.Compose(state, p.flags)
	}
	return state, nil
}

func (b *CaffeinateBackend) Acquire(ctx context.Context, req port.Request) (*port.Acquisition, error) {
	log := logging.FromContext(ctx)

	flags := req.Flags & (inhibit.Suspend | inhibit.Display)
	if flags == inhibit.None {
		return &port.Acquisition{Effective: inhibit.None}, nil
	}

	// -i: prevent idle sleep, -s: prevent system sleep on AC power,
	// -d: prevent display sleep, -w: exit when this process dies.
	args := []string{}
	if flags.Has(inhibit.Suspend) {
		args = append(args, "-i", "-s")
	}
	if flags.Has(inhibit.Display) {
		args = append(args, "-d")
	}
	args = append(args, "-w", strconv.Itoa(os.Getpid()))

	cmd := exec.Command(b.path, args...)
	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).Msg("caffeinate: failed to start")
		return &port.Acquisition{
			Effective: inhibit.None,
			Degradations: []inhibit.Degradation{{
				Flags:  flags,
				Reason: inhibit.ReasonAcquireFailed,
				Detail: "caffeinate failed to start: " + err.Error(),
			}},
		}, nil
	}

	// Reap in background so the child never becomes a zombie.
	go func() { _ = cmd.Wait() }()

	b.mu.Lock()
	handle := b.next
	b.next++
	b.procs[handle] = &caffeinateProc{cmd: cmd, flags: flags}
	b.mu.Unlock()

	log.Debug().
		Int("pid", cmd.Process.Pid).
		Str("flags", flags.String()).
		Msg("caffeinate started")

	return &port.Acquisition{
		Effective: flags,
		Snapshot:  uint32(handle),
	}, nil
}

// Release kills the caffeinate process backing the acquisition.
func (b *CaffeinateBackend) Release(_ context.Context, acq *port.Acquisition) error {
	handle := port.Handle(acq.Snapshot)
	if handle == 0 {
		return nil
	}

	b.mu.Lock()
	p, ok := b.procs[handle]
	delete(b.procs, handle)
	b.mu.Unlock()

	if !ok || p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}
