package dbus

import (
	"context"
	"sync"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/logging"
)

// Backend is the multi-endpoint backend: each capability group maps to
// the independently discovered endpoints serving it, each acquired and
// released separately. Partial success is the normal case; a group
// with no cooperating endpoint degrades instead of failing the whole
// acquisition.
type Backend struct {
	registry *Registry

	// active counts live acquisitions per group across every scope in
	// the process; it backs Current for inherit composition.
	mu     sync.Mutex
	active map[string]int
}

// Compile-time interface checks.
var (
	_ port.Backend        = (*Backend)(nil)
	_ port.EndpointLister = (*Backend)(nil)
)

// NewBackend runs discovery once and wraps the result.
func NewBackend(ctx context.Context) (*Backend, error) {
	registry, err := Discover(ctx)
	if err != nil {
		return nil, err
	}
	return NewBackendWithRegistry(registry), nil
}

// NewBackendWithRegistry wraps an already-built registry. Tests use it
// to inject fake endpoints.
func NewBackendWithRegistry(registry *Registry) *Backend {
	return &Backend{
		registry: registry,
		active:   make(map[string]int),
	}
}

func (b *Backend) Name() string {
	return "dbus"
}

// Capability covers both session-bus groups. Away-mode has no
// session-bus analogue, and inhibitions held by other processes
// cannot be enumerated, let alone revoked.
func (b *Backend) Capability() inhibit.Capability {
	return inhibit.Capability{Supported: inhibit.Suspend | inhibit.Display, CanRevoke: false}
}

func (b *Backend) Available() bool {
	return true
}

// Current is the union of the groups this process currently holds at
// least one live inhibition for.
func (b *Backend) Current(_ context.Context) (inhibit.StateFlags, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := inhibit.None
	for _, g := range inhibit.All.Groups() {
		if b.active[g.Name] > 0 {
			state = inhibit.Compose(state, g.Flag)
		}
	}
	return state, nil
}

// Acquire decomposes the request into capability groups and inhibits
// each on every endpoint discovered for it. One failing endpoint does
// not abort the others; a group where nothing succeeds is reported as
// a degradation and dropped from the effective flags.
func (b *Backend) Acquire(ctx context.Context, req port.Request) (*port.Acquisition, error) {
	log := logging.FromContext(ctx)
	acq := &port.Acquisition{}

	for _, g := range req.Flags.Groups() {
		endpoints := b.registry.ForGroup(g.Name)
		if len(endpoints) == 0 {
			acq.Degradations = append(acq.Degradations, inhibit.Degradation{
				Flags:  g.Flag,
				Group:  g.Name,
				Reason: inhibit.ReasonUnavailable,
				Detail: "not set: no endpoint discovered (unavailable or unimplemented)",
			})
			continue
		}

		acquired := 0
		for _, ep := range endpoints {
			handle, err := ep.Acquire(ctx, req.AppName, req.Reason)
			if err != nil {
				log.Warn().Err(err).
					Str("endpoint", ep.ID()).
					Str("group", g.Name).
					Msg("dbus: endpoint acquire failed")
				continue
			}
			acq.Held = append(acq.Held, port.HeldInhibition{Endpoint: ep, Handle: handle})
			acquired++
		}

		if acquired == 0 {
			acq.Degradations = append(acq.Degradations, inhibit.Degradation{
				Flags:  g.Flag,
				Group:  g.Name,
				Reason: inhibit.ReasonAcquireFailed,
				Detail: "every endpoint rejected the inhibit call",
			})
			continue
		}

		acq.Effective = inhibit.Compose(acq.Effective, g.Flag)
		b.mu.Lock()
		b.active[g.Name] += acquired
		b.mu.Unlock()
	}

	return acq, nil
}

// Release releases every held handle, best effort: a failure on one
// endpoint is logged and does not prevent releasing the rest. Each
// handle is released at most once.
func (b *Backend) Release(ctx context.Context, acq *port.Acquisition) error {
	log := logging.FromContext(ctx)

	held := acq.Held
	acq.Held = nil

	for _, h := range held {
		if err := h.Endpoint.Release(ctx, h.Handle); err != nil {
			log.Warn().Err(err).
				Str("endpoint", h.Endpoint.ID()).
				Msg("dbus: endpoint release failed")
		}
		b.mu.Lock()
		if b.active[h.Endpoint.Group()] > 0 {
			b.active[h.Endpoint.Group()]--
		}
		b.mu.Unlock()
	}
	return nil
}

// Endpoints enumerates the discovered endpoints for doctor output.
func (b *Backend) Endpoints() []port.EndpointInfo {
	return b.registry.Endpoints()
}
