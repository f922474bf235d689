// Package port defines the interfaces the application layer consumes.
package port

import (
	"context"

	"github.com/bnema/nosuspend/internal/domain/inhibit"
)

// Handle is an opaque token identifying one acquired inhibition on one
// endpoint. A handle is owned exclusively by the scope that acquired
// it and must be released exactly once, through the same backend.
type Handle uint64

// Endpoint is a single addressable power-management authority honoring
// an acquire/release pair for one capability group.
type Endpoint interface {
	// ID identifies the endpoint for logging and doctor output,
	// e.g. "session:org.freedesktop.ScreenSaver".
	ID() string

	// Group returns the capability group this endpoint serves.
	Group() string

	// Acquire requests an inhibition and returns its handle.
	Acquire(ctx context.Context, appName, reason string) (Handle, error)

	// Release releases a previously acquired inhibition.
	Release(ctx context.Context, handle Handle) error
}

// HeldInhibition pairs an endpoint with the handle it issued.
type HeldInhibition struct {
	Endpoint Endpoint
	Handle   Handle
}

// Request describes one acquisition: the flags to inhibit plus the
// application name and reason forwarded to endpoints that take them.
type Request struct {
	Flags   inhibit.StateFlags
	AppName string
	Reason  string
}

// Acquisition is what a backend hands back from Acquire and expects
// back, unchanged, in Release. Effective is the ground truth of what
// was actually inhibited; Held and Snapshot are backend bookkeeping.
type Acquisition struct {
	// Effective is the subset of the requested flags that was truly
	// inhibited.
	Effective inhibit.StateFlags

	// Degradations explains every requested bit missing from
	// Effective.
	Degradations []inhibit.Degradation

	// Held lists the (endpoint, handle) pairs acquired by a
	// multi-endpoint backend. Empty for single-call backends.
	Held []HeldInhibition

	// Snapshot is one word of backend bookkeeping for backends that
	// hold no endpoint handles: the previous process-wide bitmask for
	// the single-call backend, a spawn token for process-based ones.
	Snapshot uint32
}

// Backend is one power-management strategy, selected once per process.
// A backend instance is shared by every scope in the process and must
// tolerate concurrent Acquire/Release calls.
type Backend interface {
	// Name identifies the backend for logging and doctor output.
	Name() string

	// Capability declares which flags the backend can honor.
	Capability() inhibit.Capability

	// Available reports whether the backend performs real inhibition.
	// Degraded variants (dummy, unavailable, not-implemented) return
	// false; callers for whom inhibition is mission-critical must
	// check this rather than probing at runtime.
	Available() bool

	// Current returns the inhibition state this backend can observe:
	// the process-wide bitmask for single-call backends, the union of
	// this process's live acquisitions for additive ones.
	Current(ctx context.Context) (inhibit.StateFlags, error)

	// Acquire inhibits as much of the request as it can. Partial
	// success is normal, not an error: unsatisfiable bits are
	// reported as degradations on the returned acquisition.
	Acquire(ctx context.Context, req Request) (*Acquisition, error)

	// Release undoes a previous acquisition, best effort: a failure
	// on one held handle must not prevent releasing the rest.
	Release(ctx context.Context, acq *Acquisition) error
}

// EndpointInfo describes one discovered endpoint for doctor output.
type EndpointInfo struct {
	ID    string
	Group string
}

// EndpointLister is implemented by backends that discover endpoints
// and can enumerate them for diagnostics.
type EndpointLister interface {
	Endpoints() []EndpointInfo
}
