// Package power selects and implements the process-wide inhibition
// backends.
package power

import (
	"context"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/logging"
)

type fallbackKind int

const (
	// kindDummy: the platform genuinely has no suspend-on-idle
	// concept, so there is nothing to inhibit and nothing to warn
	// about.
	kindDummy fallbackKind = iota

	// kindUnavailable: the capability is structurally absent, e.g. a
	// required platform facility is missing.
	kindUnavailable

	// kindNotImplemented: the platform has a suspend concept but this
	// implementation does not support it yet.
	kindNotImplemented
)

// FallbackBackend accepts the full scope protocol while performing no
// real inhibition. Acquire always succeeds with zero effective flags
// and Release is a no-op; the three kinds differ only in the
// diagnostic they emit.
type FallbackBackend struct {
	kind   fallbackKind
	detail string
}

// Compile-time interface check.
var _ port.Backend = (*FallbackBackend)(nil)

// NewDummyBackend returns the silent no-op backend for platforms with
// no suspend concept.
func NewDummyBackend() *FallbackBackend {
	return &FallbackBackend{kind: kindDummy}
}

// NewUnavailableBackend returns a no-op backend that warns, once at
// construction, that inhibition is structurally unavailable.
func NewUnavailableBackend(ctx context.Context, detail string) *FallbackBackend {
	logging.FromContext(ctx).Warn().
		Str("detail", detail).
		Msg("suspension prevention is not available in this environment")
	return &FallbackBackend{kind: kindUnavailable, detail: detail}
}

// NewNotImplementedBackend returns a no-op backend that warns, on each
// entry, that inhibition is not implemented for this platform.
func NewNotImplementedBackend() *FallbackBackend {
	return &FallbackBackend{
		kind:   kindNotImplemented,
		detail: "suspension prevention is not implemented for this platform",
	}
}

func (b *FallbackBackend) Name() string {
	switch b.kind {
	case kindUnavailable:
		return "unavailable"
	case kindNotImplemented:
		return "not-implemented"
	default:
		return "dummy"
	}
}

// Capability claims the full flag set so the scope does not emit its
// own unsupported-bit warnings on top of the variant's diagnostic.
func (b *FallbackBackend) Capability() inhibit.Capability {
	return inhibit.Capability{Supported: inhibit.All, CanRevoke: true}
}

// Available always reports false: none of the fallback variants
// performs real inhibition.
func (b *FallbackBackend) Available() bool {
	return false
}

func (b *FallbackBackend) Current(_ context.Context) (inhibit.StateFlags, error) {
	return inhibit.None, nil
}

func (b *FallbackBackend) Acquire(ctx context.Context, req port.Request) (*port.Acquisition, error) {
	acq := &port.Acquisition{Effective: inhibit.None}

	switch b.kind {
	case kindNotImplemented:
		logging.FromContext(ctx).Warn().
			Msg("suspension prevention is not implemented for this platform; help is welcome")
		acq.Degradations = append(acq.Degradations, inhibit.Degradation{
			Flags:  req.Flags,
			Reason: inhibit.ReasonNotImplemented,
			Detail: b.detail,
		})
	case kindUnavailable:
		acq.Degradations = append(acq.Degradations, inhibit.Degradation{
			Flags:  req.Flags,
			Reason: inhibit.ReasonUnavailable,
			Detail: b.detail,
		})
	}
	return acq, nil
}

func (b *FallbackBackend) Release(_ context.Context, _ *port.Acquisition) error {
	return nil
}
