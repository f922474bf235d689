package dbus

import (
	"context"
	"fmt"
	"os"

	godbus "github.com/godbus/dbus/v5"

	"github.com/bnema/nosuspend/internal/application/port"
)

// busEndpoint is one discovered inhibitor service: a live bus name on
// a specific bus, speaking one call style.
type busEndpoint struct {
	conn     *godbus.Conn
	busLabel string // "session" or "system"
	name     string
	spec     endpointSpec
}

// Compile-time interface check.
var _ port.Endpoint = (*busEndpoint)(nil)

func (e *busEndpoint) ID() string {
	return e.busLabel + ":" + e.name
}

func (e *busEndpoint) Group() string {
	return e.spec.group
}

func (e *busEndpoint) object() godbus.BusObject {
	return e.conn.Object(e.name, e.spec.path)
}

// Acquire requests one inhibition and returns its handle: the cookie
// for cookie-style services, the inhibitor file descriptor for logind.
func (e *busEndpoint) Acquire(ctx context.Context, appName, reason string) (port.Handle, error) {
	obj := e.object()

	switch e.spec.style {
	case styleFreedesktop:
		var cookie uint32
		err := obj.CallWithContext(ctx, e.spec.iface+".Inhibit", 0, appName, reason).Store(&cookie)
		if err != nil {
			return 0, fmt.Errorf("%s: inhibit: %w", e.ID(), err)
		}
		return port.Handle(cookie), nil

	case styleSession:
		var cookie uint32
		err := obj.CallWithContext(ctx, e.spec.iface+".Inhibit", 0,
			appName, uint32(0), reason, gnomeInhibitSuspend).Store(&cookie)
		if err != nil {
			return 0, fmt.Errorf("%s: inhibit: %w", e.ID(), err)
		}
		return port.Handle(cookie), nil

	case stylePolicyAgent:
		var cookie uint32
		err := obj.CallWithContext(ctx, e.spec.iface+".AddInhibition", 0,
			policyAgentInterruptSession, appName, reason).Store(&cookie)
		if err != nil {
			return 0, fmt.Errorf("%s: add inhibition: %w", e.ID(), err)
		}
		return port.Handle(cookie), nil

	case styleLogind:
		var fd godbus.UnixFD
		err := obj.CallWithContext(ctx, e.spec.iface+".Inhibit", 0,
			"sleep", appName, reason, "block").Store(&fd)
		if err != nil {
			return 0, fmt.Errorf("%s: inhibit: %w", e.ID(), err)
		}
		return port.Handle(fd), nil

	default:
		return 0, fmt.Errorf("%s: unknown call style", e.ID())
	}
}

// Release releases one inhibition by its handle.
func (e *busEndpoint) Release(ctx context.Context, handle port.Handle) error {
	obj := e.object()

	switch e.spec.style {
	case styleFreedesktop:
		return obj.CallWithContext(ctx, e.spec.iface+".UnInhibit", 0, uint32(handle)).Err

	case styleSession:
		return obj.CallWithContext(ctx, e.spec.iface+".Uninhibit", 0, uint32(handle)).Err

	case stylePolicyAgent:
		return obj.CallWithContext(ctx, e.spec.iface+".ReleaseInhibition", 0, uint32(handle)).Err

	case styleLogind:
		// The logind inhibitor lock is the fd itself; closing it
		// releases the inhibition.
		return os.NewFile(uintptr(handle), "logind-inhibitor").Close()

	default:
		return fmt.Errorf("%s: unknown call style", e.ID())
	}
}
