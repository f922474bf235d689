//go:build linux

package power

import (
	"context"

	"github.com/bnema/nosuspend/internal/application/port"
	powerdbus "github.com/bnema/nosuspend/internal/infrastructure/power/dbus"
)

// newPlatformBackend discovers session-bus and system-bus inhibitor
// endpoints. With no reachable bus at all the backend degrades to the
// unavailable variant, mirroring a missing-dependency situation.
func newPlatformBackend(ctx context.Context) port.Backend {
	b, err := powerdbus.NewBackend(ctx)
	if err != nil {
		return NewUnavailableBackend(ctx, "no D-Bus connection: "+err.Error())
	}
	return b
}
