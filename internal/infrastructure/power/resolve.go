package power

import (
	"context"
	"sync"

	"github.com/bnema/nosuspend/internal/application/port"
)

var (
	resolveOnce    sync.Once
	processBackend port.Backend
)

// Resolve returns the process-wide backend, selecting it from platform
// detection on first call. The result is immutable for the process
// lifetime; every scope in the process shares it.
func Resolve(ctx context.Context) port.Backend {
	resolveOnce.Do(func() {
		processBackend = newPlatformBackend(ctx)
	})
	return processBackend
}
