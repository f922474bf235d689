//go:build !linux && !windows && !darwin

package power

import (
	"context"

	"github.com/bnema/nosuspend/internal/application/port"
)

func newPlatformBackend(_ context.Context) port.Backend {
	return NewNotImplementedBackend()
}
