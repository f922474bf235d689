//go:build darwin

package power

import (
	"context"

	"github.com/bnema/nosuspend/internal/application/port"
)

func newPlatformBackend(ctx context.Context) port.Backend {
	b, err := NewCaffeinateBackend()
	if err != nil {
		return NewUnavailableBackend(ctx, err.Error())
	}
	return b
}
