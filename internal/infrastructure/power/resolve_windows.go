//go:build windows

package power

import (
	"context"

	"github.com/bnema/nosuspend/internal/application/port"
)

func newPlatformBackend(ctx context.Context) port.Backend {
	set, err := newExecStateFunc()
	if err != nil {
		return NewUnavailableBackend(ctx, err.Error())
	}
	return NewExecStateBackend(set)
}
