//go:build windows

package power

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// newExecStateFunc binds kernel32.SetThreadExecutionState. An error
// means the proc cannot be located and the caller should fall back to
// the unavailable variant.
func newExecStateFunc() (ExecStateFunc, error) {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	proc := kernel32.NewProc("SetThreadExecutionState")
	if err := proc.Find(); err != nil {
		return nil, fmt.Errorf("SetThreadExecutionState not found: %w", err)
	}

	return func(esFlags uint32) (uint32, error) {
		prev, _, _ := proc.Call(uintptr(esFlags))
		if prev == 0 && esFlags != 0 {
			return 0, fmt.Errorf("SetThreadExecutionState(%#x) failed", esFlags)
		}
		return uint32(prev), nil
	}, nil
}
