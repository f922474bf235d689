// Package inhibit provides domain values for power-management inhibition:
// the StateFlags bit-set, backend capabilities and degradation reports.
package inhibit

import "strings"

// StateFlags is a bit-set describing which suspension behaviors are
// inhibited. The bit values deliberately match the Windows
// EXECUTION_STATE encoding (ES_SYSTEM_REQUIRED, ES_DISPLAY_REQUIRED,
// ES_AWAYMODE_REQUIRED) so the single-call backend can pass them
// through unchanged.
type StateFlags uint32

const (
	// None inhibits nothing; a scope entered with None is a no-op.
	None StateFlags = 0

	// Suspend prevents the system from sleeping or hibernating.
	Suspend StateFlags = 0x00000001

	// Display prevents the display from dimming or the screensaver
	// from activating.
	Display StateFlags = 0x00000002

	// AwayMode requests Windows away-mode instead of a real sleep
	// block. Ignored (with a degradation warning) everywhere else.
	AwayMode StateFlags = 0x00000040
)

// All is every flag this library knows about.
const All = Suspend | Display | AwayMode

// Capability group names. Each group is a class of suspend-related
// behavior that one or more endpoints can inhibit. AwayMode belongs to
// no group: it is a Windows-only modifier with no session-bus analogue.
const (
	GroupSuspend     = "suspend"
	GroupScreensaver = "screensaver"
)

// Group pairs a capability-group name with the flag bit it covers.
type Group struct {
	Name string
	Flag StateFlags
}

// groupTable is ordered so decomposition is deterministic.
var groupTable = []Group{
	{Name: GroupSuspend, Flag: Suspend},
	{Name: GroupScreensaver, Flag: Display},
}

// Compose returns the union of a and b. Union is commutative and
// idempotent, so composing nested scope requests is order-insensitive.
func Compose(a, b StateFlags) StateFlags {
	return a | b
}

// Has reports whether every bit of other is set in f.
func (f StateFlags) Has(other StateFlags) bool {
	return f&other == other
}

// Split decomposes f into its individual set bits.
func (f StateFlags) Split() []StateFlags {
	var out []StateFlags
	for bit := StateFlags(1); bit != 0 && bit <= f; bit <<= 1 {
		if f&bit != 0 {
			out = append(out, bit)
		}
	}
	return out
}

// Groups returns the capability groups covered by f, in table order.
// Bits that belong to no group (such as AwayMode) are not returned.
func (f StateFlags) Groups() []Group {
	var out []Group
	for _, g := range groupTable {
		if f&g.Flag != 0 {
			out = append(out, g)
		}
	}
	return out
}

// Ungrouped returns the bits of f that belong to no capability group.
func (f StateFlags) Ungrouped() StateFlags {
	rest := f
	for _, g := range groupTable {
		rest &^= g.Flag
	}
	return rest
}

func (f StateFlags) String() string {
	if f == None {
		return "none"
	}
	var parts []string
	if f.Has(Suspend) {
		parts = append(parts, "suspend")
	}
	if f.Has(Display) {
		parts = append(parts, "display")
	}
	if f.Has(AwayMode) {
		parts = append(parts, "away-mode")
	}
	if rest := f &^ All; rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// Capability declares which StateFlags bits a backend can honor.
type Capability struct {
	// Supported is the set of bits the backend can act on.
	Supported StateFlags

	// CanRevoke reports whether the backend can shrink the existing
	// inhibition state to exactly a requested set. Additive backends
	// (session-bus inhibitors cannot enumerate inhibitions they did
	// not create) leave this false, and inherit=false degrades to
	// inherit=true with a warning.
	CanRevoke bool
}

// Restrict intersects flags with the capability's supported set,
// returning the kept bits and the dropped bits. Dropped bits must be
// reported to the caller as a degradation, never silently escalated.
func (c Capability) Restrict(flags StateFlags) (kept, dropped StateFlags) {
	kept = flags & c.Supported
	dropped = flags &^ c.Supported
	return kept, dropped
}
