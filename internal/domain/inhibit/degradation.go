package inhibit

// DegradationReason classifies why a requested inhibition was not
// applied as asked.
type DegradationReason int

const (
	// ReasonUnsupported: the bit is outside the backend's declared
	// capability set.
	ReasonUnsupported DegradationReason = iota

	// ReasonUnavailable: the capability group exists but no live
	// endpoint for it was discovered.
	ReasonUnavailable

	// ReasonNotImplemented: the platform has a suspend concept but
	// this implementation does not support it yet.
	ReasonNotImplemented

	// ReasonInheritNotHonored: inherit=false was requested on an
	// additive backend that cannot revoke existing inhibitions.
	ReasonInheritNotHonored

	// ReasonAcquireFailed: every endpoint for the group accepted
	// discovery but the acquire call itself failed.
	ReasonAcquireFailed
)

func (r DegradationReason) String() string {
	switch r {
	case ReasonUnsupported:
		return "unsupported"
	case ReasonUnavailable:
		return "unavailable"
	case ReasonNotImplemented:
		return "not-implemented"
	case ReasonInheritNotHonored:
		return "inherit-not-honored"
	case ReasonAcquireFailed:
		return "acquire-failed"
	default:
		return "unknown"
	}
}

// Degradation is a structured warning that a request was honored with
// reduced guarantees. Degradations are recoverable by definition; the
// caller decides whether reduced guarantees are acceptable.
type Degradation struct {
	// Flags are the bits affected.
	Flags StateFlags

	// Group is the capability group involved, if any.
	Group string

	// Reason classifies the degradation.
	Reason DegradationReason

	// Detail is a human-readable explanation.
	Detail string
}

func (d Degradation) String() string {
	s := d.Flags.String() + " not inhibited (" + d.Reason.String() + ")"
	if d.Detail != "" {
		s += ": " + d.Detail
	}
	return s
}
