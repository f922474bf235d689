// Package usecase contains application business logic.
package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/logging"
)

// Scope lifecycle errors.
var (
	ErrScopeActive = errors.New("scope already entered")
	ErrScopeSpent  = errors.New("scope already exited; create a new scope")
)

type scopeState int

const (
	scopeIdle scopeState = iota
	scopeActive
	scopeSpent
)

// ScopeOption customizes a Scope at construction.
type ScopeOption func(*Scope)

// WithAppName sets the application name forwarded to endpoints.
func WithAppName(name string) ScopeOption {
	return func(s *Scope) { s.appName = name }
}

// WithReason sets the human-readable reason forwarded to endpoints.
func WithReason(reason string) ScopeOption {
	return func(s *Scope) { s.reason = reason }
}

// WithoutInherit requests that the scope replace, rather than extend,
// the current inhibition state. Only honored by backends that can
// revoke inhibitions; additive backends degrade back to inheriting.
func WithoutInherit() ScopeOption {
	return func(s *Scope) { s.inherit = false }
}

// Scope is the scoped-acquisition controller: it acquires inhibition
// on Enter and restores the prior state on Exit. A scope is single
// use; after Exit it cannot be entered again. Constructing a scope has
// no OS effect.
//
// The typical shape mirrors a context-manager block:
//
//	scope := usecase.NewScope(backend, inhibit.Suspend)
//	effective, err := scope.Enter(ctx)
//	if err != nil { ... }
//	defer scope.Close()
//	// protected work
//
// Multiple scopes may be entered concurrently; each owns its handle
// set exclusively. The shared backend handles its own locking.
type Scope struct {
	backend port.Backend
	request inhibit.StateFlags
	appName string
	reason  string
	inherit bool

	mu           sync.Mutex
	state        scopeState
	acq          *port.Acquisition
	degradations []inhibit.Degradation
}

// NewScope creates an inert scope for the given request.
func NewScope(backend port.Backend, request inhibit.StateFlags, opts ...ScopeOption) *Scope {
	s := &Scope{
		backend: backend,
		request: request,
		appName: "nosuspend",
		reason:  "nosuspend scope active",
		inherit: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether the underlying backend performs real
// inhibition. Callers for whom inhibition is mission-critical should
// check this before relying on the scope.
func (s *Scope) Available() bool {
	return s.backend.Available()
}

// Degradations returns the structured warnings collected during Enter.
func (s *Scope) Degradations() []inhibit.Degradation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]inhibit.Degradation, len(s.degradations))
	copy(out, s.degradations)
	return out
}

// Enter acquires inhibition for the scope's request and returns the
// flags that were actually inhibited, which may be a subset of the
// request when some bits were unsupported or unavailable.
func (s *Scope) Enter(ctx context.Context) (inhibit.StateFlags, error) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case scopeActive:
		return inhibit.None, ErrScopeActive
	case scopeSpent:
		return inhibit.None, ErrScopeSpent
	}

	capability := s.backend.Capability()
	request, dropped := capability.Restrict(s.request)
	if dropped != inhibit.None {
		s.degradations = append(s.degradations, inhibit.Degradation{
			Flags:  dropped,
			Reason: inhibit.ReasonUnsupported,
			Detail: "not in the " + s.backend.Name() + " backend capability set",
		})
	}

	inherit := s.inherit
	if !inherit && !capability.CanRevoke {
		// Additive backends cannot enumerate inhibitions they did not
		// create, so the requested reduction cannot be honored.
		s.degradations = append(s.degradations, inhibit.Degradation{
			Reason: inhibit.ReasonInheritNotHonored,
			Detail: "backend " + s.backend.Name() + " cannot revoke existing inhibitions; proceeding as inherit=true",
		})
		inherit = true
	}

	effective := request
	if inherit {
		current, err := s.backend.Current(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("scope: cannot read current inhibition state")
		} else {
			effective = inhibit.Compose(request, current)
		}
	}

	acq, err := s.backend.Acquire(ctx, port.Request{
		Flags:   effective,
		AppName: s.appName,
		Reason:  s.reason,
	})
	if err != nil {
		// The backend contract keeps partial results tracked on acq
		// even when acquire reports failure; release whatever was
		// obtained so nothing leaks.
		if acq != nil {
			_ = s.backend.Release(ctx, acq)
		}
		return inhibit.None, err
	}

	s.degradations = append(s.degradations, acq.Degradations...)
	for _, d := range s.degradations {
		log.Warn().
			Str("flags", d.Flags.String()).
			Str("group", d.Group).
			Str("reason", d.Reason.String()).
			Msg(d.Detail)
	}

	s.acq = acq
	s.state = scopeActive

	log.Debug().
		Str("requested", s.request.String()).
		Str("effective", acq.Effective.String()).
		Str("backend", s.backend.Name()).
		Msg("scope entered")

	return acq.Effective, nil
}

// Exit releases everything Enter acquired and restores the prior
// state. Calling Exit on a scope that is not active is a no-op, so a
// second Exit never double-releases.
func (s *Scope) Exit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitLocked(ctx)
}

func (s *Scope) exitLocked(ctx context.Context) error {
	if s.state != scopeActive {
		if s.state == scopeIdle {
			s.state = scopeSpent
		}
		return nil
	}

	acq := s.acq
	s.acq = nil
	s.state = scopeSpent

	err := s.backend.Release(ctx, acq)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("scope: release failed")
	}
	return err
}

// Close is the implicit-exit path for defer: it releases every held
// handle best effort and swallows release errors. Safe to call after
// Exit.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.exitLocked(context.Background())
	return nil
}
