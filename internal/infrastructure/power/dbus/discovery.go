package dbus

import (
	"context"
	"errors"
	"sync"

	godbus "github.com/godbus/dbus/v5"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/logging"
)

// ErrNoBus is returned when neither the session bus nor the system bus
// can be reached.
var ErrNoBus = errors.New("neither session nor system D-Bus is reachable")

// Registry holds the endpoints discovered at backend construction,
// grouped by capability group. It is constructed once and read-shared
// for the process lifetime; nothing mutates it afterwards.
type Registry struct {
	byGroup map[string][]port.Endpoint
}

// NewRegistry builds a registry from an endpoint list. Exported so
// tests can assemble a registry of fakes.
func NewRegistry(endpoints []port.Endpoint) *Registry {
	r := &Registry{byGroup: make(map[string][]port.Endpoint)}
	for _, ep := range endpoints {
		r.byGroup[ep.Group()] = append(r.byGroup[ep.Group()], ep)
	}
	return r
}

// ForGroup returns the endpoints serving one capability group. The
// slice must not be modified.
func (r *Registry) ForGroup(group string) []port.Endpoint {
	return r.byGroup[group]
}

// Endpoints enumerates every discovered endpoint for diagnostics.
func (r *Registry) Endpoints() []port.EndpointInfo {
	var out []port.EndpointInfo
	for _, eps := range r.byGroup {
		for _, ep := range eps {
			out = append(out, port.EndpointInfo{ID: ep.ID(), Group: ep.Group()})
		}
	}
	return out
}

type busConn struct {
	label string
	conn  *godbus.Conn
}

// Discover probes every row of the endpoint table against the session
// and system buses and returns the registry of live endpoints. Per row
// the first candidate name owned on either bus wins; a row with no
// owner is simply absent from the registry (degradation is reported at
// acquire time, per group).
func Discover(ctx context.Context) (*Registry, error) {
	log := logging.FromContext(ctx)

	var buses []busConn
	if conn, err := godbus.ConnectSessionBus(); err == nil {
		buses = append(buses, busConn{label: "session", conn: conn})
	} else {
		log.Debug().Err(err).Msg("dbus: session bus unavailable")
	}
	if conn, err := godbus.ConnectSystemBus(); err == nil {
		buses = append(buses, busConn{label: "system", conn: conn})
	} else {
		log.Debug().Err(err).Msg("dbus: system bus unavailable")
	}
	if len(buses) == 0 {
		return nil, ErrNoBus
	}

	found := make([]port.Endpoint, len(endpointTable))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range endpointTable {
		i, spec := i, spec
		g.Go(func() error {
			ep := probe(ctx, buses, spec)
			if ep != nil {
				mu.Lock()
				found[i] = ep
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var endpoints []port.Endpoint
	for _, ep := range found {
		if ep != nil {
			endpoints = append(endpoints, ep)
			log.Debug().
				Str("endpoint", ep.ID()).
				Str("group", ep.Group()).
				Msg("dbus: endpoint discovered")
		}
	}
	return NewRegistry(endpoints), nil
}

// probe checks each candidate name of one table row on each bus and
// returns an endpoint for the first owned name, or nil.
func probe(ctx context.Context, buses []busConn, spec endpointSpec) port.Endpoint {
	for _, name := range spec.names {
		for _, bus := range buses {
			var owned bool
			err := bus.conn.BusObject().CallWithContext(ctx,
				"org.freedesktop.DBus.NameHasOwner", 0, name).Store(&owned)
			if err != nil || !owned {
				continue
			}
			return &busEndpoint{
				conn:     bus.conn,
				busLabel: bus.label,
				name:     name,
				spec:     spec,
			}
		}
	}
	return nil
}
