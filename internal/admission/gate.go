// Package admission implements a two-counter admission gate: a pressure
// valve, not a queue. It bounds activeBulk + activeRevsDiff to a configured
// ceiling and rejects immediately (no waiting) once full.
package admission

import (
	"sync"
	"time"

	"github.com/couchbase/capi-es-bridge/internal/errors"
	"github.com/couchbase/capi-es-bridge/services"
)

// Endpoint names the two hot endpoints the gate admits requests for.
type Endpoint int

const (
	EndpointRevsDiff Endpoint = iota
	EndpointBulkDocs
)

func (e Endpoint) String() string {
	if e == EndpointBulkDocs {
		return "_bulk_docs"
	}
	return "_revs_diff"
}

// Gate is a pair of counters guarded by a single mutex, checked on entry.
// There is no queue: a request that finds the gate full is rejected
// immediately rather than waiting for a slot.
type Gate struct {
	mu                    sync.Mutex
	activeBulk            int
	activeRevsDiff        int
	maxConcurrentRequests int
	metrics               services.MetricsSink
	clock                 services.Clock
}

// New creates a Gate with the given admission ceiling. metrics and clock may
// be nil, in which case no stats are recorded and time.Now is used.
func New(maxConcurrentRequests int, metrics services.MetricsSink, clock services.Clock) *Gate {
	return &Gate{
		maxConcurrentRequests: maxConcurrentRequests,
		metrics:               metrics,
		clock:                 clock,
	}
}

// Enter attempts to admit a request for the given endpoint. On success it
// returns a release func that must be deferred; the caller must not call
// the core operation without successfully entering first. On rejection it
// returns a *errors.AdmissionRejectedError and a no-op release func.
func (g *Gate) Enter(endpoint Endpoint) (release func(), err error) {
	start := g.now()

	g.mu.Lock()
	if g.activeBulk+g.activeRevsDiff >= g.maxConcurrentRequests {
		g.mu.Unlock()
		if g.metrics != nil {
			g.metrics.RecordAdmissionRejected(endpoint.String())
		}
		return func() {}, errors.NewAdmissionRejectedError(endpoint.String())
	}

	switch endpoint {
	case EndpointBulkDocs:
		g.activeBulk++
	default:
		g.activeRevsDiff++
	}
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		switch endpoint {
		case EndpointBulkDocs:
			g.activeBulk--
		default:
			g.activeRevsDiff--
		}
		g.mu.Unlock()

		if g.metrics != nil {
			g.metrics.RecordRequest(endpoint.String(), g.now().Sub(start))
		}
	}, nil
}

// Active returns the current (activeBulk, activeRevsDiff) pair, mostly
// useful for tests asserting the invariant
// "activeBulk + activeRevsDiff <= maxConcurrentRequests".
func (g *Gate) Active() (bulk, revsDiff int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activeBulk, g.activeRevsDiff
}

func (g *Gate) now() time.Time {
	if g.clock != nil {
		return g.clock.Now()
	}
	return time.Now()
}
