// Package metrics tracks per-endpoint call counts and mean latency for the
// two hot endpoints, plus the admission-rejection counter, adapted from the
// teacher's internal/jobs.JobMetrics shape (mutex-guarded counters and a
// running-mean aggregator, with a separate snapshot struct safe to copy).
package metrics

import (
	"sync"
	"time"
)

// EndpointData is a point-in-time, copy-safe snapshot for one endpoint.
type EndpointData struct {
	Requests       int64         `json:"requests"`
	TotalElapsed   time.Duration `json:"total_elapsed_ns"`
	AverageElapsed time.Duration `json:"average_elapsed_ns"`
}

// Data is a point-in-time, copy-safe snapshot of all tracked metrics.
type Data struct {
	Endpoints                 map[string]EndpointData `json:"endpoints"`
	TooManyConcurrentRequests int64                   `json:"too_many_concurrent_requests"`
	LastUpdated               time.Time               `json:"last_updated"`
}

type endpointCounters struct {
	requests     int64
	totalElapsed time.Duration
}

// Sink tracks performance metrics for the bridge's two hot endpoints. The
// zero value is not usable; construct with New.
type Sink struct {
	mu                        sync.RWMutex
	endpoints                 map[string]*endpointCounters
	tooManyConcurrentRequests int64
	lastUpdated               time.Time
}

// New creates an empty Sink.
func New() *Sink {
	return &Sink{
		endpoints:   make(map[string]*endpointCounters),
		lastUpdated: time.Now(),
	}
}

// RecordRequest records one completed call to endpoint and its elapsed time.
func (s *Sink) RecordRequest(endpoint string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.endpoints[endpoint]
	if !ok {
		c = &endpointCounters{}
		s.endpoints[endpoint] = c
	}
	c.requests++
	c.totalElapsed += elapsed
	s.lastUpdated = time.Now()
}

// RecordAdmissionRejected increments the too-many-concurrent-requests
// counter for endpoint.
func (s *Sink) RecordAdmissionRejected(_ string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tooManyConcurrentRequests++
	s.lastUpdated = time.Now()
}

// Snapshot returns a copy-safe view of the current metrics.
func (s *Sink) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endpoints := make(map[string]EndpointData, len(s.endpoints))
	for name, c := range s.endpoints {
		avg := time.Duration(0)
		if c.requests > 0 {
			avg = c.totalElapsed / time.Duration(c.requests)
		}
		endpoints[name] = EndpointData{
			Requests:       c.requests,
			TotalElapsed:   c.totalElapsed,
			AverageElapsed: avg,
		}
	}

	return Data{
		Endpoints:                 endpoints,
		TooManyConcurrentRequests: s.tooManyConcurrentRequests,
		LastUpdated:               s.lastUpdated,
	}
}
