package replication

import (
	"context"
	"time"

	"github.com/couchbase/capi-es-bridge/services"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type noopSleeper struct {
	calls int
}

func (s *noopSleeper) Sleep(_ context.Context, _ time.Duration) error {
	s.calls++
	return nil
}

func constantType(typeName string) func(string, string) string {
	return func(_, _ string) string { return typeName }
}

// capturingFake is a services.IndexClient stub that always succeeds and
// records the ops from its most recent Bulk call, for asserting on
// BulkIndexOp knobs (TTLMillis, Parent, Routing) the real esclient would
// otherwise be the only consumer of.
type capturingFake struct {
	lastOps []services.BulkOp
}

func (f *capturingFake) Exists(context.Context, string) (bool, error) { return true, nil }

func (f *capturingFake) Get(context.Context, services.IndexSource) (services.GetResult, error) {
	return services.GetResult{}, nil
}

func (f *capturingFake) MultiGet(_ context.Context, sources []services.IndexSource) ([]services.GetResult, error) {
	return make([]services.GetResult, len(sources)), nil
}

func (f *capturingFake) Bulk(_ context.Context, ops []services.BulkOp) (*services.BulkResponse, error) {
	f.lastOps = ops
	items := make([]services.BulkItemResult, len(ops))
	for i, op := range ops {
		items[i] = services.BulkItemResult{Source: op.Source}
	}
	return &services.BulkResponse{Items: items}, nil
}
