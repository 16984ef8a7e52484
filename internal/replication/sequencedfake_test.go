package replication

import (
	"context"

	"github.com/couchbase/capi-es-bridge/services"
)

func serviceSourceDB1(typeName, id string) services.IndexSource {
	return services.IndexSource{Index: "db1", Type: typeName, ID: id}
}

func serviceSourceDB1D() services.IndexSource {
	return serviceSourceDB1("couchbaseDocument", "d")
}

// bulkOutcome describes what one Bulk call on sequencedFake should return:
// either a clean response or one with every item failing with failMessage.
type bulkOutcome struct {
	failMessage string
}

// sequencedFake is a services.IndexClient stub that replays a fixed
// sequence of Bulk outcomes, one per call, for exercising
// BulkDocsEngine's retry and fatal-abort paths without a live Index.
type sequencedFake struct {
	responses []bulkOutcome
	callCount int
}

func (f *sequencedFake) Exists(context.Context, string) (bool, error) { return true, nil }

func (f *sequencedFake) Get(context.Context, services.IndexSource) (services.GetResult, error) {
	return services.GetResult{}, nil
}

func (f *sequencedFake) MultiGet(ctx context.Context, sources []services.IndexSource) ([]services.GetResult, error) {
	results := make([]services.GetResult, len(sources))
	return results, nil
}

func (f *sequencedFake) Bulk(_ context.Context, ops []services.BulkOp) (*services.BulkResponse, error) {
	idx := f.callCount
	f.callCount++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	outcome := f.responses[idx]

	items := make([]services.BulkItemResult, len(ops))
	for i, op := range ops {
		if outcome.failMessage != "" {
			items[i] = services.BulkItemResult{Source: op.Source, Failed: true, Message: outcome.failMessage}
		} else {
			items[i] = services.BulkItemResult{Source: op.Source}
		}
	}
	return &services.BulkResponse{Items: items}, nil
}
