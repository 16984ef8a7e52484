// Package replication holds the two hot engines: revs
// diff and bulk docs, the translation between the Source's
// per-document-revision model and the Index's bulk write model.
package replication

import (
	"context"

	"github.com/couchbase/capi-es-bridge/model"
	"github.com/couchbase/capi-es-bridge/services"
)

// RevsDiffEngine answers which revisions the Index already has.
type RevsDiffEngine struct {
	index            services.IndexClient
	typeSelector     services.TypeSelector
	resolveConflicts bool
}

// NewRevsDiffEngine constructs a RevsDiffEngine.
func NewRevsDiffEngine(index services.IndexClient, typeSelector services.TypeSelector, resolveConflicts bool) *RevsDiffEngine {
	return &RevsDiffEngine{index: index, typeSelector: typeSelector, resolveConflicts: resolveConflicts}
}

// Diff implements the revs-diff algorithm. candidates maps id to the Source's
// candidate revision string.
func (e *RevsDiffEngine) Diff(ctx context.Context, indexName string, candidates map[string]string) (map[string]model.Missing, error) {
	response := make(map[string]model.Missing, len(candidates))
	for id, rev := range candidates {
		response[id] = model.Missing{Missing: rev}
	}

	if !e.resolveConflicts || len(candidates) == 0 {
		return response, nil
	}

	ids := make([]string, 0, len(candidates))
	sources := make([]services.IndexSource, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
		sources = append(sources, services.IndexSource{
			Index: indexName,
			Type:  e.typeSelector(indexName, id),
			ID:    id,
		})
	}

	results, err := e.index.MultiGet(ctx, sources)
	if err != nil {
		return nil, err
	}

	for i, result := range results {
		if i >= len(ids) {
			break
		}
		if !result.Found {
			continue
		}
		id := ids[i]
		if result.Source.Meta.Rev == candidates[id] {
			delete(response, id)
		}
	}

	return response, nil
}
