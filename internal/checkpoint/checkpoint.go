// Package checkpoint implements read/write of small Source-owned
// replication state documents, keyed by the Source's supplied doc-id, under
// the dedicated checkpoint index-type.
package checkpoint

import (
	"context"

	"github.com/couchbase/capi-es-bridge/model"
	"github.com/couchbase/capi-es-bridge/services"
)

// Store reads and writes local/checkpoint documents.
type Store struct {
	index   services.IndexClient
	uuids   services.UUIDGenerator
	docType string
}

// New constructs a Store. docType is the index-type used for checkpoint
// documents (config.BridgeConfig.CheckpointDocumentType).
func New(index services.IndexClient, uuids services.UUIDGenerator, docType string) *Store {
	return &Store{index: index, uuids: uuids, docType: docType}
}

// Get fetches the unwrapped payload for the named checkpoint doc. The bool
// return reports whether the document exists.
func (s *Store) Get(ctx context.Context, index, id string) (model.Document, bool, error) {
	result, err := s.index.Get(ctx, services.IndexSource{Index: index, Type: s.docType, ID: id})
	if err != nil {
		return nil, false, err
	}
	if !result.Found {
		return nil, false, nil
	}
	return result.Source.Doc, true, nil
}

// Put stores payload under the named checkpoint doc. If payload lacks a
// "_rev" field, one is synthesized and written back into the stored copy.
// Returns the revision string that was used.
func (s *Store) Put(ctx context.Context, index, id string, payload model.Document) (string, error) {
	rev, hasRev := payload["_rev"].(string)
	if !hasRev || rev == "" {
		rev = s.uuids.NewRevision()
	}

	stored := make(model.Document, len(payload)+1)
	for k, v := range payload {
		stored[k] = v
	}
	stored["_rev"] = rev

	_, err := s.index.Bulk(ctx, []services.BulkOp{{
		Source: services.IndexSource{Index: index, Type: s.docType, ID: id},
		Index: &services.BulkIndexOp{
			Doc: model.CheckpointDoc{Doc: stored},
		},
	}})
	if err != nil {
		return "", err
	}

	return rev, nil
}
