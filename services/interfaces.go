// Package services declares the seams the replication core talks through.
// Everything in this package is a plain interface or function type; the core
// in internal/replication, internal/uuidstore and internal/checkpoint never
// imports a concrete Index client, clock, or UUID library directly.
package services

import (
	"context"
	"time"

	"github.com/couchbase/capi-es-bridge/model"
)

// IndexSource is one document the core asks the Index for or about.
type IndexSource struct {
	Index string
	Type  string
	ID    string
}

// GetResult is the outcome of looking up a single document.
type GetResult struct {
	Found  bool
	Source model.IndexedDocument
}

// BulkOp is one operation inside a single bulk request. Exactly one of
// Index/Delete is set.
type BulkOp struct {
	Source IndexSource
	Index  *BulkIndexOp
	Delete bool
}

// BulkIndexOp carries the payload and optional knobs for a bulk index (as
// opposed to delete) operation. Doc is whatever envelope the caller wants
// serialized: model.IndexedDocument for a replicated mutation (meta + doc),
// or model.CheckpointDoc for a checkpoint/UUID document (doc only, no meta
// sibling).
type BulkIndexOp struct {
	Doc        interface{}
	TTLMillis  int64  // 0 means unset
	Parent     string // empty means unset
	Routing    string // empty means unset
	CreateOnly bool   // true means "fail instead of overwrite"
}

// BulkItemResult is the per-op outcome the Index reports back for one bulk
// request item.
type BulkItemResult struct {
	Source  IndexSource
	Failed  bool
	Message string // failure detail; empty when Failed is false
}

// BulkResponse is the aggregate reply to one bulk request. Items are in the
// same order as the request's ops.
type BulkResponse struct {
	Items []BulkItemResult
}

// IndexClient is the only way the core reaches the Index. A production
// implementation backs onto a real search engine's bulk/get/index API (see
// internal/esclient); tests back it with an in-memory fake
// (internal/fakeindex). The core treats every method as a synchronous round
// trip.
type IndexClient interface {
	// Exists reports whether the named index exists at all.
	Exists(ctx context.Context, index string) (bool, error)

	// MultiGet fetches many documents from possibly-different indexes/types
	// in a single round trip. Results are positional: one entry per source,
	// in the same order. A missing item is an entry with Found false, not an
	// error.
	MultiGet(ctx context.Context, sources []IndexSource) ([]GetResult, error)

	// Get fetches a single document.
	Get(ctx context.Context, source IndexSource) (GetResult, error)

	// Bulk executes a batch of index/delete operations as one request.
	Bulk(ctx context.Context, ops []BulkOp) (*BulkResponse, error)
}

// Clock is the source of "now" the core uses for TTL computation. A real
// implementation wraps time.Now; tests can pin it.
type Clock interface {
	Now() time.Time
}

// Sleeper is the source of retry delay the bulk-docs engine uses, injected so
// tests can advance time without wall-clock sleeps. Implementations must
// respect ctx cancellation and return its error when interrupted.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// UUIDGenerator produces the random identifiers used for bucket/vbucket
// UUIDs and synthesized checkpoint revisions.
type UUIDGenerator interface {
	// NewHex returns a new UUID as a 32-character hex string with no dashes.
	NewHex() string
	// NewRevision returns a synthesized local-doc revision of the form
	// "1-<uuid>".
	NewRevision() string
}

// TypeSelector maps an (index, document id) pair to the index-type name
// used to store that document. Implementations are total: every id gets
// some non-empty type.
type TypeSelector func(index, id string) string

// UUIDCache is the read-through cache in front of the bucket UUID lookup. A
// small bounded LRU is fine here; eviction is safe because the UUID store
// always re-reads authoritative state on a miss.
type UUIDCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MetricsSink is the stats surface collaborator, passed into the core as a
// small object rather than reached for via process-global state.
type MetricsSink interface {
	RecordRequest(endpoint string, elapsed time.Duration)
	RecordAdmissionRejected(endpoint string)
}
