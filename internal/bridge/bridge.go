// Package bridge wires the admission gate, UUID store, checkpoint store,
// and replication engines into the small set of operations the transport
// layer calls: welcome, databaseExists, getDatabaseDetails, revsDiff,
// bulkDocs, ensureFullCommit, and the local-doc get/put pair.
package bridge

import (
	"context"

	"github.com/couchbase/capi-es-bridge/internal/admission"
	"github.com/couchbase/capi-es-bridge/internal/checkpoint"
	"github.com/couchbase/capi-es-bridge/internal/dbref"
	"github.com/couchbase/capi-es-bridge/internal/errors"
	"github.com/couchbase/capi-es-bridge/internal/replication"
	"github.com/couchbase/capi-es-bridge/internal/uuidstore"
	"github.com/couchbase/capi-es-bridge/model"
	"github.com/couchbase/capi-es-bridge/services"
)

// Welcome is the trivial identifying record GET / returns.
type Welcome struct {
	Vendor  string `json:"vendor"`
	Version string `json:"version"`
}

// DatabaseDetails is what getDatabaseDetails returns on success.
type DatabaseDetails struct {
	DBName string `json:"db_name"`
}

// Bridge is the orchestrator: one instance per running process, shared
// across all HTTP requests.
type Bridge struct {
	gate       *admission.Gate
	uuids      *uuidstore.Store
	checkpoint *checkpoint.Store
	revsDiff   *replication.RevsDiffEngine
	bulkDocs   *replication.BulkDocsEngine
	index      services.IndexClient
}

// New assembles a Bridge from its collaborators.
func New(
	gate *admission.Gate,
	uuids *uuidstore.Store,
	checkpointStore *checkpoint.Store,
	revsDiff *replication.RevsDiffEngine,
	bulkDocs *replication.BulkDocsEngine,
	index services.IndexClient,
) *Bridge {
	return &Bridge{
		gate:       gate,
		uuids:      uuids,
		checkpoint: checkpointStore,
		revsDiff:   revsDiff,
		bulkDocs:   bulkDocs,
		index:      index,
	}
}

// Welcome returns the short identifying record for GET /.
func (b *Bridge) Welcome() Welcome {
	return Welcome{Vendor: "capi-es-bridge", Version: "1.0.0"}
}

// DatabaseExists implements databaseExists: splits off name and optional
// UUID, checks the index exists, and verifies the UUID if one was supplied.
// Returns "" on success, or one of "missing"/"uuids_dont_match".
func (b *Bridge) DatabaseExists(ctx context.Context, db string) (string, error) {
	ref := dbref.Parse(db)

	exists, err := b.index.Exists(ctx, ref.Index)
	if err != nil {
		return "", err
	}
	if !exists {
		return "missing", nil
	}

	if ref.UUID == "" {
		return "", nil
	}

	current, err := b.uuids.GetBucketUUID(ctx, ref.Index)
	if err != nil {
		return "", err
	}
	if current != ref.UUID {
		return "uuids_dont_match", nil
	}

	return "", nil
}

// GetDatabaseDetails implements getDatabaseDetails: wraps DatabaseExists,
// returning details on success and (nil, reason) otherwise.
func (b *Bridge) GetDatabaseDetails(ctx context.Context, db string) (*DatabaseDetails, string, error) {
	ref := dbref.Parse(db)

	reason, err := b.DatabaseExists(ctx, db)
	if err != nil {
		return nil, "", err
	}
	if reason != "" {
		return nil, reason, nil
	}

	return &DatabaseDetails{DBName: ref.Index}, "", nil
}

// CreateDatabase always refuses: indexes are managed externally.
func (b *Bridge) CreateDatabase(context.Context, string) error {
	return errors.NewUnsupportedOperationError("createDatabase")
}

// DeleteDatabase always refuses: indexes are managed externally.
func (b *Bridge) DeleteDatabase(context.Context, string) error {
	return errors.NewUnsupportedOperationError("deleteDatabase")
}

// EnsureFullCommit always succeeds: the Index manages its own durability.
func (b *Bridge) EnsureFullCommit(context.Context, string) error {
	return nil
}

// RevsDiff runs the admission-gated revs-diff algorithm.
func (b *Bridge) RevsDiff(ctx context.Context, db string, candidates map[string]string) (map[string]model.Missing, error) {
	release, err := b.gate.Enter(admission.EndpointRevsDiff)
	if err != nil {
		return nil, err
	}
	defer release()

	ref := dbref.Parse(db)
	return b.revsDiff.Diff(ctx, ref.Index, candidates)
}

// BulkDocs runs the admission-gated bulk-docs algorithm.
func (b *Bridge) BulkDocs(ctx context.Context, db string, mutations []model.Mutation) ([]model.Ack, error) {
	release, err := b.gate.Enter(admission.EndpointBulkDocs)
	if err != nil {
		return nil, err
	}
	defer release()

	ref := dbref.Parse(db)
	return b.bulkDocs.Push(ctx, ref.Index, mutations)
}

// GetLocalDoc reads a checkpoint/local doc. found is false if absent.
func (b *Bridge) GetLocalDoc(ctx context.Context, db, id string) (model.Document, bool, error) {
	ref := dbref.Parse(db)
	return b.checkpoint.Get(ctx, ref.Index, id)
}

// PutLocalDoc writes a checkpoint/local doc, synthesizing a revision if the
// caller did not supply one, and returns the revision used.
func (b *Bridge) PutLocalDoc(ctx context.Context, db, id string, payload model.Document) (string, error) {
	ref := dbref.Parse(db)
	return b.checkpoint.Put(ctx, ref.Index, id, payload)
}
