// Package uuidstore implements bucket/vbucket UUID bookkeeping: a
// read-through cache in front of create-on-miss persistence inside the
// Index's checkpoint namespace, so the Source can detect a re-created
// target.
package uuidstore

import (
	"context"
	"fmt"

	"github.com/couchbase/capi-es-bridge/internal/errors"
	"github.com/couchbase/capi-es-bridge/model"
	"github.com/couchbase/capi-es-bridge/services"
)

// maxReconcileAttempts bounds the create-then-reread reconciliation loop.
const maxReconcileAttempts = 100

const bucketUUIDID = "bucketUUID"

func vbucketUUIDID(vbucket int) string {
	return fmt.Sprintf("vbucket%dUUID", vbucket)
}

// Store reconciles bucket/vbucket UUIDs against the Index, backed by a
// read-through cache for the bucket-level lookup (vbucket lookups are not
// cached; vbucket lookups happen less often and skip the cache).
type Store struct {
	index             services.IndexClient
	cache             services.UUIDCache
	uuids             services.UUIDGenerator
	checkpointDocType string
}

// New constructs a Store. checkpointDocType is the index-type used to store
// the UUID documents (config.BridgeConfig.CheckpointDocumentType).
func New(index services.IndexClient, cache services.UUIDCache, uuids services.UUIDGenerator, checkpointDocType string) *Store {
	return &Store{
		index:             index,
		cache:             cache,
		uuids:             uuids,
		checkpointDocType: checkpointDocType,
	}
}

// GetBucketUUID returns the stable UUID for the given index ("bucket" in
// Source terms), generating and persisting one on first use. The result is
// memoized in the read-through cache.
func (s *Store) GetBucketUUID(ctx context.Context, bucket string) (string, error) {
	cacheKey := bucket + "/" + bucketUUIDID
	if v, ok := s.cache.Get(cacheKey); ok {
		return v, nil
	}

	exists, err := s.index.Exists(ctx, bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.NewFatalIndexError(bucket, "index does not exist", nil)
	}

	uuid, err := s.reconcile(ctx, bucket, bucketUUIDID, nil)
	if err != nil {
		return "", err
	}

	s.cache.Set(cacheKey, uuid)
	return uuid, nil
}

// GetVBucketUUID returns the stable UUID for one vbucket within an index.
// Unlike GetBucketUUID it is never cached.
func (s *Store) GetVBucketUUID(ctx context.Context, bucket string, vbucket int) (string, error) {
	exists, err := s.index.Exists(ctx, bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.NewFatalIndexError(bucket, "index does not exist", nil)
	}

	return s.reconcile(ctx, bucket, vbucketUUIDID(vbucket), &vbucket)
}

// reconcile looks up the checkpoint doc; on miss, it generates a candidate,
// attempts a create-only write, and re-reads, up to maxReconcileAttempts
// times. A racing writer that wins the create-only op is discovered on the
// next re-read, giving single-value-per-key semantics without explicit
// locking.
func (s *Store) reconcile(ctx context.Context, bucket, docID string, vbucket *int) (string, error) {
	source := services.IndexSource{Index: bucket, Type: s.checkpointDocType, ID: docID}

	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		result, err := s.index.Get(ctx, source)
		if err != nil {
			return "", err
		}
		if result.Found {
			if uuid, ok := readUUID(result.Source.Doc); ok {
				return uuid, nil
			}
		}

		candidate := stripDashes(s.uuids.NewHex())
		_, err = s.index.Bulk(ctx, []services.BulkOp{{
			Source: source,
			Index: &services.BulkIndexOp{
				Doc: model.CheckpointDoc{
					Doc: model.Document{"uuid": candidate},
				},
				CreateOnly: true,
			},
		}})
		if err != nil {
			return "", err
		}
		// Whether this write won or lost the race, the next loop
		// iteration's Get reads back whichever value is now authoritative.
	}

	return "", errors.NewUUIDReconcileError(bucket, vbucket, maxReconcileAttempts)
}

func readUUID(doc model.Document) (string, bool) {
	v, ok := doc["uuid"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stripDashes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
