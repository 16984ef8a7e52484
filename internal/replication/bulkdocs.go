package replication

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/couchbase/capi-es-bridge/internal/errors"
	"github.com/couchbase/capi-es-bridge/internal/jsonpath"
	"github.com/couchbase/capi-es-bridge/model"
	"github.com/couchbase/capi-es-bridge/services"
)

// nonFatalMarker is the substring used to classify a bulk-item
// failure as transient (queue pressure) rather than fatal.
const nonFatalMarker = "EsRejectedExecutionException"

// BulkDocsEngine normalizes, classifies, and bulk-writes an
// incoming mutation batch with bounded retry.
type BulkDocsEngine struct {
	index         services.IndexClient
	clock         services.Clock
	sleeper       services.Sleeper
	typeSelector  services.TypeSelector
	parentFields  map[string]string
	routingFields map[string]string
	retries       int
	retryWait     time.Duration
}

// Config bundles the BulkDocsEngine's tunables (config.BridgeConfig fields).
type Config struct {
	ParentFields  map[string]string
	RoutingFields map[string]string
	Retries       int
	RetryWait     time.Duration
}

// NewBulkDocsEngine constructs a BulkDocsEngine.
func NewBulkDocsEngine(index services.IndexClient, clock services.Clock, sleeper services.Sleeper, typeSelector services.TypeSelector, cfg Config) *BulkDocsEngine {
	return &BulkDocsEngine{
		index:         index,
		clock:         clock,
		sleeper:       sleeper,
		typeSelector:  typeSelector,
		parentFields:  cfg.ParentFields,
		routingFields: cfg.RoutingFields,
		retries:       cfg.Retries,
		retryWait:     cfg.RetryWait,
	}
}

// normalized is one mutation after per-mutation normalization,
// paired with the op it will submit to the Index.
type normalized struct {
	id  string
	rev string
	op  services.BulkOp
}

// Push normalizes every mutation, builds one bulk request, submits with
// bounded retry, and returns one ack per normalized mutation in input order.
func (e *BulkDocsEngine) Push(ctx context.Context, indexName string, mutations []model.Mutation) ([]model.Ack, error) {
	batch := make([]normalized, 0, len(mutations))
	for _, m := range mutations {
		n, ok := e.normalize(indexName, m)
		if !ok {
			continue
		}
		batch = append(batch, n)
	}

	if len(batch) == 0 {
		return []model.Ack{}, nil
	}

	ops := make([]services.BulkOp, len(batch))
	for i, n := range batch {
		ops[i] = n.op
	}

	resp, err := e.submitWithRetry(ctx, ops)
	if err != nil {
		return nil, err
	}

	acks := make([]model.Ack, 0, len(batch))
	for i, item := range resp.Items {
		if i >= len(batch) {
			break
		}
		if item.Failed {
			continue
		}
		acks = append(acks, model.Ack{ID: batch[i].id, Rev: batch[i].rev})
	}

	return acks, nil
}

// normalize implements per-mutation normalization and action
// selection. ok is false when the mutation has no meta and must be skipped
// entirely with a warning.
func (e *BulkDocsEngine) normalize(indexName string, m model.Mutation) (normalized, bool) {
	if m.Meta == nil {
		log.Printf("bulk_docs: skipping mutation with no meta")
		return normalized{}, false
	}

	payload := e.payloadFor(m)
	typeName := e.typeSelector(indexName, m.Meta.ID)

	source := services.IndexSource{Index: indexName, Type: typeName, ID: m.Meta.ID}

	if m.Meta.Deleted {
		return normalized{
			id:  m.Meta.ID,
			rev: m.Meta.Rev,
			op:  services.BulkOp{Source: source, Delete: true},
		}, true
	}

	doc := model.IndexedDocument{Meta: *m.Meta, Doc: payload}

	indexOp := &services.BulkIndexOp{Doc: doc}
	indexOp.TTLMillis = e.ttlMillis(m.Meta.Expiration)

	envelope := envelopeDoc(doc)
	if field, ok := e.parentFields[typeName]; ok {
		if parent, ok := jsonpath.ResolveString(envelope, field); ok {
			indexOp.Parent = parent
		} else {
			log.Printf("bulk_docs: parent field %q did not resolve to a string for id %q", field, m.Meta.ID)
		}
	}
	if field, ok := e.routingFields[typeName]; ok {
		if routing, ok := jsonpath.ResolveString(envelope, field); ok {
			indexOp.Routing = routing
		} else {
			log.Printf("bulk_docs: routing field %q did not resolve to a string for id %q", field, m.Meta.ID)
		}
	}

	return normalized{
		id:  m.Meta.ID,
		rev: m.Meta.Rev,
		op:  services.BulkOp{Source: source, Index: indexOp},
	}, true
}

// payloadFor implements the payload-normalization fallback chain.
func (e *BulkDocsEngine) payloadFor(m model.Mutation) model.Document {
	if m.Meta.AttReason == model.NonJSONMode {
		return model.Document{}
	}

	if m.JSON != nil {
		return m.JSON
	}

	if m.Base64 != nil {
		decoded, err := base64.StdEncoding.DecodeString(*m.Base64)
		if err != nil {
			log.Printf("bulk_docs: could not base64-decode payload for id %q: %v", m.Meta.ID, err)
			return model.Document{}
		}
		var doc model.Document
		if err := json.Unmarshal(decoded, &doc); err != nil {
			log.Printf("bulk_docs: could not parse decoded payload as json for id %q: %v", m.Meta.ID, err)
			return model.Document{}
		}
		return doc
	}

	return model.Document{}
}

// ttlMillis implements the TTL computation. A nonpositive result means
// "do not set a TTL" (expired, no expiration configured, or the open
// question's "TTL < 0 silently drops" behavior).
func (e *BulkDocsEngine) ttlMillis(expiration int64) int64 {
	if expiration == 0 {
		return 0
	}
	ttl := expiration*1000 - e.clock.Now().UnixMilli()
	if ttl <= 0 {
		return 0
	}
	return ttl
}

// envelopeDoc produces the map[string]interface{} view of an IndexedDocument
// that jsonpath.Resolve walks for parent/routing extraction.
func envelopeDoc(doc model.IndexedDocument) map[string]interface{} {
	meta := map[string]interface{}{
		"id":  doc.Meta.ID,
		"rev": doc.Meta.Rev,
	}
	if doc.Meta.Deleted {
		meta["deleted"] = true
	}
	if doc.Meta.Expiration != 0 {
		meta["expiration"] = doc.Meta.Expiration
	}
	if doc.Meta.AttReason != "" {
		meta["att_reason"] = doc.Meta.AttReason
	}
	return map[string]interface{}{
		"meta": meta,
		"doc":  map[string]interface{}(doc.Doc),
	}
}

// submitWithRetry implements the batching-and-retry rules: one bulk
// request per attempt, classify each failed item, retry the whole bulk on a
// transient verdict, give up immediately on a fatal one. A retry re-sends
// every op, including items that succeeded on the earlier attempt; this
// relies on each op being keyed by id.
func (e *BulkDocsEngine) submitWithRetry(ctx context.Context, ops []services.BulkOp) (*services.BulkResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= e.retries; attempt++ {
		resp, err := e.index.Bulk(ctx, ops)
		if err != nil {
			return nil, errors.NewFatalIndexError("", "bulk request failed", err)
		}
		if resp == nil {
			return nil, errors.NewFatalIndexError("", "bulk response was nil", nil)
		}

		transient, fatalItem := classify(resp)
		if fatalItem != nil {
			return nil, errors.NewFatalIndexError("", "bulk item failed fatally: "+fatalItem.Message, nil)
		}
		if !transient {
			return resp, nil
		}

		lastErr = errors.NewFatalIndexError("", "bulk retries exhausted after transient rejections", nil)

		if attempt == e.retries {
			break
		}

		if err := e.sleeper.Sleep(ctx, e.retryWait); err != nil {
			return nil, errors.NewFatalIndexError("", "interrupted during retry sleep", err)
		}
	}

	return nil, lastErr
}

// classify inspects a bulk response's failed items. transient is true when
// every failed item matches the non-fatal marker; fatalItem points at the
// first failed item that does not, if any.
func classify(resp *services.BulkResponse) (transient bool, fatalItem *services.BulkItemResult) {
	sawFailure := false
	for i := range resp.Items {
		item := &resp.Items[i]
		if !item.Failed {
			continue
		}
		sawFailure = true
		if !strings.Contains(item.Message, nonFatalMarker) {
			return false, item
		}
	}
	return sawFailure, nil
}
