// Package fakeindex provides an in-memory services.IndexClient test double.
// It lets internal/uuidstore, internal/checkpoint, and internal/replication
// be exercised without a live Elasticsearch cluster.
package fakeindex

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/couchbase/capi-es-bridge/model"
	"github.com/couchbase/capi-es-bridge/services"
)

type key struct {
	index string
	typ   string
	id    string
}

// Client is a concurrency-safe, in-memory services.IndexClient. The zero
// value is not usable; construct with New.
type Client struct {
	mu      sync.Mutex
	indexes map[string]bool
	docs    map[key]model.IndexedDocument

	// FailBulkWith, when non-nil, makes every Bulk call return this error
	// instead of touching the store, which lets a test simulate a fatal
	// or transient Index outage.
	FailBulkWith error
}

// New constructs an empty fake with the given indexes pre-created.
func New(indexes ...string) *Client {
	c := &Client{
		indexes: make(map[string]bool),
		docs:    make(map[key]model.IndexedDocument),
	}
	for _, idx := range indexes {
		c.indexes[idx] = true
	}
	return c
}

// CreateIndex marks an index as existing, as if it had been created
// out-of-band by an administrator.
func (c *Client) CreateIndex(index string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[index] = true
}

// Seed directly stores a document, bypassing Bulk, for test setup.
func (c *Client) Seed(index, typ, id string, doc model.IndexedDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[index] = true
	c.docs[key{index, typ, id}] = doc
}

func (c *Client) Exists(_ context.Context, index string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexes[index], nil
}

func (c *Client) Get(_ context.Context, source services.IndexSource) (services.GetResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[key{source.Index, source.Type, source.ID}]
	if !ok {
		return services.GetResult{Found: false}, nil
	}
	return services.GetResult{Found: true, Source: doc}, nil
}

func (c *Client) MultiGet(ctx context.Context, sources []services.IndexSource) ([]services.GetResult, error) {
	results := make([]services.GetResult, 0, len(sources))
	for _, s := range sources {
		r, err := c.Get(ctx, s)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *Client) Bulk(_ context.Context, ops []services.BulkOp) (*services.BulkResponse, error) {
	if c.FailBulkWith != nil {
		return nil, c.FailBulkWith
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	resp := &services.BulkResponse{Items: make([]services.BulkItemResult, 0, len(ops))}
	for _, op := range ops {
		k := key{op.Source.Index, op.Source.Type, op.Source.ID}

		if op.Delete {
			delete(c.docs, k)
			resp.Items = append(resp.Items, services.BulkItemResult{Source: op.Source})
			continue
		}

		if op.Index.CreateOnly {
			if _, exists := c.docs[k]; exists {
				resp.Items = append(resp.Items, services.BulkItemResult{
					Source:  op.Source,
					Failed:  true,
					Message: fmt.Sprintf("document already exists: %s/%s/%s", k.index, k.typ, k.id),
				})
				continue
			}
		}

		doc, err := normalizeIndexedDocument(op.Index.Doc)
		if err != nil {
			resp.Items = append(resp.Items, services.BulkItemResult{
				Source:  op.Source,
				Failed:  true,
				Message: err.Error(),
			})
			continue
		}

		c.docs[k] = doc
		resp.Items = append(resp.Items, services.BulkItemResult{Source: op.Source})
	}

	return resp, nil
}

// normalizeIndexedDocument returns a model.IndexedDocument as given and
// round-trips any other op.Index.Doc through JSON the same way a real Index
// backend's wire encoding would, so a model.CheckpointDoc
// (no "meta" sibling) comes back out with a zero-value Meta instead of
// silently keeping whatever Go type the caller happened to pass in.
func normalizeIndexedDocument(doc interface{}) (model.IndexedDocument, error) {
	if indexed, ok := doc.(model.IndexedDocument); ok {
		return indexed, nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return model.IndexedDocument{}, fmt.Errorf("fakeindex: could not marshal doc: %w", err)
	}
	var indexed model.IndexedDocument
	if err := json.Unmarshal(raw, &indexed); err != nil {
		return model.IndexedDocument{}, fmt.Errorf("fakeindex: could not unmarshal doc: %w", err)
	}
	return indexed, nil
}
