// Package esclient is the default services.IndexClient, backed by a real
// Elasticsearch cluster through github.com/olivere/elastic/v7. It is wired
// from cmd/capi-es-bridge/main.go and never imported by internal/replication,
// internal/uuidstore, or internal/checkpoint, which only see the
// services.IndexClient interface.
package esclient

import (
	"context"
	"encoding/json"
	"fmt"

	elastic "github.com/olivere/elastic/v7"

	"github.com/couchbase/capi-es-bridge/model"
	"github.com/couchbase/capi-es-bridge/services"
)

// Client adapts an *elastic.Client to services.IndexClient.
type Client struct {
	es *elastic.Client
}

// New wraps an already-constructed *elastic.Client.
func New(es *elastic.Client) *Client {
	return &Client{es: es}
}

// Dial constructs an *elastic.Client pointed at url and wraps it.
func Dial(url string) (*Client, error) {
	es, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, fmt.Errorf("esclient: could not dial %s: %w", url, err)
	}
	return New(es), nil
}

func (c *Client) Exists(ctx context.Context, index string) (bool, error) {
	exists, err := c.es.IndexExists(index).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("esclient: index exists check failed for %q: %w", index, err)
	}
	return exists, nil
}

func (c *Client) Get(ctx context.Context, source services.IndexSource) (services.GetResult, error) {
	res, err := c.es.Get().Index(source.Index).Type(source.Type).Id(source.ID).Do(ctx)
	if elastic.IsNotFound(err) {
		return services.GetResult{Found: false}, nil
	}
	if err != nil {
		return services.GetResult{}, fmt.Errorf("esclient: get failed for %s/%s/%s: %w", source.Index, source.Type, source.ID, err)
	}
	if res == nil || !res.Found || res.Source == nil {
		return services.GetResult{Found: false}, nil
	}

	doc, err := decodeIndexedDocument(res.Source)
	if err != nil {
		return services.GetResult{}, err
	}
	return services.GetResult{Found: true, Source: doc}, nil
}

func (c *Client) MultiGet(ctx context.Context, sources []services.IndexSource) ([]services.GetResult, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	mget := c.es.MultiGet()
	for _, s := range sources {
		mget = mget.Add(elastic.NewMultiGetItem().Index(s.Index).Type(s.Type).Id(s.ID))
	}

	res, err := mget.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("esclient: multi-get failed: %w", err)
	}

	results := make([]services.GetResult, len(sources))
	for i, doc := range res.Docs {
		if i >= len(results) {
			break
		}
		if doc == nil || !doc.Found || doc.Source == nil {
			continue
		}
		indexed, err := decodeIndexedDocument(doc.Source)
		if err != nil {
			return nil, err
		}
		results[i] = services.GetResult{Found: true, Source: indexed}
	}
	return results, nil
}

func (c *Client) Bulk(ctx context.Context, ops []services.BulkOp) (*services.BulkResponse, error) {
	if len(ops) == 0 {
		return &services.BulkResponse{}, nil
	}

	bulk := c.es.Bulk()
	for _, op := range ops {
		if op.Delete {
			bulk = bulk.Add(elastic.NewBulkDeleteRequest().
				Index(op.Source.Index).
				Type(op.Source.Type).
				Id(op.Source.ID))
			continue
		}

		req := elastic.NewBulkIndexRequest().
			Index(op.Source.Index).
			Type(op.Source.Type).
			Id(op.Source.ID).
			Doc(op.Index.Doc)

		if op.Index.CreateOnly {
			req = req.OpType("create")
		}
		// Elasticsearch dropped per-document TTL after 5.x; TTLMillis is
		// carried through services.BulkIndexOp for index backends that still
		// support it (ttlMillis is still computed per the source protocol's
		// semantics) but this adapter has no per-doc knob to set it on.
		if op.Index.Parent != "" {
			req = req.Parent(op.Index.Parent)
		}
		if op.Index.Routing != "" {
			req = req.Routing(op.Index.Routing)
		}

		bulk = bulk.Add(req)
	}

	res, err := bulk.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("esclient: bulk request failed: %w", err)
	}
	if res == nil {
		return nil, nil
	}

	items := make([]services.BulkItemResult, 0, len(ops))
	for i, op := range ops {
		failureMessage := ""
		failed := false
		if i < len(res.Items) {
			for _, byAction := range res.Items[i] {
				if byAction.Error != nil {
					failed = true
					failureMessage = byAction.Error.Reason
					if byAction.Error.Type != "" {
						failureMessage = byAction.Error.Type + ": " + failureMessage
					}
				}
			}
		}
		items = append(items, services.BulkItemResult{
			Source:  op.Source,
			Failed:  failed,
			Message: failureMessage,
		})
	}

	return &services.BulkResponse{Items: items}, nil
}

func decodeIndexedDocument(raw json.RawMessage) (model.IndexedDocument, error) {
	var doc model.IndexedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.IndexedDocument{}, fmt.Errorf("esclient: could not decode stored document: %w", err)
	}
	return doc, nil
}
