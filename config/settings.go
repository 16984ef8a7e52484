// Package config provides configuration structures for the replication
// bridge. It defines the admission, retry, and type/parent/routing options
// recognized by the core.
package config

import (
	"fmt"
	"time"
)

// BridgeConfig holds every tunable the core reads. Zero values are usable
// defaults for most fields (no conflict resolution, no retries), but
// MaxConcurrentRequests == 0 is not "unbounded": internal/admission.Gate
// checks activeBulk+activeRevsDiff >= maxConcurrentRequests with no
// special case for zero, so a zero ceiling rejects every request.
// Validate flags this rather than letting it pass silently.
type BridgeConfig struct {
	CheckpointDocumentType    string            `json:"checkpoint_document_type"`     // index type used for checkpoint/UUID docs
	DocumentIDTypeSeparator   string            `json:"document_id_type_separator"`   // id prefix separator the default TypeSelector splits on
	ResolveConflicts          bool              `json:"resolve_conflicts"`            // enable revs-diff conflict resolution
	MaxConcurrentRequests     int               `json:"max_concurrent_requests"`      // admission ceiling
	BulkIndexRetries          int               `json:"bulk_index_retries"`           // retry budget for bulk-docs pushes
	BulkIndexRetryWaitMs      int               `json:"bulk_index_retry_wait_ms"`     // delay between retries, in milliseconds
	DocumentTypeParentFields  map[string]string `json:"document_type_parent_fields"`  // type -> dotted path for _parent
	DocumentTypeRoutingFields map[string]string `json:"document_type_routing_fields"` // type -> dotted path for _routing
}

// RetryWait returns BulkIndexRetryWaitMs as a time.Duration.
func (c *BridgeConfig) RetryWait() time.Duration {
	return time.Duration(c.BulkIndexRetryWaitMs) * time.Millisecond
}

// Validate reports configuration problems the core cannot safely run with,
// including any type whose parent and routing fields name the same path.
func (c *BridgeConfig) Validate() []string {
	var problems []string

	if c.MaxConcurrentRequests <= 0 {
		problems = append(problems, "max_concurrent_requests must be positive (zero rejects every request)")
	}
	if c.BulkIndexRetries < 0 {
		problems = append(problems, "bulk_index_retries must not be negative")
	}
	if c.BulkIndexRetryWaitMs < 0 {
		problems = append(problems, "bulk_index_retry_wait_ms must not be negative")
	}
	if c.CheckpointDocumentType == "" {
		problems = append(problems, "checkpoint_document_type must not be empty")
	}

	for typeName, parentField := range c.DocumentTypeParentFields {
		if routingField, ok := c.DocumentTypeRoutingFields[typeName]; ok && routingField == parentField {
			problems = append(problems, fmt.Sprintf("type %q has identical parent and routing fields %q", typeName, parentField))
		}
	}

	return problems
}
