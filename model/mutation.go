package model

// Meta carries the per-document replication metadata the Source attaches to
// every mutation. It travels verbatim into the Index as part of
// IndexedDocument so that a later read can recover the authoritative
// revision for conflict checking.
type Meta struct {
	ID         string `json:"id"`
	Rev        string `json:"rev"`
	Deleted    bool   `json:"deleted,omitempty"`
	Expiration int64  `json:"expiration,omitempty"`
	AttReason  string `json:"att_reason,omitempty"`
}

// NonJSONMode is the att_reason value that tells the bulk-docs engine the
// payload carries no usable JSON body.
const NonJSONMode = "non-JSON mode"

// Mutation is one entry of a _bulk_docs push. Exactly one of JSON/Base64
// carries the payload, unless Meta.AttReason is NonJSONMode or Meta.Deleted
// is true, in which case the payload is empty or ignored respectively.
type Mutation struct {
	Meta   *Meta    `json:"meta"`
	JSON   Document `json:"json,omitempty"`
	Base64 *string  `json:"base64,omitempty"`
}

// IndexedDocument is what actually gets written to the Index for a live
// (non-deleted) mutation. The two-level envelope is load-bearing: conflict
// resolution reads Meta.Rev back out of a stored document, and parent/routing
// extraction walks dotted paths starting at this struct's JSON projection.
type IndexedDocument struct {
	Meta Meta     `json:"meta"`
	Doc  Document `json:"doc"`
}

// CheckpointDoc is the storage envelope used for both Source-initiated
// checkpoints and the bucket/vbucket UUID documents.
type CheckpointDoc struct {
	Doc Document `json:"doc"`
}

// Ack is one entry of a _bulk_docs response: the Source-authoritative
// revision for a successfully written (or deleted) mutation.
type Ack struct {
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// Missing is the value half of a _revs_diff response entry.
type Missing struct {
	Missing string `json:"missing"`
}
