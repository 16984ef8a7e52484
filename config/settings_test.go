package config

import "testing"

func TestValidateRejectsNegativeValues(t *testing.T) {
	cfg := BridgeConfig{
		CheckpointDocumentType: "couchbaseCheckpoint",
		MaxConcurrentRequests:  -1,
		BulkIndexRetries:       -2,
		BulkIndexRetryWaitMs:   -3,
	}

	problems := cfg.Validate()
	if len(problems) != 3 {
		t.Fatalf("len(problems) = %d, want 3: %v", len(problems), problems)
	}
}

func TestValidateRejectsEmptyCheckpointType(t *testing.T) {
	cfg := BridgeConfig{}
	problems := cfg.Validate()

	found := false
	for _, p := range problems {
		if p == "checkpoint_document_type must not be empty" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a checkpoint_document_type problem, got %v", problems)
	}
}

func TestValidateRejectsParentRoutingCollision(t *testing.T) {
	cfg := BridgeConfig{
		CheckpointDocumentType: "couchbaseCheckpoint",
		MaxConcurrentRequests:  32,
		DocumentTypeParentFields: map[string]string{
			"order": "customer.id",
		},
		DocumentTypeRoutingFields: map[string]string{
			"order": "customer.id",
		},
	}

	problems := cfg.Validate()
	if len(problems) != 1 {
		t.Fatalf("len(problems) = %d, want 1: %v", len(problems), problems)
	}
}

func TestValidateAcceptsZeroRetriesWithPositiveCeiling(t *testing.T) {
	cfg := BridgeConfig{CheckpointDocumentType: "couchbaseCheckpoint", MaxConcurrentRequests: 32}
	if problems := cfg.Validate(); len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

func TestValidateRejectsZeroMaxConcurrentRequests(t *testing.T) {
	cfg := BridgeConfig{CheckpointDocumentType: "couchbaseCheckpoint"}
	problems := cfg.Validate()

	found := false
	for _, p := range problems {
		if p == "max_concurrent_requests must be positive (zero rejects every request)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a max_concurrent_requests problem, got %v", problems)
	}
}

func TestRetryWaitConvertsMillisToDuration(t *testing.T) {
	cfg := BridgeConfig{BulkIndexRetryWaitMs: 250}
	if got, want := cfg.RetryWait().Milliseconds(), int64(250); got != want {
		t.Fatalf("RetryWait() = %dms, want %dms", got, want)
	}
}
