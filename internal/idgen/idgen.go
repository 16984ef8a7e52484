// Package idgen implements services.UUIDGenerator on top of
// github.com/google/uuid, already a teacher dependency used there for job
// identifiers.
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// Generator is the default services.UUIDGenerator.
type Generator struct{}

// New constructs a Generator.
func New() Generator {
	return Generator{}
}

// NewHex returns a fresh UUID as 32 hex characters with no dashes.
func (Generator) NewHex() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// NewRevision returns a synthesized local-doc revision of the form
// "1-<uuid>".
func (Generator) NewRevision() string {
	return "1-" + uuid.New().String()
}
