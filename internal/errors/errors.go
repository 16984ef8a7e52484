// Package errors defines the typed error kinds the replication core raises.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds every core operation can raise.
var (
	// ErrAdmissionRejected is returned when the admission gate is full.
	ErrAdmissionRejected = errors.New("too many concurrent requests")

	// ErrFatalIndex is returned when a bulk item fails with a non-retryable
	// message, the bulk response is nil, or retries are exhausted.
	ErrFatalIndex = errors.New("fatal index error")

	// ErrUnsupportedOperation is returned for createDatabase, deleteDatabase,
	// and attachment operations, which the bridge refuses outright.
	ErrUnsupportedOperation = errors.New("operation not supported")

	// ErrUUIDReconcileFailed is returned when a bucket or vbucket UUID could
	// not be read or created after the retry budget is exhausted.
	ErrUUIDReconcileFailed = errors.New("could not reconcile bucket uuid")

	// ErrInvalidInput is returned when a request fails basic validation.
	ErrInvalidInput = errors.New("invalid input")
)

// AdmissionRejectedError carries the endpoint that was rejected.
type AdmissionRejectedError struct {
	Endpoint string
}

func (e *AdmissionRejectedError) Error() string {
	return fmt.Sprintf("too many concurrent requests: rejected %s", e.Endpoint)
}

func (e *AdmissionRejectedError) Is(target error) bool {
	return target == ErrAdmissionRejected
}

// NewAdmissionRejectedError creates a new AdmissionRejectedError.
func NewAdmissionRejectedError(endpoint string) *AdmissionRejectedError {
	return &AdmissionRejectedError{Endpoint: endpoint}
}

// FatalIndexError wraps the underlying Index failure that could not be
// retried away.
type FatalIndexError struct {
	Database string
	Reason   string
	Cause    error
}

func (e *FatalIndexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fatal index error for database '%s': %s: %v", e.Database, e.Reason, e.Cause)
	}
	return fmt.Sprintf("fatal index error for database '%s': %s", e.Database, e.Reason)
}

func (e *FatalIndexError) Is(target error) bool {
	return target == ErrFatalIndex
}

func (e *FatalIndexError) Unwrap() error {
	return e.Cause
}

// NewFatalIndexError creates a new FatalIndexError.
func NewFatalIndexError(database, reason string, cause error) *FatalIndexError {
	return &FatalIndexError{Database: database, Reason: reason, Cause: cause}
}

// UnsupportedOperationError names the operation that was refused.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation '%s' is not supported: indexes are managed externally", e.Operation)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError.
func NewUnsupportedOperationError(operation string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Operation: operation}
}

// UUIDReconcileError carries the bucket (and optional vbucket) whose UUID
// could not be reconciled, plus how many attempts were made.
type UUIDReconcileError struct {
	Bucket   string
	VBucket  *int
	Attempts int
}

func (e *UUIDReconcileError) Error() string {
	if e.VBucket != nil {
		return fmt.Sprintf("could not reconcile uuid for bucket '%s' vbucket %d after %d attempts", e.Bucket, *e.VBucket, e.Attempts)
	}
	return fmt.Sprintf("could not reconcile uuid for bucket '%s' after %d attempts", e.Bucket, e.Attempts)
}

func (e *UUIDReconcileError) Is(target error) bool {
	return target == ErrUUIDReconcileFailed
}

// NewUUIDReconcileError creates a new UUIDReconcileError.
func NewUUIDReconcileError(bucket string, vbucket *int, attempts int) *UUIDReconcileError {
	return &UUIDReconcileError{Bucket: bucket, VBucket: vbucket, Attempts: attempts}
}

// ValidationError represents an input validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
