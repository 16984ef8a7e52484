package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API.
type ErrorCode string

const (
	// Client error codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeDatabaseMissing  ErrorCode = "DATABASE_MISSING"
	ErrorCodeUUIDMismatch     ErrorCode = "UUIDS_DONT_MATCH"
	ErrorCodeUnsupported      ErrorCode = "OPERATION_NOT_SUPPORTED"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"

	// Server error codes (5xx)
	ErrorCodeAdmissionRejected ErrorCode = "TOO_MANY_CONCURRENT_REQUESTS"
	ErrorCodeFatalIndex        ErrorCode = "FATAL_INDEX_ERROR"
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response.
type APIError struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// APIErrorResponse creates a standardized error response.
func APIErrorResponse(code ErrorCode, message string) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response.
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string) {
	c.JSON(statusCode, APIErrorResponse(code, message))
}

// SendAdmissionRejectedError reports that the admission gate is full, the
// retryable error kind that tells the Source to back off.
func SendAdmissionRejectedError(c *gin.Context, endpoint string) {
	SendError(c, http.StatusServiceUnavailable, ErrorCodeAdmissionRejected,
		"too many concurrent requests: rejected "+endpoint)
}

// SendFatalIndexError reports an unretryable Index failure.
func SendFatalIndexError(c *gin.Context, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeFatalIndex, err.Error())
}

// SendDatabaseMissingError reports that the named index does not exist.
func SendDatabaseMissingError(c *gin.Context, db string) {
	SendError(c, http.StatusNotFound, ErrorCodeDatabaseMissing, "database '"+db+"' not found")
}

// SendUUIDMismatchError reports that the db ref's trailing ";<uuid>" does not
// match the index's current UUID, meaning the index was dropped and recreated.
func SendUUIDMismatchError(c *gin.Context, db string) {
	SendError(c, http.StatusNotFound, ErrorCodeUUIDMismatch, "database '"+db+"' was recreated: uuid does not match")
}

// SendUnsupportedOperationError reports a refused operation (create/delete
// database, attachments).
func SendUnsupportedOperationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeUnsupported, err.Error())
}

// SendInvalidJSONError reports an unparseable request body.
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "invalid JSON in request body: "+err.Error())
}

// SendInternalError reports an unclassified failure.
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"internal error during "+operation+": "+err.Error())
}
