package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/couchbase/capi-es-bridge/internal/bridge"
	apierrors "github.com/couchbase/capi-es-bridge/internal/errors"
	"github.com/couchbase/capi-es-bridge/model"
)

// CapiHandlers adapts bridge.Bridge's plain-Go methods to gin handlers,
// translating HTTP request/response shapes and mapping core error kinds to
// status codes.
type CapiHandlers struct {
	bridge *bridge.Bridge
}

// NewCapiHandlers constructs a CapiHandlers bound to the given bridge.
func NewCapiHandlers(b *bridge.Bridge) *CapiHandlers {
	return &CapiHandlers{bridge: b}
}

// Welcome handles GET /.
func (h *CapiHandlers) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, h.bridge.Welcome())
}

// DatabaseExists handles HEAD /<db>.
func (h *CapiHandlers) DatabaseExists(c *gin.Context) {
	db := c.Param("db")

	reason, err := h.bridge.DatabaseExists(c.Request.Context(), db)
	if err != nil {
		h.writeError(c, err)
		return
	}

	switch reason {
	case "":
		c.Status(http.StatusOK)
	case "missing", "uuids_dont_match":
		c.Status(http.StatusNotFound)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

// GetDatabaseDetails handles GET /<db>.
func (h *CapiHandlers) GetDatabaseDetails(c *gin.Context) {
	db := c.Param("db")

	details, reason, err := h.bridge.GetDatabaseDetails(c.Request.Context(), db)
	if err != nil {
		h.writeError(c, err)
		return
	}
	switch reason {
	case "":
		// found
	case "uuids_dont_match":
		SendUUIDMismatchError(c, db)
		return
	default:
		SendDatabaseMissingError(c, db)
		return
	}

	c.JSON(http.StatusOK, details)
}

// EnsureFullCommit handles POST /<db>/_ensure_full_commit.
func (h *CapiHandlers) EnsureFullCommit(c *gin.Context) {
	db := c.Param("db")
	if err := h.bridge.EnsureFullCommit(c.Request.Context(), db); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateDatabase handles PUT /<db> — always refused.
func (h *CapiHandlers) CreateDatabase(c *gin.Context) {
	db := c.Param("db")
	if err := h.bridge.CreateDatabase(c.Request.Context(), db); err != nil {
		h.writeError(c, err)
	}
}

// DeleteDatabase handles DELETE /<db> — always refused.
func (h *CapiHandlers) DeleteDatabase(c *gin.Context) {
	db := c.Param("db")
	if err := h.bridge.DeleteDatabase(c.Request.Context(), db); err != nil {
		h.writeError(c, err)
	}
}

// RevsDiff handles POST /<db>/_revs_diff.
func (h *CapiHandlers) RevsDiff(c *gin.Context) {
	db := c.Param("db")

	var candidates map[string]string
	if err := c.ShouldBindJSON(&candidates); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	result, err := h.bridge.RevsDiff(c.Request.Context(), db, candidates)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bulkDocsRequest is the body shape of POST /<db>/_bulk_docs.
type bulkDocsRequest struct {
	Docs []model.Mutation `json:"docs"`
}

// BulkDocs handles POST /<db>/_bulk_docs.
func (h *CapiHandlers) BulkDocs(c *gin.Context) {
	db := c.Param("db")

	var req bulkDocsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	acks, err := h.bridge.BulkDocs(c.Request.Context(), db, req.Docs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, acks)
}

// GetLocalDoc handles GET /<db>/_local/<id>.
func (h *CapiHandlers) GetLocalDoc(c *gin.Context) {
	db := c.Param("db")
	id := c.Param("localID")

	doc, found, err := h.bridge.GetLocalDoc(c.Request.Context(), db, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		SendError(c, http.StatusNotFound, ErrorCodeDatabaseMissing, "local doc '"+id+"' not found")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// PutLocalDoc handles PUT /<db>/_local/<id>.
func (h *CapiHandlers) PutLocalDoc(c *gin.Context) {
	db := c.Param("db")
	id := c.Param("localID")

	var payload model.Document
	if err := c.ShouldBindJSON(&payload); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	rev, err := h.bridge.PutLocalDoc(c.Request.Context(), db, id, payload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "rev": rev, "ok": true})
}

// writeError maps a core error kind to its HTTP status code.
func (h *CapiHandlers) writeError(c *gin.Context, err error) {
	var admissionErr *apierrors.AdmissionRejectedError
	if stderrors.As(err, &admissionErr) {
		SendAdmissionRejectedError(c, admissionErr.Endpoint)
		return
	}

	var unsupportedErr *apierrors.UnsupportedOperationError
	if stderrors.As(err, &unsupportedErr) {
		SendUnsupportedOperationError(c, err)
		return
	}

	var fatalErr *apierrors.FatalIndexError
	if stderrors.As(err, &fatalErr) {
		SendFatalIndexError(c, err)
		return
	}

	var uuidErr *apierrors.UUIDReconcileError
	if stderrors.As(err, &uuidErr) {
		SendFatalIndexError(c, err)
		return
	}

	SendInternalError(c, "request", err)
}
