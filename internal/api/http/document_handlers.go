package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/integration"
)

// UploadDocument handles POST /api/documents: direct ingestion of a
// raw document body, bypassing any connection.
func (h *Handlers) UploadDocument(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	ref := c.Query("ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ref query parameter required"})
		return
	}
	content, err := io.ReadAll(c.Request.Body)
	if err != nil || len(content) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty document body"})
		return
	}

	src := integration.SourceDocument{
		ExternalRef: ref,
		Source:      "upload",
		MediaType:   c.ContentType(),
		Content:     content,
	}
	if err := h.Documents.Ingest(c.Request.Context(), tenantID, src); err != nil {
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "ref": ref})
}

// GetDocument handles GET /api/documents/:id.
func (h *Handlers) GetDocument(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	doc, err := h.Documents.Get(tenantID, c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ListDocuments handles GET /api/documents.
func (h *Handlers) ListDocuments(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": h.Documents.List(tenantID)})
}

// GetDocumentChunk handles GET /api/documents/:id/chunks/:index.
func (h *Handlers) GetDocumentChunk(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	index, err := intParam(c, "index")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chunk index"})
		return
	}
	text, err := h.Documents.Chunk(tenantID, c.Param("id"), index)
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "text": text})
}

// GetChunkJobs handles GET /api/documents/:id/jobs.
func (h *Handlers) GetChunkJobs(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	jobs, err := h.Documents.ChunkJobs(tenantID, c.Param("id"), 3)
	if err != nil {
		fail(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// DeleteDocument handles DELETE /api/documents/:id.
func (h *Handlers) DeleteDocument(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	if err := h.Documents.Delete(tenantID, c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
