package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
	"github.com/Edgame2/castiel2-sub001/internal/domain/integration"
)

// CreateConnection handles POST /api/connections.
func (h *Handlers) CreateConnection(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var conn integration.Connection
	if err := c.ShouldBindJSON(&conn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection payload"})
		return
	}
	conn.TenantID = tenantID
	if err := h.Integrations.Create(&conn); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventConnectionCreated,
		ActorID:    actor(c),
		ResourceID: conn.ID,
	})
	c.JSON(http.StatusCreated, redacted(&conn))
}

// GetConnection handles GET /api/connections/:id.
func (h *Handlers) GetConnection(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	conn, err := h.Integrations.Get(tenantID, c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, redacted(conn))
}

// ListConnections handles GET /api/connections.
func (h *Handlers) ListConnections(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	conns := h.Integrations.List(tenantID)
	out := make([]integration.Connection, 0, len(conns))
	for _, conn := range conns {
		out = append(out, redacted(conn))
	}
	c.JSON(http.StatusOK, gin.H{"connections": out})
}

// DeleteConnection handles DELETE /api/connections/:id.
func (h *Handlers) DeleteConnection(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Integrations.Delete(tenantID, id); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventConnectionDeleted,
		ActorID:    actor(c),
		ResourceID: id,
	})
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SyncConnection handles POST /api/connections/:id/sync.
func (h *Handlers) SyncConnection(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventSyncStarted,
		ActorID:    actor(c),
		ResourceID: id,
	})

	result, err := h.Integrations.Sync(c.Request.Context(), tenantID, id)
	if err != nil {
		h.Audit.Record(audit.Entry{
			TenantID:   tenantID,
			Type:       audit.EventSyncFailed,
			ActorID:    actor(c),
			ResourceID: id,
			Outcome:    audit.OutcomeFailure,
			Details:    map[string]interface{}{"error": err.Error()},
		})
		fail(c, http.StatusBadGateway, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventSyncCompleted,
		ActorID:    actor(c),
		ResourceID: id,
		Details:    result.Data,
	})
	c.JSON(http.StatusOK, result)
}

// DiscoverAdapters handles GET /api/adapters/discover?intent=...&limit=....
func (h *Handlers) DiscoverAdapters(c *gin.Context) {
	intent := c.Query("intent")
	if intent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "intent query parameter required"})
		return
	}
	limit := 5
	if l, err := intQuery(c, "limit"); err == nil && l > 0 {
		limit = l
	}
	c.JSON(http.StatusOK, gin.H{"adapters": h.Integrations.Registry().Discover(intent, limit)})
}

// ListAdapters handles GET /api/adapters.
func (h *Handlers) ListAdapters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"adapters": h.Integrations.Registry().List(nil)})
}

func redacted(conn *integration.Connection) integration.Connection {
	out := *conn
	out.Credentials = conn.Credentials.Redact()
	return out
}
