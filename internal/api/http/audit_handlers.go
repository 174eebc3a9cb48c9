package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
)

// QueryAuditLog handles GET /api/audit?type=...&actor=...&from=...&to=...&limit=....
func (h *Handlers) QueryAuditLog(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	q := audit.Query{
		TenantID: tenantID,
		Type:     audit.EventType(c.Query("type")),
		ActorID:  c.Query("actor"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		q.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}
		q.To = t
	}
	if l, err := intQuery(c, "limit"); err == nil {
		q.Limit = l
	}

	entries := h.Audit.Query(q)
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
