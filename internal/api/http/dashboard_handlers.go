package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/dashboard"
)

// CreateDashboard handles POST /api/dashboards.
func (h *Handlers) CreateDashboard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var d dashboard.Dashboard
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dashboard payload"})
		return
	}
	d.TenantID = tenantID
	if d.Permissions.OwnerID == "" {
		d.Permissions.OwnerID = actor(c)
	}
	if err := h.Dashboards.Create(&d); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// GetDashboard handles GET /api/dashboards/:id.
func (h *Handlers) GetDashboard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	d, err := h.Dashboards.Get(tenantID, c.Param("id"), actor(c))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// ListDashboards handles GET /api/dashboards.
func (h *Handlers) ListDashboards(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboards": h.Dashboards.List(tenantID, actor(c))})
}

// UpdateDashboard handles PUT /api/dashboards/:id.
func (h *Handlers) UpdateDashboard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var d dashboard.Dashboard
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dashboard payload"})
		return
	}
	d.TenantID = tenantID
	d.ID = c.Param("id")
	if err := h.Dashboards.Update(&d, actor(c)); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DeleteDashboard handles DELETE /api/dashboards/:id.
func (h *Handlers) DeleteDashboard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	if err := h.Dashboards.Delete(tenantID, c.Param("id"), actor(c)); err != nil {
		fail(c, http.StatusForbidden, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ResolveDateRange handles GET /api/dashboards/date-range/:literal.
func (h *Handlers) ResolveDateRange(c *gin.Context) {
	rel := dashboard.RelativeDate(c.Param("literal"))
	if err := rel.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	resolved, err := rel.Resolve(time.Now())
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}
