package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/analytics"
	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
)

// RegisterModel handles POST /api/models.
func (h *Handlers) RegisterModel(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var m analytics.Model
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model payload"})
		return
	}
	m.TenantID = tenantID
	if err := h.Analytics.RegisterModel(&m); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventModelTrained,
		ActorID:    actor(c),
		ResourceID: m.ID,
		Details:    map[string]interface{}{"kind": m.Kind, "version": m.Version},
	})
	c.JSON(http.StatusCreated, m)
}

// ListModels handles GET /api/models?kind=....
func (h *Handlers) ListModels(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var kind *analytics.ModelKind
	if k := c.Query("kind"); k != "" {
		mk := analytics.ModelKind(k)
		if !analytics.KnownKind(mk) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown model kind"})
			return
		}
		kind = &mk
	}
	c.JSON(http.StatusOK, gin.H{"models": h.Analytics.ListModels(tenantID, kind)})
}

// ActivateModel handles POST /api/models/:id/activate.
func (h *Handlers) ActivateModel(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Analytics.Activate(tenantID, id); err != nil {
		fail(c, http.StatusConflict, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventModelActivated,
		ActorID:    actor(c),
		ResourceID: id,
	})
	c.JSON(http.StatusOK, gin.H{"activated": true})
}

// RetireModel handles POST /api/models/:id/retire.
func (h *Handlers) RetireModel(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Analytics.Retire(tenantID, id); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventModelRetired,
		ActorID:    actor(c),
		ResourceID: id,
	})
	c.JSON(http.StatusOK, gin.H{"retired": true})
}

// StartTrainingJob handles POST /api/training-jobs.
func (h *Handlers) StartTrainingJob(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var req struct {
		Kind analytics.ModelKind `json:"kind" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}
	job, err := h.Analytics.StartJob(tenantID, req.Kind)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// ListTrainingJobs handles GET /api/training-jobs.
func (h *Handlers) ListTrainingJobs(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": h.Analytics.ListJobs(tenantID)})
}

// TransitionTrainingJob handles POST /api/training-jobs/:id/transition.
func (h *Handlers) TransitionTrainingJob(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var req struct {
		Status analytics.JobStatus `json:"status" binding:"required"`
		Detail string              `json:"detail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if err := h.Analytics.TransitionJob(tenantID, c.Param("id"), req.Status, req.Detail); err != nil {
		fail(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transitioned": true})
}

// SummarizeScores handles POST /api/scores/summary.
func (h *Handlers) SummarizeScores(c *gin.Context) {
	var req struct {
		Scores []float64 `json:"scores" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scores are required"})
		return
	}
	summary, err := analytics.Summarize(req.Scores)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
