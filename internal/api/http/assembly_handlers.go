package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/assembly"
	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
)

// assembleRequest binds the context assembly endpoint.
type assembleRequest struct {
	Query        string                 `json:"query" binding:"required"`
	ShardTypeIDs []string               `json:"shardTypeIds"`
	TopK         int                    `json:"topK"`
	Candidates   []assembly.ContextItem `json:"candidates"`
}

// AssembleContext handles POST /api/assembly/context.
func (h *Handlers) AssembleContext(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var req assembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assembly request"})
		return
	}
	if req.TopK <= 0 {
		req.TopK = 20
	}

	ctx, err := h.Assembler.Assemble(assembly.QueryRequest{
		TenantID:     tenantID,
		Query:        req.Query,
		ShardTypeIDs: req.ShardTypeIDs,
		TopK:         req.TopK,
	}, req.Candidates)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID: tenantID,
		Type:     audit.EventContextAssembled,
		ActorID:  actor(c),
		Details: map[string]interface{}{
			"tokens_used": ctx.TokensUsed,
			"items":       len(ctx.Items),
			"cache_hit":   ctx.CacheHit,
		},
	})
	c.JSON(http.StatusOK, ctx)
}

// InvalidateAssemblyCache handles POST /api/assembly/invalidate.
func (h *Handlers) InvalidateAssemblyCache(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	removed := h.Assembler.Invalidate(tenantID)
	c.JSON(http.StatusOK, gin.H{"invalidated": removed})
}

// EstimateTokens handles POST /api/assembly/estimate.
func (h *Handlers) EstimateTokens(c *gin.Context) {
	var req struct {
		Text  string `json:"text"`
		Model string `json:"model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate request"})
		return
	}
	model := assembly.EmbeddingModel(req.Model)
	if req.Model == "" {
		model = assembly.DefaultEmbeddingModel
	}
	tokens := assembly.EstimateTokens(req.Text)
	cost, err := assembly.EmbeddingCost(tokens, model)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"model":  model,
		"cost":   cost,
	})
}

// ValidateVectorization handles POST /api/assembly/vectorization/validate.
func (h *Handlers) ValidateVectorization(c *gin.Context) {
	var cfg assembly.VectorizationConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vectorization config payload"})
		return
	}
	errs := assembly.ValidateVectorizationConfig(cfg)
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": errs})
}

// ValidateEnrichment handles POST /api/assembly/enrichment/validate.
func (h *Handlers) ValidateEnrichment(c *gin.Context) {
	var cfg assembly.EnrichmentConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enrichment config payload"})
		return
	}
	errs := assembly.ValidateEnrichmentConfig(cfg)
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": errs})
}
