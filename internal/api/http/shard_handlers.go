package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
	"github.com/Edgame2/castiel2-sub001/internal/domain/shard"
	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
)

// CreateShardType handles POST /api/shard-types.
func (h *Handlers) CreateShardType(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var t shard.ShardType
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shard type payload"})
		return
	}
	t.TenantID = tenantID
	if err := h.Shards.CreateType(&t); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetShardType handles GET /api/shard-types/:typeId.
func (h *Handlers) GetShardType(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	t, found := h.Shards.GetType(tenantID, c.Param("typeId"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "shard type not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListShardTypes handles GET /api/shard-types.
func (h *Handlers) ListShardTypes(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"shardTypes": h.Shards.ListTypes(tenantID)})
}

// DeleteShardType handles DELETE /api/shard-types/:typeId.
func (h *Handlers) DeleteShardType(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	if err := h.Shards.DeleteType(tenantID, c.Param("typeId")); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// CreateShard handles POST /api/shards.
func (h *Handlers) CreateShard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var s shard.Shard
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shard payload"})
		return
	}
	s.TenantID = tenantID
	if err := h.Shards.Create(&s); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.Assembler.Invalidate(tenantID)
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventShardCreated,
		ActorID:    actor(c),
		ResourceID: s.ID,
	})
	c.JSON(http.StatusCreated, s)
}

// GetShard handles GET /api/shards/:id.
func (h *Handlers) GetShard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	s, found := h.Shards.Get(tenantID, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "shard not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// ListShards handles GET /api/shards?type=...&limit=...&offset=....
func (h *Handlers) ListShards(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var opts types.ListOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list options"})
		return
	}
	shards := h.Shards.List(tenantID, c.Query("type"), opts)
	c.JSON(http.StatusOK, gin.H{"shards": shards, "count": len(shards)})
}

// UpdateShard handles PUT /api/shards/:id.
func (h *Handlers) UpdateShard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var s shard.Shard
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shard payload"})
		return
	}
	s.TenantID = tenantID
	s.ID = c.Param("id")
	if err := h.Shards.Update(&s); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.Assembler.Invalidate(tenantID)
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventShardUpdated,
		ActorID:    actor(c),
		ResourceID: s.ID,
	})
	c.JSON(http.StatusOK, s)
}

// DeleteShard handles DELETE /api/shards/:id.
func (h *Handlers) DeleteShard(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Shards.Delete(tenantID, id); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	h.Assembler.Invalidate(tenantID)
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventShardDeleted,
		ActorID:    actor(c),
		ResourceID: id,
	})
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
