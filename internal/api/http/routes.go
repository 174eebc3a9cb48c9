package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every REST endpoint on the router group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/shard-types", h.CreateShardType)
	api.GET("/shard-types", h.ListShardTypes)
	api.GET("/shard-types/:typeId", h.GetShardType)
	api.DELETE("/shard-types/:typeId", h.DeleteShardType)

	api.POST("/shards", h.CreateShard)
	api.GET("/shards", h.ListShards)
	api.GET("/shards/:id", h.GetShard)
	api.PUT("/shards/:id", h.UpdateShard)
	api.DELETE("/shards/:id", h.DeleteShard)

	api.POST("/dashboards", h.CreateDashboard)
	api.GET("/dashboards", h.ListDashboards)
	api.GET("/dashboards/:id", h.GetDashboard)
	api.PUT("/dashboards/:id", h.UpdateDashboard)
	api.DELETE("/dashboards/:id", h.DeleteDashboard)
	api.GET("/dashboards/date-range/:literal", h.ResolveDateRange)

	api.POST("/assembly/context", h.AssembleContext)
	api.POST("/assembly/invalidate", h.InvalidateAssemblyCache)
	api.POST("/assembly/estimate", h.EstimateTokens)
	api.POST("/assembly/vectorization/validate", h.ValidateVectorization)
	api.POST("/assembly/enrichment/validate", h.ValidateEnrichment)

	api.POST("/connections", h.CreateConnection)
	api.GET("/connections", h.ListConnections)
	api.GET("/connections/:id", h.GetConnection)
	api.DELETE("/connections/:id", h.DeleteConnection)
	api.POST("/connections/:id/sync", h.SyncConnection)
	api.GET("/adapters", h.ListAdapters)
	api.GET("/adapters/discover", h.DiscoverAdapters)

	api.POST("/documents", h.UploadDocument)
	api.GET("/documents", h.ListDocuments)
	api.GET("/documents/:id", h.GetDocument)
	api.GET("/documents/:id/chunks/:index", h.GetDocumentChunk)
	api.GET("/documents/:id/jobs", h.GetChunkJobs)
	api.DELETE("/documents/:id", h.DeleteDocument)

	api.GET("/audit", h.QueryAuditLog)

	api.POST("/models", h.RegisterModel)
	api.GET("/models", h.ListModels)
	api.POST("/models/:id/activate", h.ActivateModel)
	api.POST("/models/:id/retire", h.RetireModel)
	api.POST("/training-jobs", h.StartTrainingJob)
	api.GET("/training-jobs", h.ListTrainingJobs)
	api.POST("/training-jobs/:id/transition", h.TransitionTrainingJob)
	api.POST("/scores/summary", h.SummarizeScores)

	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.WhoAmI)
	api.POST("/auth/api-keys", h.CreateAPIKey)
	api.GET("/auth/api-keys", h.ListAPIKeys)
	api.DELETE("/auth/api-keys/:id", h.RevokeAPIKey)
}
