package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/analytics"
	"github.com/Edgame2/castiel2-sub001/internal/domain/assembly"
	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
	"github.com/Edgame2/castiel2-sub001/internal/domain/auth"
	"github.com/Edgame2/castiel2-sub001/internal/domain/dashboard"
	"github.com/Edgame2/castiel2-sub001/internal/domain/document"
	"github.com/Edgame2/castiel2-sub001/internal/domain/integration"
	"github.com/Edgame2/castiel2-sub001/internal/domain/shard"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
)

// TenantHeader carries the tenant for every API request.
const TenantHeader = "X-Tenant-ID"

// Handlers bundles the domain managers behind the REST surface.
type Handlers struct {
	Shards       *shard.Manager
	Dashboards   *dashboard.Manager
	Assembler    *assembly.Assembler
	Integrations *integration.Manager
	Documents    *document.Ingestor
	Audit        *audit.Recorder
	Analytics    *analytics.Registry
	Auth         *auth.Provider
	Logger       *logging.Logger
}

// tenant resolves the request tenant, aborting with 400 when missing.
func tenant(c *gin.Context) (string, bool) {
	t := c.GetHeader(TenantHeader)
	if t == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + TenantHeader + " header"})
		return "", false
	}
	return t, true
}

// actor resolves the acting user, defaulting to anonymous.
func actor(c *gin.Context) string {
	if a := c.GetHeader("X-Actor-ID"); a != "" {
		return a
	}
	return "anonymous"
}

// fail writes a consistent error response. Tagged assembly errors keep
// their code and status; everything else becomes the fallback status.
func fail(c *gin.Context, fallback int, err error) {
	var tagged *assembly.Error
	if errors.As(err, &tagged) {
		c.JSON(tagged.StatusCode, gin.H{
			"error": tagged.Message,
			"code":  tagged.Code,
		})
		return
	}
	c.JSON(fallback, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Query(name))
}

func intParam(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}
