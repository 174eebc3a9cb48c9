package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
)

// Login handles POST /api/auth/login. Identity verification is
// delegated to the upstream IdP; this endpoint exchanges a verified
// subject for a session token.
func (h *Handlers) Login(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var req struct {
		Subject string   `json:"subject" binding:"required"`
		Roles   []string `json:"roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Audit.Record(audit.Entry{
			TenantID: tenantID,
			Type:     audit.EventLoginFailure,
			ActorID:  "unknown",
			Outcome:  audit.OutcomeFailure,
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject is required"})
		return
	}

	session := h.Auth.IssueSession(req.Subject, tenantID, req.Roles)
	h.Audit.Record(audit.Entry{
		TenantID: tenantID,
		Type:     audit.EventLoginSuccess,
		ActorID:  req.Subject,
	})
	c.JSON(http.StatusOK, session)
}

// Logout handles POST /api/auth/logout.
func (h *Handlers) Logout(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing bearer token"})
		return
	}
	h.Auth.RevokeSession(token)
	h.Audit.Record(audit.Entry{
		TenantID: tenantID,
		Type:     audit.EventLogout,
		ActorID:  actor(c),
	})
	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}

// WhoAmI handles GET /api/auth/me.
func (h *Handlers) WhoAmI(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	claims, err := h.Auth.VerifySession(token)
	if err != nil {
		claims, err = h.Auth.VerifyAPIKey(token)
	}
	if err != nil {
		fail(c, http.StatusUnauthorized, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

// CreateAPIKey handles POST /api/auth/api-keys.
func (h *Handlers) CreateAPIKey(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	var req struct {
		Name  string   `json:"name" binding:"required"`
		Roles []string `json:"roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	key, secret, err := h.Auth.CreateAPIKey(tenantID, req.Name, req.Roles)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventAPIKeyCreated,
		ActorID:    actor(c),
		ResourceID: key.ID,
	})
	// The plaintext secret appears in this response only.
	c.JSON(http.StatusCreated, gin.H{"key": key, "secret": secret})
}

// ListAPIKeys handles GET /api/auth/api-keys.
func (h *Handlers) ListAPIKeys(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": h.Auth.ListAPIKeys(tenantID)})
}

// RevokeAPIKey handles DELETE /api/auth/api-keys/:id.
func (h *Handlers) RevokeAPIKey(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Auth.RevokeAPIKey(tenantID, id); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	h.Audit.Record(audit.Entry{
		TenantID:   tenantID,
		Type:       audit.EventAPIKeyRevoked,
		ActorID:    actor(c),
		ResourceID: id,
	})
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
