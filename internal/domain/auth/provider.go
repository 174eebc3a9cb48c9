package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long issued sessions live.
const DefaultSessionTTL = 24 * time.Hour

// Provider issues and verifies sessions and API keys. Stored records
// are immutable once published; updates replace the stored value so
// concurrent readers never observe a write in progress.
type Provider struct {
	sessions   sync.Map // token -> *Session
	apiKeys    sync.Map // id -> *APIKey
	sessionTTL time.Duration
	logger     *logging.Logger
}

// NewProvider creates a provider with the given session TTL; a
// non-positive TTL uses DefaultSessionTTL.
func NewProvider(sessionTTL time.Duration, logger *logging.Logger) *Provider {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Provider{
		sessionTTL: sessionTTL,
		logger:     logger.Named("auth"),
	}
}

// IssueSession creates a session for a verified identity.
func (p *Provider) IssueSession(subject, tenantID string, roles []string) *Session {
	now := time.Now().UTC()
	session := &Session{
		Token: generateToken(),
		Claims: AccessClaims{
			Subject:   subject,
			TenantID:  tenantID,
			Roles:     roles,
			ExpiresAt: now.Add(p.sessionTTL),
		},
		CreatedAt: now,
	}
	p.sessions.Store(session.Token, session)
	p.logger.Info("session issued",
		zap.String("subject", subject),
		zap.String("tenant_id", tenantID),
	)
	return session
}

// VerifySession resolves a bearer token to its claims. Expired
// sessions are dropped on verification.
func (p *Provider) VerifySession(token string) (*AccessClaims, error) {
	val, ok := p.sessions.Load(token)
	if !ok {
		return nil, fmt.Errorf("invalid session token")
	}
	session := val.(*Session)
	if session.Claims.Expired(time.Now()) {
		p.sessions.Delete(token)
		return nil, fmt.Errorf("session expired")
	}
	claims := session.Claims
	return &claims, nil
}

// RevokeSession invalidates a token.
func (p *Provider) RevokeSession(token string) {
	p.sessions.Delete(token)
}

// CreateAPIKey registers a new API key and returns the record plus the
// plaintext secret. The secret is not recoverable afterwards.
func (p *Provider) CreateAPIKey(tenantID, name string, roles []string) (*APIKey, string, error) {
	secret := generateToken()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing api key secret: %w", err)
	}

	key := &APIKey{
		ID:         generateID(),
		TenantID:   tenantID,
		Name:       name,
		SecretHash: string(hash),
		Roles:      roles,
		CreatedAt:  time.Now().UTC(),
	}
	p.apiKeys.Store(key.ID, key)
	p.logger.Info("api key created",
		zap.String("tenant_id", tenantID),
		zap.String("key_id", key.ID),
		zap.String("name", name),
	)
	return key, key.ID + "." + secret, nil
}

// VerifyAPIKey checks a presented credential of the form "id.secret"
// and returns claims for the key's tenant and roles.
func (p *Provider) VerifyAPIKey(credential string) (*AccessClaims, error) {
	id, secret, found := strings.Cut(credential, ".")
	if !found {
		return nil, fmt.Errorf("malformed api key")
	}
	val, ok := p.apiKeys.Load(id)
	if !ok {
		return nil, fmt.Errorf("unknown api key")
	}
	key := val.(*APIKey)
	if key.Revoked() {
		return nil, fmt.Errorf("api key revoked")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		return nil, fmt.Errorf("invalid api key secret")
	}

	now := time.Now().UTC()
	used := *key
	used.LastUsedAt = &now
	p.apiKeys.Store(id, &used)
	return &AccessClaims{
		Subject:   "apikey:" + key.ID,
		TenantID:  key.TenantID,
		Roles:     key.Roles,
		ExpiresAt: now.Add(time.Minute),
	}, nil
}

// RevokeAPIKey marks a key revoked. Revocation is permanent.
func (p *Provider) RevokeAPIKey(tenantID, id string) error {
	val, ok := p.apiKeys.Load(id)
	if !ok {
		return fmt.Errorf("api key not found: %s", id)
	}
	key := val.(*APIKey)
	if key.TenantID != tenantID {
		return fmt.Errorf("api key not found: %s", id)
	}
	now := time.Now().UTC()
	revoked := *key
	revoked.RevokedAt = &now
	p.apiKeys.Store(id, &revoked)
	return nil
}

// ListAPIKeys returns a tenant's keys.
func (p *Provider) ListAPIKeys(tenantID string) []*APIKey {
	var out []*APIKey
	p.apiKeys.Range(func(_, value interface{}) bool {
		key := value.(*APIKey)
		if key.TenantID == tenantID {
			out = append(out, key)
		}
		return true
	})
	return out
}

func generateID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Weak randomness is worse than no identity at all.
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
