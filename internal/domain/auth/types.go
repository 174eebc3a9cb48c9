package auth

import "time"

// AccessClaims is the identity attached to an authenticated request.
type AccessClaims struct {
	Subject   string    `json:"sub"`
	TenantID  string    `json:"tenantId"`
	Roles     []string  `json:"roles,omitempty"`
	ExpiresAt time.Time `json:"exp"`
}

// Expired reports whether the claims are past their expiry.
func (c AccessClaims) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// HasRole reports whether the claims carry a role.
func (c AccessClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session is one issued bearer token.
type Session struct {
	Token     string       `json:"token"`
	Claims    AccessClaims `json:"claims"`
	CreatedAt time.Time    `json:"createdAt"`
}

// APIKey is a long-lived machine credential. Secret holds the bcrypt
// hash; the plaintext is returned once at creation and never stored.
type APIKey struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenantId"`
	Name       string     `json:"name"`
	SecretHash string     `json:"-"`
	Roles      []string   `json:"roles,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
}

// Revoked reports whether the key has been revoked.
func (k *APIKey) Revoked() bool {
	return k.RevokedAt != nil
}
