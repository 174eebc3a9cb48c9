package types

import (
	"time"

	"github.com/google/uuid"
)

// Envelope carries the storage fields shared by every persisted record.
// Field names match the stored document shape exactly; the _rid/_etag/_ts
// fields are written by the storage layer and must round-trip untouched.
type Envelope struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenantId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// TTL is the storage-layer auto-expiry in seconds. Nil means the
	// record never expires.
	TTL *int `json:"ttl,omitempty"`

	// Storage system fields.
	RID  string `json:"_rid,omitempty"`
	ETag string `json:"_etag,omitempty"`
	TS   int64  `json:"_ts,omitempty"`
}

// NewEnvelope returns an envelope with a fresh ID and creation timestamps.
func NewEnvelope(tenantID string) Envelope {
	now := time.Now().UTC()
	return Envelope{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (e *Envelope) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the record deleted and optionally schedules storage
// expiry ttlSeconds from now. A non-positive ttl leaves TTL unset.
func (e *Envelope) SoftDelete(ttlSeconds int) {
	now := time.Now().UTC()
	e.DeletedAt = &now
	e.UpdatedAt = now
	if ttlSeconds > 0 {
		e.TTL = &ttlSeconds
	}
}

// Deleted reports whether the record has been soft-deleted.
func (e *Envelope) Deleted() bool {
	return e.DeletedAt != nil
}
