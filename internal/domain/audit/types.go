package audit

import "time"

// EventType classifies an audit entry. The string values are persisted
// and sent over the wire; they must never change.
type EventType string

const (
	EventLoginSuccess EventType = "login_success"
	EventLoginFailure EventType = "login_failure"
	EventLogout       EventType = "logout"

	EventShardCreated EventType = "shard_created"
	EventShardUpdated EventType = "shard_updated"
	EventShardDeleted EventType = "shard_deleted"

	EventConnectionCreated EventType = "connection_created"
	EventConnectionDeleted EventType = "connection_deleted"
	EventSyncStarted       EventType = "sync_started"
	EventSyncCompleted     EventType = "sync_completed"
	EventSyncFailed        EventType = "sync_failed"

	EventContextAssembled EventType = "context_assembled"

	EventModelTrained   EventType = "model_trained"
	EventModelActivated EventType = "model_activated"
	EventModelRetired   EventType = "model_retired"

	EventAPIKeyCreated EventType = "api_key_created"
	EventAPIKeyRevoked EventType = "api_key_revoked"
)

// Outcome says whether the audited action succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Entry is one audit record.
type Entry struct {
	ID         string                 `json:"id"`
	TenantID   string                 `json:"tenantId"`
	Type       EventType              `json:"type"`
	ActorID    string                 `json:"actorId"`
	ResourceID string                 `json:"resourceId,omitempty"`
	Outcome    Outcome                `json:"outcome"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Query filters audit entries. Zero-valued fields match everything.
type Query struct {
	TenantID string    `json:"tenantId"`
	Type     EventType `json:"type,omitempty"`
	ActorID  string    `json:"actorId,omitempty"`
	From     time.Time `json:"from,omitempty"`
	To       time.Time `json:"to,omitempty"`
	Limit    int       `json:"limit,omitempty"`
}

// Matches reports whether an entry satisfies the query filters.
func (q Query) Matches(e Entry) bool {
	if q.TenantID != "" && e.TenantID != q.TenantID {
		return false
	}
	if q.Type != "" && e.Type != q.Type {
		return false
	}
	if q.ActorID != "" && e.ActorID != q.ActorID {
		return false
	}
	if !q.From.IsZero() && e.OccurredAt.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.OccurredAt.After(q.To) {
		return false
	}
	return true
}
