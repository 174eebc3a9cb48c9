package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
)

func newTestRecorder(capacity int) *Recorder {
	return NewRecorder(capacity, logging.NewDevelopment())
}

func TestEventTypeValuesAreStable(t *testing.T) {
	// Persisted values; a failure here means a wire contract break.
	stable := map[EventType]string{
		EventLoginSuccess:      "login_success",
		EventLoginFailure:      "login_failure",
		EventLogout:            "logout",
		EventShardCreated:      "shard_created",
		EventShardUpdated:      "shard_updated",
		EventShardDeleted:      "shard_deleted",
		EventConnectionCreated: "connection_created",
		EventSyncStarted:       "sync_started",
		EventSyncCompleted:     "sync_completed",
		EventSyncFailed:        "sync_failed",
		EventContextAssembled:  "context_assembled",
		EventModelTrained:      "model_trained",
	}
	for typ, want := range stable {
		if string(typ) != want {
			t.Errorf("event type %q changed from %q", typ, want)
		}
	}
}

func TestRecordAssignsDefaults(t *testing.T) {
	r := newTestRecorder(8)
	entry := r.Record(Entry{TenantID: "acme", Type: EventLoginSuccess, ActorID: "u1"})
	if entry.ID == "" {
		t.Error("ID should be assigned")
	}
	if entry.OccurredAt.IsZero() {
		t.Error("timestamp should be assigned")
	}
	if entry.Outcome != OutcomeSuccess {
		t.Errorf("outcome = %s, want success", entry.Outcome)
	}
}

func TestQueryFilters(t *testing.T) {
	r := newTestRecorder(32)
	r.Record(Entry{TenantID: "acme", Type: EventLoginSuccess, ActorID: "u1"})
	r.Record(Entry{TenantID: "acme", Type: EventShardCreated, ActorID: "u2"})
	r.Record(Entry{TenantID: "globex", Type: EventLoginSuccess, ActorID: "u3"})

	if got := r.Query(Query{TenantID: "acme"}); len(got) != 2 {
		t.Errorf("tenant filter: %d entries, want 2", len(got))
	}
	got := r.Query(Query{TenantID: "acme", Type: EventShardCreated})
	if len(got) != 1 || got[0].ActorID != "u2" {
		t.Errorf("type filter: %v", got)
	}
	if got := r.Query(Query{ActorID: "u3"}); len(got) != 1 {
		t.Errorf("actor filter: %d entries", len(got))
	}
}

func TestQueryTimeRange(t *testing.T) {
	r := newTestRecorder(32)
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()
	r.Record(Entry{TenantID: "acme", Type: EventLogout, OccurredAt: old})
	r.Record(Entry{TenantID: "acme", Type: EventLogout, OccurredAt: recent})

	got := r.Query(Query{TenantID: "acme", From: time.Now().Add(-time.Hour)})
	if len(got) != 1 {
		t.Errorf("from filter: %d entries, want 1", len(got))
	}
	got = r.Query(Query{TenantID: "acme", To: time.Now().Add(-time.Hour)})
	if len(got) != 1 {
		t.Errorf("to filter: %d entries, want 1", len(got))
	}
}

func TestQueryNewestFirstAndLimit(t *testing.T) {
	r := newTestRecorder(32)
	for i := 0; i < 5; i++ {
		r.Record(Entry{TenantID: "acme", Type: EventShardUpdated, ResourceID: fmt.Sprintf("s%d", i)})
	}
	got := r.Query(Query{TenantID: "acme", Limit: 3})
	if len(got) != 3 {
		t.Fatalf("limit: %d entries, want 3", len(got))
	}
	if got[0].ResourceID != "s4" || got[2].ResourceID != "s2" {
		t.Errorf("order wrong: %s, %s", got[0].ResourceID, got[2].ResourceID)
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	r := newTestRecorder(3)
	for i := 0; i < 5; i++ {
		r.Record(Entry{TenantID: "acme", Type: EventShardCreated, ResourceID: fmt.Sprintf("s%d", i)})
	}
	if r.Len() != 3 {
		t.Errorf("len = %d, want 3", r.Len())
	}
	got := r.Query(Query{TenantID: "acme"})
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	for _, e := range got {
		if e.ResourceID == "s0" || e.ResourceID == "s1" {
			t.Errorf("evicted entry %s still present", e.ResourceID)
		}
	}
}

func TestSubscriberReceivesEntries(t *testing.T) {
	r := newTestRecorder(8)
	var received []Entry
	r.Subscribe(func(e Entry) { received = append(received, e) })

	r.Record(Entry{TenantID: "acme", Type: EventSyncStarted})
	r.Record(Entry{TenantID: "acme", Type: EventSyncCompleted})

	if len(received) != 2 {
		t.Fatalf("received = %d, want 2", len(received))
	}
	if received[1].Type != EventSyncCompleted {
		t.Errorf("second event = %s", received[1].Type)
	}
}
