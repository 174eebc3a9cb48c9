package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// DefaultCapacity bounds the in-memory window when none is given.
const DefaultCapacity = 4096

// Subscriber receives entries as they are recorded. Handlers must not
// block; slow consumers should buffer on their side.
type Subscriber func(Entry)

// Recorder keeps the most recent entries in a ring buffer, mirrors
// every entry to the structured log, and broadcasts to subscribers.
type Recorder struct {
	mu       sync.RWMutex
	ring     []Entry
	next     int
	filled   bool
	subs     []Subscriber
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	capacity int
}

// NewRecorder creates a recorder holding up to capacity entries; a
// non-positive capacity uses DefaultCapacity.
func NewRecorder(capacity int, logger *logging.Logger) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		ring:     make([]Entry, capacity),
		capacity: capacity,
		logger:   logger.Named("audit"),
	}
}

// WithMetrics attaches a metrics sink.
func (r *Recorder) WithMetrics(m *monitoring.Metrics) *Recorder {
	r.metrics = m
	return r
}

// Subscribe registers a broadcast handler.
func (r *Recorder) Subscribe(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, s)
}

// Record stores, logs and broadcasts one entry. ID and timestamp are
// assigned if missing.
func (r *Recorder) Record(entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeSuccess
	}

	r.mu.Lock()
	r.ring[r.next] = entry
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.filled = true
	}
	subs := make([]Subscriber, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	r.logger.Info("audit event",
		zap.String("event_type", string(entry.Type)),
		zap.String("tenant_id", entry.TenantID),
		zap.String("actor_id", entry.ActorID),
		zap.String("resource_id", entry.ResourceID),
		zap.String("outcome", string(entry.Outcome)),
	)
	if r.metrics != nil {
		r.metrics.AuditEvents.WithLabelValues(string(entry.Type)).Inc()
	}
	for _, s := range subs {
		s(entry)
	}
	return entry
}

// Query returns matching entries, newest first.
func (r *Recorder) Query(q Query) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = r.capacity
	}

	size := r.next
	if r.filled {
		size = r.capacity
	}

	var out []Entry
	// Walk backwards from the most recent entry.
	for i := 1; i <= size && len(out) < limit; i++ {
		idx := (r.next - i + r.capacity) % r.capacity
		if q.Matches(r.ring[idx]) {
			out = append(out, r.ring[idx])
		}
	}
	return out
}

// Len reports how many entries the window currently holds.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.filled {
		return r.capacity
	}
	return r.next
}
