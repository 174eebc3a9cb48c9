package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/monitoring"
	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"go.uber.org/zap"
)

// Manager owns connection lifecycle and sync orchestration.
type Manager struct {
	connections sync.Map // "tenant/id" -> *Connection
	registry    *Registry
	logger      *logging.Logger
	metrics     *monitoring.Metrics
	mu          sync.Mutex
}

// NewManager creates a connection manager over the given adapter
// registry.
func NewManager(registry *Registry, logger *logging.Logger) *Manager {
	return &Manager{
		registry: registry,
		logger:   logger.Named("integration"),
	}
}

// WithMetrics attaches a metrics sink.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Registry exposes the adapter registry for discovery endpoints.
func (m *Manager) Registry() *Registry {
	return m.registry
}

func connKey(tenantID, id string) string {
	return tenantID + "/" + id
}

// Create validates and stores a new connection. The named adapter must
// be registered.
func (m *Manager) Create(conn *Connection) error {
	if errs := conn.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid connection: %s", strings.Join(errs, "; "))
	}
	if _, ok := m.registry.Get(conn.AdapterID); !ok {
		return fmt.Errorf("adapter not registered: %s", conn.AdapterID)
	}

	conn.Envelope = types.NewEnvelope(conn.TenantID)
	if conn.Status == "" {
		conn.Status = StatusActive
	}
	m.connections.Store(connKey(conn.TenantID, conn.ID), conn)
	m.logger.Info("connection created",
		zap.String("tenant_id", conn.TenantID),
		zap.String("connection_id", conn.ID),
		zap.String("adapter", conn.AdapterID),
	)
	return nil
}

// Get retrieves a connection.
func (m *Manager) Get(tenantID, id string) (*Connection, error) {
	val, ok := m.connections.Load(connKey(tenantID, id))
	if !ok {
		return nil, fmt.Errorf("connection not found: %s", id)
	}
	return val.(*Connection), nil
}

// List returns a tenant's connections.
func (m *Manager) List(tenantID string) []*Connection {
	var out []*Connection
	prefix := tenantID + "/"
	m.connections.Range(func(key, value interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			out = append(out, value.(*Connection))
		}
		return true
	})
	return out
}

// Update revalidates and stores changed fields. Identity and envelope
// fields are preserved.
func (m *Manager) Update(tenantID, id string, update *Connection) (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.Get(tenantID, id)
	if err != nil {
		return nil, err
	}

	update.Envelope = existing.Envelope
	if update.Status == "" {
		update.Status = existing.Status
	}
	if errs := update.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid connection: %s", strings.Join(errs, "; "))
	}
	if _, ok := m.registry.Get(update.AdapterID); !ok {
		return nil, fmt.Errorf("adapter not registered: %s", update.AdapterID)
	}
	update.LastSyncAt = existing.LastSyncAt
	update.Touch()
	m.connections.Store(connKey(tenantID, id), update)
	return update, nil
}

// Delete removes a connection.
func (m *Manager) Delete(tenantID, id string) error {
	key := connKey(tenantID, id)
	if _, ok := m.connections.Load(key); !ok {
		return fmt.Errorf("connection not found: %s", id)
	}
	m.connections.Delete(key)
	return nil
}

// SetStatus transitions a connection's status.
func (m *Manager) SetStatus(tenantID, id string, status ConnectionStatus) error {
	conn, err := m.Get(tenantID, id)
	if err != nil {
		return err
	}
	switch status {
	case StatusActive, StatusPaused, StatusErrored, StatusDisabled:
	default:
		return fmt.Errorf("unknown connection status %q", status)
	}
	updated := *conn
	updated.Status = status
	updated.Touch()
	m.connections.Store(connKey(tenantID, id), &updated)
	return nil
}

// Sync runs one sync for a connection through its adapter. Paused and
// disabled connections are skipped with an error.
func (m *Manager) Sync(ctx context.Context, tenantID, id string) (*Result, error) {
	conn, err := m.Get(tenantID, id)
	if err != nil {
		return nil, err
	}
	if conn.Status == StatusPaused || conn.Status == StatusDisabled {
		return nil, fmt.Errorf("connection %s is %s", conn.Name, conn.Status)
	}

	start := time.Now()
	result, err := m.registry.Execute(ctx, conn, "sync", nil)

	// Record the outcome on a copy; the stored record stays immutable.
	now := time.Now().UTC()
	updated := *conn
	updated.LastSyncAt = &now
	if err != nil {
		updated.Status = StatusErrored
		updated.LastError = err.Error()
		m.connections.Store(connKey(tenantID, id), &updated)
		if m.metrics != nil {
			m.metrics.RecordSyncRun("failure", 0)
		}
		m.logger.Warn("sync failed",
			zap.String("tenant_id", tenantID),
			zap.String("connection_id", id),
			zap.Error(err),
		)
		return result, err
	}

	updated.Status = StatusActive
	updated.LastError = ""
	m.connections.Store(connKey(tenantID, id), &updated)
	documents := 0
	if result != nil {
		if n, ok := result.Data["documents"].(int); ok {
			documents = n
		}
	}
	if m.metrics != nil {
		m.metrics.RecordSyncRun("success", documents)
	}
	m.logger.Info("sync completed",
		zap.String("tenant_id", tenantID),
		zap.String("connection_id", id),
		zap.Int("documents", documents),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}
