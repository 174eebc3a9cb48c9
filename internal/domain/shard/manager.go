package shard

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/monitoring"
	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"github.com/Edgame2/castiel2-sub001/internal/shared/utils"
)

// SystemTenant owns built-in shard type definitions visible to every tenant.
const SystemTenant = "system"

// DeletedShardTTLSeconds schedules storage expiry of soft-deleted shards.
const DeletedShardTTLSeconds = 30 * 24 * 60 * 60

// Manager owns shard and shard type storage for all tenants.
type Manager struct {
	shardTypes sync.Map // "tenant/typeId" -> *ShardType
	shards     sync.Map // "tenant/id" -> *Shard

	evaluator *Evaluator
	logger    *logging.Logger
	metrics   *monitoring.Metrics

	mu   sync.Mutex
	live int
}

// NewManager creates a shard manager.
func NewManager(logger *logging.Logger) *Manager {
	return &Manager{
		evaluator: NewEvaluator(),
		logger:    logger,
	}
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// CreateType registers a shard type for a tenant.
func (m *Manager) CreateType(t *ShardType) error {
	if err := utils.ValidateTenantID(t.TenantID); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if t.BuiltIn && t.TenantID != SystemTenant {
		return fmt.Errorf("built-in types belong to the %q tenant", SystemTenant)
	}
	if !t.BuiltIn && IsBuiltInShardType(t.TypeID) {
		return fmt.Errorf("type id %q is reserved for a built-in type", t.TypeID)
	}

	// Child types inherit and extend the parent schema.
	if t.ParentTypeID != "" {
		parent, ok := m.GetType(t.TenantID, t.ParentTypeID)
		if !ok {
			return fmt.Errorf("parent type %q not found", t.ParentTypeID)
		}
		t.Schema = MergeSchemas(parent.Schema, t.Schema)
	}

	key := typeKey(t.TenantID, t.TypeID)
	if _, exists := m.shardTypes.Load(key); exists {
		return fmt.Errorf("shard type %q already exists", t.TypeID)
	}

	if t.ID == "" {
		t.Envelope = mergeEnvelope(t.Envelope, types.NewEnvelope(t.TenantID))
	}
	m.shardTypes.Store(key, t)

	m.logger.Info("Shard type created",
		zap.String("tenant", t.TenantID),
		zap.String("type_id", t.TypeID),
		zap.String("format", string(DetectSchemaFormat(t.Schema))),
	)
	return nil
}

// GetType resolves a shard type for a tenant, falling back to built-ins.
func (m *Manager) GetType(tenantID, typeID string) (*ShardType, bool) {
	if v, ok := m.shardTypes.Load(typeKey(tenantID, typeID)); ok {
		return v.(*ShardType), true
	}
	if v, ok := m.shardTypes.Load(typeKey(SystemTenant, typeID)); ok {
		return v.(*ShardType), true
	}
	return nil, false
}

// ListTypes returns the types visible to a tenant: its own plus built-ins.
func (m *Manager) ListTypes(tenantID string) []*ShardType {
	var out []*ShardType
	m.shardTypes.Range(func(key, value interface{}) bool {
		t := value.(*ShardType)
		if t.TenantID == tenantID || t.TenantID == SystemTenant {
			out = append(out, t)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID < out[j].TypeID })
	return out
}

// DeleteType removes a tenant-defined type. Built-ins cannot be deleted.
func (m *Manager) DeleteType(tenantID, typeID string) error {
	if IsBuiltInShardType(typeID) {
		return fmt.Errorf("built-in type %q cannot be deleted", typeID)
	}
	key := typeKey(tenantID, typeID)
	if _, ok := m.shardTypes.Load(key); !ok {
		return fmt.Errorf("shard type %q not found", typeID)
	}
	m.shardTypes.Delete(key)
	return nil
}

// Create validates and stores a new shard, computing derived fields.
func (m *Manager) Create(s *Shard) error {
	if err := utils.ValidateTenantID(s.TenantID); err != nil {
		return err
	}

	t, ok := m.GetType(s.TenantID, s.ShardTypeID)
	if !ok {
		return fmt.Errorf("shard type %q not found", s.ShardTypeID)
	}
	if err := s.ValidateAgainst(t); err != nil {
		return err
	}

	if s.ID == "" {
		s.Envelope = mergeEnvelope(s.Envelope, types.NewEnvelope(s.TenantID))
	}
	if err := m.compute(s, t); err != nil {
		return err
	}

	m.shards.Store(shardKey(s.TenantID, s.ID), s)
	m.trackLive(+1)
	m.recordOp("create")

	m.logger.Debug("Shard created",
		zap.String("tenant", s.TenantID),
		zap.String("shard_id", s.ID),
		zap.String("type_id", s.ShardTypeID),
	)
	return nil
}

// Get returns a live shard.
func (m *Manager) Get(tenantID, id string) (*Shard, bool) {
	v, ok := m.shards.Load(shardKey(tenantID, id))
	if !ok {
		return nil, false
	}
	s := v.(*Shard)
	if s.Deleted() {
		return nil, false
	}
	return s, true
}

// List returns a tenant's live shards, optionally filtered by type.
func (m *Manager) List(tenantID, typeID string, opts types.ListOptions) []*Shard {
	opts = opts.Clamp()

	var all []*Shard
	m.shards.Range(func(key, value interface{}) bool {
		s := value.(*Shard)
		if s.TenantID != tenantID || s.Deleted() {
			return true
		}
		if typeID != "" && s.ShardTypeID != typeID {
			return true
		}
		all = append(all, s)
		return true
	})

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if opts.Offset >= len(all) {
		return nil
	}
	end := opts.Offset + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Offset:end]
}

// Update re-validates and replaces a shard's mutable fields.
func (m *Manager) Update(s *Shard) error {
	existing, ok := m.Get(s.TenantID, s.ID)
	if !ok {
		return fmt.Errorf("shard %q not found", s.ID)
	}

	t, ok := m.GetType(s.TenantID, s.ShardTypeID)
	if !ok {
		return fmt.Errorf("shard type %q not found", s.ShardTypeID)
	}
	if err := s.ValidateAgainst(t); err != nil {
		return err
	}

	s.Envelope = existing.Envelope
	s.Touch()
	if err := m.compute(s, t); err != nil {
		return err
	}

	m.shards.Store(shardKey(s.TenantID, s.ID), s)
	m.recordOp("update")
	return nil
}

// Delete soft-deletes a shard and schedules its storage expiry. The
// stored record is replaced, never mutated, so concurrent readers see
// either the live or the deleted version.
func (m *Manager) Delete(tenantID, id string) error {
	s, ok := m.Get(tenantID, id)
	if !ok {
		return fmt.Errorf("shard %q not found", id)
	}
	deleted := *s
	deleted.SoftDelete(DeletedShardTTLSeconds)
	m.shards.Store(shardKey(tenantID, id), &deleted)
	m.trackLive(-1)
	m.recordOp("delete")
	return nil
}

// compute evaluates the type's computed fields against the shard.
func (m *Manager) compute(s *Shard, t *ShardType) error {
	if len(t.Computed) == 0 {
		return nil
	}

	related := m.resolveRelated(s)
	computed := make(map[string]interface{}, len(t.Computed))
	for _, field := range t.Computed {
		value, err := m.evaluator.Eval(field, s.Data, related)
		if err != nil {
			return fmt.Errorf("computed field %q: %w", field.Name, err)
		}
		computed[field.Name] = value
	}
	s.Computed = computed
	return nil
}

// resolveRelated gathers target shards per relationship name.
func (m *Manager) resolveRelated(s *Shard) map[string][]*Shard {
	related := make(map[string][]*Shard)
	for _, rel := range s.Relationships {
		if target, ok := m.Get(s.TenantID, rel.TargetShardID); ok {
			related[rel.Name] = append(related[rel.Name], target)
		}
	}
	return related
}

func (m *Manager) trackLive(delta int) {
	m.mu.Lock()
	m.live += delta
	live := m.live
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.ShardsTotal.Set(float64(live))
	}
}

func (m *Manager) recordOp(op string) {
	if m.metrics != nil {
		m.metrics.ShardOperations.WithLabelValues(op).Inc()
	}
}

func typeKey(tenantID, typeID string) string {
	return tenantID + "/" + typeID
}

func shardKey(tenantID, id string) string {
	return tenantID + "/" + id
}

// mergeEnvelope keeps caller-provided envelope fields while filling in
// generated ones.
func mergeEnvelope(given, fresh types.Envelope) types.Envelope {
	if given.ID != "" {
		fresh.ID = given.ID
	}
	if given.TenantID != "" {
		fresh.TenantID = given.TenantID
	}
	if given.TTL != nil {
		fresh.TTL = given.TTL
	}
	return fresh
}

