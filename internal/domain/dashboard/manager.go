package dashboard

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"github.com/Edgame2/castiel2-sub001/internal/shared/utils"
)

// Manager owns dashboard storage for all tenants.
type Manager struct {
	dashboards sync.Map // "tenant/id" -> *Dashboard
	logger     *logging.Logger
}

// NewManager creates a dashboard manager.
func NewManager(logger *logging.Logger) *Manager {
	return &Manager{logger: logger}
}

// Create validates, normalizes, and stores a dashboard.
func (m *Manager) Create(d *Dashboard) error {
	if err := utils.ValidateTenantID(d.TenantID); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	normalize(d)
	if d.ID == "" {
		d.Envelope = types.NewEnvelope(d.TenantID)
	}

	m.dashboards.Store(key(d.TenantID, d.ID), d)
	m.logger.Debug("Dashboard created",
		zap.String("tenant", d.TenantID),
		zap.String("dashboard_id", d.ID),
		zap.Int("widgets", len(d.Widgets)),
	)
	return nil
}

// Get returns a dashboard visible to the given user.
func (m *Manager) Get(tenantID, id, userID string) (*Dashboard, error) {
	v, ok := m.dashboards.Load(key(tenantID, id))
	if !ok {
		return nil, fmt.Errorf("dashboard %q not found", id)
	}
	d := v.(*Dashboard)
	if d.Deleted() {
		return nil, fmt.Errorf("dashboard %q not found", id)
	}
	if !d.visibleTo(userID) {
		return nil, fmt.Errorf("dashboard %q is not shared with this user", id)
	}
	return d, nil
}

// List returns the tenant's dashboards visible to the given user.
func (m *Manager) List(tenantID, userID string) []*Dashboard {
	var out []*Dashboard
	m.dashboards.Range(func(_, value interface{}) bool {
		d := value.(*Dashboard)
		if d.TenantID == tenantID && !d.Deleted() && d.visibleTo(userID) {
			out = append(out, d)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Update replaces a dashboard's definition. Only the owner may update.
func (m *Manager) Update(d *Dashboard, userID string) error {
	existing, err := m.Get(d.TenantID, d.ID, userID)
	if err != nil {
		return err
	}
	if existing.Permissions.OwnerID != userID {
		return fmt.Errorf("only the owner can update a dashboard")
	}
	if err := d.Validate(); err != nil {
		return err
	}

	normalize(d)
	d.Envelope = existing.Envelope
	d.Touch()
	m.dashboards.Store(key(d.TenantID, d.ID), d)
	return nil
}

// Delete soft-deletes a dashboard. Only the owner may delete.
func (m *Manager) Delete(tenantID, id, userID string) error {
	d, err := m.Get(tenantID, id, userID)
	if err != nil {
		return err
	}
	if d.Permissions.OwnerID != userID {
		return fmt.Errorf("only the owner can delete a dashboard")
	}
	d.SoftDelete(0)
	return nil
}

// normalize fills in widget IDs, default sizes, and the default grid.
func normalize(d *Dashboard) {
	if d.Grid.Columns <= 0 {
		d.Grid = DefaultGrid
	}
	for i := range d.Widgets {
		w := &d.Widgets[i]
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		if w.Size.W <= 0 || w.Size.H <= 0 {
			w.Size = SizeDefaults[w.Kind]
		}
		if w.Size.W > d.Grid.Columns {
			w.Size.W = d.Grid.Columns
		}
	}
}

func (d *Dashboard) visibleTo(userID string) bool {
	if d.Permissions.Public || d.Permissions.OwnerID == userID {
		return true
	}
	for _, id := range d.Permissions.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

func key(tenantID, id string) string {
	return tenantID + "/" + id
}
