package analytics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"go.uber.org/zap"
)

// Registry manages model versions and training jobs. At most one model
// per (tenant, kind) is active at a time. Stored records are replaced
// on every status change, never mutated, so lock-free readers are safe;
// r.mu serializes the read-modify-write cycles themselves.
type Registry struct {
	models sync.Map // "tenant/id" -> *Model
	jobs   sync.Map // "tenant/id" -> *TrainingJob
	logger *logging.Logger
	mu     sync.Mutex
}

// NewRegistry creates an empty model registry.
func NewRegistry(logger *logging.Logger) *Registry {
	return &Registry{logger: logger.Named("analytics")}
}

func regKey(tenantID, id string) string {
	return tenantID + "/" + id
}

// RegisterModel validates and stores a new model version in staged
// status. The version is assigned as one past the tenant's highest
// version of the same kind.
func (r *Registry) RegisterModel(m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.Version == 0 {
		m.Version = r.nextVersion(m.TenantID, m.Kind)
	}
	if errs := m.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid model: %s", strings.Join(errs, "; "))
	}

	m.Envelope = types.NewEnvelope(m.TenantID)
	m.Status = ModelStaged
	r.models.Store(regKey(m.TenantID, m.ID), m)
	r.logger.Info("model registered",
		zap.String("tenant_id", m.TenantID),
		zap.String("model_id", m.ID),
		zap.String("kind", string(m.Kind)),
		zap.Int("version", m.Version),
	)
	return nil
}

func (r *Registry) nextVersion(tenantID string, kind ModelKind) int {
	highest := 0
	prefix := tenantID + "/"
	r.models.Range(func(key, value interface{}) bool {
		if !strings.HasPrefix(key.(string), prefix) {
			return true
		}
		m := value.(*Model)
		if m.Kind == kind && m.Version > highest {
			highest = m.Version
		}
		return true
	})
	return highest + 1
}

// GetModel retrieves a model.
func (r *Registry) GetModel(tenantID, id string) (*Model, error) {
	val, ok := r.models.Load(regKey(tenantID, id))
	if !ok {
		return nil, fmt.Errorf("model not found: %s", id)
	}
	return val.(*Model), nil
}

// ListModels returns a tenant's models, optionally filtered by kind.
func (r *Registry) ListModels(tenantID string, kind *ModelKind) []*Model {
	var out []*Model
	prefix := tenantID + "/"
	r.models.Range(func(key, value interface{}) bool {
		if !strings.HasPrefix(key.(string), prefix) {
			return true
		}
		m := value.(*Model)
		if kind == nil || m.Kind == *kind {
			out = append(out, m)
		}
		return true
	})
	return out
}

// ActiveModel returns the tenant's active model of a kind.
func (r *Registry) ActiveModel(tenantID string, kind ModelKind) (*Model, error) {
	for _, m := range r.ListModels(tenantID, &kind) {
		if m.Status == ModelActive {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no active %s model for tenant %s", kind, tenantID)
}

// Activate promotes a staged model. Any previously active model of the
// same kind is retired in the same step.
func (r *Registry) Activate(tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.GetModel(tenantID, id)
	if err != nil {
		return err
	}
	if m.Status == ModelRetired {
		return fmt.Errorf("cannot activate retired model %s", id)
	}

	if current, err := r.ActiveModel(tenantID, m.Kind); err == nil && current.ID != id {
		retired := *current
		retired.Status = ModelRetired
		retired.Touch()
		r.models.Store(regKey(tenantID, current.ID), &retired)
	}
	activated := *m
	activated.Status = ModelActive
	activated.Touch()
	r.models.Store(regKey(tenantID, id), &activated)
	r.logger.Info("model activated",
		zap.String("tenant_id", tenantID),
		zap.String("model_id", id),
		zap.String("kind", string(m.Kind)),
	)
	return nil
}

// Retire deactivates a model.
func (r *Registry) Retire(tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.GetModel(tenantID, id)
	if err != nil {
		return err
	}
	retired := *m
	retired.Status = ModelRetired
	retired.Touch()
	r.models.Store(regKey(tenantID, id), &retired)
	return nil
}

// StartJob creates a training job in pending status.
func (r *Registry) StartJob(tenantID string, kind ModelKind) (*TrainingJob, error) {
	if !KnownKind(kind) {
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
	job := &TrainingJob{
		Envelope: types.NewEnvelope(tenantID),
		Kind:     kind,
		Status:   JobPending,
	}
	r.jobs.Store(regKey(tenantID, job.ID), job)
	return job, nil
}

// GetJob retrieves a training job.
func (r *Registry) GetJob(tenantID, id string) (*TrainingJob, error) {
	val, ok := r.jobs.Load(regKey(tenantID, id))
	if !ok {
		return nil, fmt.Errorf("training job not found: %s", id)
	}
	return val.(*TrainingJob), nil
}

// ListJobs returns a tenant's training jobs.
func (r *Registry) ListJobs(tenantID string) []*TrainingJob {
	var out []*TrainingJob
	prefix := tenantID + "/"
	r.jobs.Range(func(key, value interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			out = append(out, value.(*TrainingJob))
		}
		return true
	})
	return out
}

// TransitionJob moves a job to a new status, rejecting illegal moves.
// Completion records the produced model ID; failure records the error.
func (r *Registry) TransitionJob(tenantID, id string, to JobStatus, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, err := r.GetJob(tenantID, id)
	if err != nil {
		return err
	}
	if !CanTransition(job.Status, to) {
		return fmt.Errorf("illegal job transition %s -> %s", job.Status, to)
	}

	now := time.Now().UTC()
	updated := *job
	switch to {
	case JobRunning:
		updated.StartedAt = &now
	case JobCompleted:
		updated.ModelID = detail
		updated.CompletedAt = &now
	case JobFailed:
		updated.Error = detail
		updated.CompletedAt = &now
	}
	updated.Status = to
	updated.Touch()
	r.jobs.Store(regKey(tenantID, id), &updated)
	return nil
}
