package analytics

import (
	"fmt"
	"time"

	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
)

// ModelKind names a trained model family. Values match the training
// pipeline's artifact names and are persisted.
type ModelKind string

const (
	KindWinProbability  ModelKind = "win_probability"
	KindRiskScoring     ModelKind = "risk_scoring"
	KindAnomalyIForest  ModelKind = "anomaly_isolation_forest"
	KindLSTMTrajectory  ModelKind = "lstm_trajectory"
	KindProphetForecast ModelKind = "prophet_forecast"
)

// ModelKinds lists every known kind.
var ModelKinds = []ModelKind{
	KindWinProbability,
	KindRiskScoring,
	KindAnomalyIForest,
	KindLSTMTrajectory,
	KindProphetForecast,
}

// KnownKind reports whether kind names a model family.
func KnownKind(kind ModelKind) bool {
	for _, k := range ModelKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ModelStatus tracks a registered model version.
type ModelStatus string

const (
	ModelStaged  ModelStatus = "staged"
	ModelActive  ModelStatus = "active"
	ModelRetired ModelStatus = "retired"
)

// Model is one registered model version.
type Model struct {
	types.Envelope

	Kind           ModelKind          `json:"kind"`
	Version        int                `json:"version"`
	Status         ModelStatus        `json:"status"`
	ArtifactURI    string             `json:"artifactUri"`
	FeatureColumns []string           `json:"featureColumns,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"` // training metrics: auc, rmse, ...
	TrainedAt      *time.Time         `json:"trainedAt,omitempty"`
}

// JobStatus tracks a training run.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// jobTransitions lists the legal status moves.
var jobTransitions = map[JobStatus][]JobStatus{
	JobPending: {JobRunning, JobFailed},
	JobRunning: {JobCompleted, JobFailed},
}

// CanTransition reports whether a job may move from one status to
// another. Completed and failed are terminal.
func CanTransition(from, to JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TrainingJob is one training run for a model kind.
type TrainingJob struct {
	types.Envelope

	Kind        ModelKind  `json:"kind"`
	Status      JobStatus  `json:"status"`
	ModelID     string     `json:"modelId,omitempty"` // set on completion
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Validate returns every violation found in a model record.
func (m *Model) Validate() []string {
	var errs []string
	if !KnownKind(m.Kind) {
		errs = append(errs, fmt.Sprintf("unknown model kind %q", m.Kind))
	}
	if m.Version < 1 {
		errs = append(errs, "version must be at least 1")
	}
	if m.ArtifactURI == "" {
		errs = append(errs, "artifactUri is required")
	}
	return errs
}
