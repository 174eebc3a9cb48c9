package integration

import (
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
)

// ConnectionKind classifies the external system.
type ConnectionKind string

const (
	KindCRM           ConnectionKind = "crm"
	KindStorage       ConnectionKind = "storage"
	KindCommunication ConnectionKind = "communication"
)

// SyncDirection says which way documents flow.
type SyncDirection string

const (
	SyncInbound  SyncDirection = "inbound"
	SyncOutbound SyncDirection = "outbound"
	SyncBidirect SyncDirection = "bidirectional"
)

// SyncConfig controls what a connection syncs and how often. Include
// and exclude patterns are doublestar globs matched against source
// paths; exclude wins over include.
type SyncConfig struct {
	Direction       SyncDirection `json:"direction"`
	IntervalSeconds int           `json:"intervalSeconds"`
	IncludeGlobs    []string      `json:"includeGlobs,omitempty"`
	ExcludeGlobs    []string      `json:"excludeGlobs,omitempty"`
	BatchSize       int           `json:"batchSize,omitempty"`
}

// Matches reports whether a source path passes the include/exclude
// filters. No include globs means everything is included.
func (c SyncConfig) Matches(path string) bool {
	for _, pattern := range c.ExcludeGlobs {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return false
		}
	}
	if len(c.IncludeGlobs) == 0 {
		return true
	}
	for _, pattern := range c.IncludeGlobs {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Validate returns every violation found in the sync config.
func (c SyncConfig) Validate() []string {
	var errs []string
	switch c.Direction {
	case SyncInbound, SyncOutbound, SyncBidirect:
	case "":
		errs = append(errs, "direction is required")
	default:
		errs = append(errs, fmt.Sprintf("unknown sync direction %q", c.Direction))
	}
	if c.IntervalSeconds < 0 {
		errs = append(errs, "intervalSeconds must not be negative")
	}
	if c.BatchSize < 0 {
		errs = append(errs, "batchSize must not be negative")
	}
	for _, pattern := range append(append([]string{}, c.IncludeGlobs...), c.ExcludeGlobs...) {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
	return errs
}

// RetryPolicy configures transient-failure retry for sync requests.
// Backoff doubles per attempt from Initial up to Max.
type RetryPolicy struct {
	MaxAttempts    int           `json:"maxAttempts"`
	InitialBackoff time.Duration `json:"initialBackoff"`
	MaxBackoff     time.Duration `json:"maxBackoff"`
}

// DefaultRetryPolicy returns the retry defaults applied when a
// connection configures none.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    4,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
	}
}

// Validate returns every violation found in the policy.
func (p RetryPolicy) Validate() []string {
	var errs []string
	if p.MaxAttempts < 1 {
		errs = append(errs, "maxAttempts must be at least 1")
	}
	if p.InitialBackoff <= 0 {
		errs = append(errs, "initialBackoff must be positive")
	}
	if p.MaxBackoff < p.InitialBackoff {
		errs = append(errs, "maxBackoff must not be smaller than initialBackoff")
	}
	return errs
}

// ScheduleType discriminates ScheduleConfig variants.
type ScheduleType string

const (
	ScheduleInterval ScheduleType = "interval"
	ScheduleCron     ScheduleType = "cron"
	ScheduleManual   ScheduleType = "manual"
)

// IntervalSchedule runs every fixed number of seconds.
type IntervalSchedule struct {
	Seconds int `json:"seconds"`
}

// CronSchedule runs on a cron expression in the given timezone.
type CronSchedule struct {
	Expression string `json:"expression"`
	Timezone   string `json:"timezone,omitempty"`
}

// ScheduleConfig is a tagged union over schedule variants. Exactly the
// variant named by Type must be set; manual schedules carry no payload.
type ScheduleConfig struct {
	Type     ScheduleType      `json:"type"`
	Interval *IntervalSchedule `json:"interval,omitempty"`
	Cron     *CronSchedule     `json:"cron,omitempty"`
}

// Validate returns every violation found in the schedule.
func (s ScheduleConfig) Validate() []string {
	var errs []string
	switch s.Type {
	case ScheduleInterval:
		if s.Interval == nil {
			errs = append(errs, "interval schedule requires the interval variant")
		} else if s.Interval.Seconds <= 0 {
			errs = append(errs, "interval seconds must be positive")
		}
		if s.Cron != nil {
			errs = append(errs, "interval schedule must not carry a cron variant")
		}
	case ScheduleCron:
		if s.Cron == nil {
			errs = append(errs, "cron schedule requires the cron variant")
		} else if s.Cron.Expression == "" {
			errs = append(errs, "cron expression is required")
		}
		if s.Interval != nil {
			errs = append(errs, "cron schedule must not carry an interval variant")
		}
	case ScheduleManual:
		if s.Interval != nil || s.Cron != nil {
			errs = append(errs, "manual schedule must not carry a variant payload")
		}
	case "":
		errs = append(errs, "schedule type is required")
	default:
		errs = append(errs, fmt.Sprintf("unknown schedule type %q", s.Type))
	}
	return errs
}

// ConnectionStatus tracks connection health.
type ConnectionStatus string

const (
	StatusActive   ConnectionStatus = "active"
	StatusPaused   ConnectionStatus = "paused"
	StatusErrored  ConnectionStatus = "errored"
	StatusDisabled ConnectionStatus = "disabled"
)

// Connection is a tenant's configured link to an external system.
type Connection struct {
	types.Envelope

	Name        string           `json:"name"`
	Kind        ConnectionKind   `json:"kind"`
	AdapterID   string           `json:"adapterId"`
	Credentials Credentials      `json:"credentials"`
	Sync        SyncConfig       `json:"sync"`
	Retry       RetryPolicy      `json:"retry"`
	Schedule    ScheduleConfig   `json:"schedule"`
	Status      ConnectionStatus `json:"status"`
	LastSyncAt  *time.Time       `json:"lastSyncAt,omitempty"`
	LastError   string           `json:"lastError,omitempty"`
	BaseURL     string           `json:"baseUrl,omitempty"`
}

// Validate returns every violation found across the connection and its
// nested configs.
func (c *Connection) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	switch c.Kind {
	case KindCRM, KindStorage, KindCommunication:
	case "":
		errs = append(errs, "kind is required")
	default:
		errs = append(errs, fmt.Sprintf("unknown connection kind %q", c.Kind))
	}
	if c.AdapterID == "" {
		errs = append(errs, "adapterId is required")
	}
	errs = append(errs, c.Credentials.Validate()...)
	errs = append(errs, c.Sync.Validate()...)
	errs = append(errs, c.Retry.Validate()...)
	errs = append(errs, c.Schedule.Validate()...)
	return errs
}
