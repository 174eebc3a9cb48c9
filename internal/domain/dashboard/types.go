// Package dashboard implements tenant dashboards: grids of widgets that
// query shard data over relative date ranges.
package dashboard

import (
	"fmt"

	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"github.com/Edgame2/castiel2-sub001/internal/shared/utils"
)

// WidgetKind identifies a widget renderer.
type WidgetKind string

const (
	WidgetMetric   WidgetKind = "metric"
	WidgetChart    WidgetKind = "chart"
	WidgetList     WidgetKind = "list"
	WidgetTable    WidgetKind = "table"
	WidgetActivity WidgetKind = "activity"
)

// Position is a widget's grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a widget's footprint in grid cells.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// SizeDefaults maps widget kinds to their default grid footprint.
// These are static configuration, not mutable state.
var SizeDefaults = map[WidgetKind]Size{
	WidgetMetric:   {W: 3, H: 2},
	WidgetChart:    {W: 6, H: 4},
	WidgetList:     {W: 4, H: 4},
	WidgetTable:    {W: 8, H: 4},
	WidgetActivity: {W: 4, H: 6},
}

// Query selects the shard data a widget displays.
type Query struct {
	ShardTypeID string       `json:"shardTypeId,omitempty"`
	DateRange   RelativeDate `json:"dateRange,omitempty"`
	Metric      string       `json:"metric,omitempty"`  // data field aggregated by metric widgets
	GroupBy     string       `json:"groupBy,omitempty"` // data field grouped by chart widgets
	Limit       int          `json:"limit,omitempty"`
}

// Widget is one tile on a dashboard.
type Widget struct {
	ID       string     `json:"id"`
	Kind     WidgetKind `json:"kind"`
	Title    string     `json:"title"`
	Query    Query      `json:"query"`
	Position Position   `json:"position"`
	Size     Size       `json:"size"`
}

// Permissions controls who can view a dashboard.
type Permissions struct {
	OwnerID    string   `json:"ownerId"`
	SharedWith []string `json:"sharedWith,omitempty"`
	Public     bool     `json:"public"`
}

// Grid describes the dashboard layout container.
type Grid struct {
	Columns   int `json:"columns"`
	RowHeight int `json:"rowHeight"`
}

// DefaultGrid is the layout used when none is given.
var DefaultGrid = Grid{Columns: 12, RowHeight: 80}

// Dashboard composes widgets on a grid with sharing permissions.
type Dashboard struct {
	types.Envelope

	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Grid        Grid        `json:"grid"`
	Widgets     []Widget    `json:"widgets"`
	Permissions Permissions `json:"permissions"`
}

// Validate checks the dashboard definition.
func (d *Dashboard) Validate() error {
	if err := utils.ValidateName(d.Name, "name"); err != nil {
		return err
	}
	if err := utils.ValidateDescription(d.Description, "description", false); err != nil {
		return err
	}
	if d.Permissions.OwnerID == "" {
		return fmt.Errorf("permissions.ownerId is required")
	}

	for i, w := range d.Widgets {
		if _, ok := SizeDefaults[w.Kind]; !ok {
			return fmt.Errorf("widget[%d]: unknown kind %q", i, w.Kind)
		}
		if w.Title == "" {
			return fmt.Errorf("widget[%d]: title is required", i)
		}
		if w.Query.DateRange != "" {
			if err := w.Query.DateRange.Validate(); err != nil {
				return fmt.Errorf("widget[%d]: %w", i, err)
			}
		}
		if w.Position.X < 0 || w.Position.Y < 0 {
			return fmt.Errorf("widget[%d]: position must be non-negative", i)
		}
	}

	return nil
}
