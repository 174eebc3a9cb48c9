package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Definition describes an adapter: identity, the kind of system it
// talks to, and the capabilities it advertises for discovery.
type Definition struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Kind         ConnectionKind `json:"kind"`
	Description  string         `json:"description"`
	Capabilities []string       `json:"capabilities"`
	Actions      []string       `json:"actions"`
}

// Result is the outcome of an adapter action.
type Result struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Adapter is implemented by every external-system integration.
type Adapter interface {
	Definition() Definition
	Execute(ctx context.Context, action string, conn *Connection, params map[string]interface{}) (*Result, error)
}

// Registry manages adapter discovery and execution.
type Registry struct {
	adapters sync.Map
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an adapter.
func (r *Registry) Register(adapter Adapter) error {
	def := adapter.Definition()
	if def.ID == "" {
		return fmt.Errorf("adapter ID cannot be empty")
	}
	r.adapters.Store(def.ID, adapter)
	return nil
}

// Unregister removes an adapter.
func (r *Registry) Unregister(adapterID string) {
	r.adapters.Delete(adapterID)
}

// Get retrieves an adapter by ID.
func (r *Registry) Get(adapterID string) (Adapter, bool) {
	val, ok := r.adapters.Load(adapterID)
	if !ok {
		return nil, false
	}
	return val.(Adapter), true
}

// List returns all registered adapter definitions, optionally filtered
// by kind.
func (r *Registry) List(kind *ConnectionKind) []Definition {
	var defs []Definition
	r.adapters.Range(func(_, value interface{}) bool {
		def := value.(Adapter).Definition()
		if kind == nil || def.Kind == *kind {
			defs = append(defs, def)
		}
		return true
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Discover finds the adapters most relevant to a free-text intent,
// scored against name, description, capabilities and kind.
func (r *Registry) Discover(intent string, limit int) []Definition {
	type scored struct {
		def   Definition
		score float64
	}

	intentLower := strings.ToLower(intent)
	var results []scored

	r.adapters.Range(func(_, value interface{}) bool {
		def := value.(Adapter).Definition()
		score := relevance(intentLower, def)
		if score > 0 {
			results = append(results, scored{def: def, score: score})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]Definition, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		out = append(out, results[i].def)
	}
	return out
}

// Execute runs an adapter action for a connection.
func (r *Registry) Execute(ctx context.Context, conn *Connection, action string, params map[string]interface{}) (*Result, error) {
	adapter, ok := r.Get(conn.AdapterID)
	if !ok {
		return &Result{Success: false, Error: "adapter not found: " + conn.AdapterID},
			fmt.Errorf("adapter not found: %s", conn.AdapterID)
	}
	return adapter.Execute(ctx, action, conn, params)
}

// Stats returns registry statistics keyed for the admin API.
func (r *Registry) Stats() map[string]interface{} {
	var total, totalActions int
	kinds := make(map[string]int)

	r.adapters.Range(func(_, value interface{}) bool {
		def := value.(Adapter).Definition()
		total++
		totalActions += len(def.Actions)
		kinds[string(def.Kind)]++
		return true
	})

	return map[string]interface{}{
		"total_adapters": total,
		"total_actions":  totalActions,
		"kinds":          kinds,
	}
}

func relevance(intent string, def Definition) float64 {
	score := 0.0

	if strings.Contains(intent, def.ID) || strings.Contains(intent, strings.ToLower(def.Name)) {
		score += 10.0
	}

	for _, word := range strings.Fields(strings.ToLower(def.Description)) {
		if strings.Contains(intent, word) {
			score += 5.0
		}
	}

	for _, cap := range def.Capabilities {
		capClean := strings.ReplaceAll(strings.ToLower(cap), "_", " ")
		if strings.Contains(intent, capClean) {
			score += 3.0
		}
	}

	if strings.Contains(intent, string(def.Kind)) {
		score += 2.0
	}

	return score
}
