package shard

import (
	"fmt"

	"github.com/dop251/goja"
)

// ComputedFieldType discriminates the computed field variants.
type ComputedFieldType string

const (
	ComputedFormula ComputedFieldType = "formula"
	ComputedRollup  ComputedFieldType = "rollup"
	ComputedLookup  ComputedFieldType = "lookup"
)

// FormulaConfig evaluates a JavaScript expression against the shard's
// data map, bound as `data`.
type FormulaConfig struct {
	Expression string `json:"expression"`
}

// RollupConfig aggregates a numeric field over related shards.
type RollupConfig struct {
	Relationship string `json:"relationship"`
	Field        string `json:"field"`
	Aggregate    string `json:"aggregate"` // "sum", "avg", "min", "max", "count"
}

// LookupConfig copies a field from the first related shard.
type LookupConfig struct {
	Relationship string `json:"relationship"`
	Field        string `json:"field"`
}

// ComputedField is a discriminated union: exactly the variant named by
// Type must be set.
type ComputedField struct {
	Name string            `json:"name"`
	Type ComputedFieldType `json:"type"`

	Formula *FormulaConfig `json:"formula,omitempty"`
	Rollup  *RollupConfig  `json:"rollup,omitempty"`
	Lookup  *LookupConfig  `json:"lookup,omitempty"`
}

// Validate enforces the exactly-one-variant rule.
func (f ComputedField) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("computed field name is required")
	}

	set := 0
	if f.Formula != nil {
		set++
	}
	if f.Rollup != nil {
		set++
	}
	if f.Lookup != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("computed field %q: exactly one variant config must be set, found %d", f.Name, set)
	}

	switch f.Type {
	case ComputedFormula:
		if f.Formula == nil {
			return fmt.Errorf("computed field %q: type is formula but formula config is missing", f.Name)
		}
		if f.Formula.Expression == "" {
			return fmt.Errorf("computed field %q: formula expression is required", f.Name)
		}
	case ComputedRollup:
		if f.Rollup == nil {
			return fmt.Errorf("computed field %q: type is rollup but rollup config is missing", f.Name)
		}
		switch f.Rollup.Aggregate {
		case "sum", "avg", "min", "max", "count":
		default:
			return fmt.Errorf("computed field %q: unknown aggregate %q", f.Name, f.Rollup.Aggregate)
		}
	case ComputedLookup:
		if f.Lookup == nil {
			return fmt.Errorf("computed field %q: type is lookup but lookup config is missing", f.Name)
		}
	default:
		return fmt.Errorf("computed field %q: unknown type %q", f.Name, f.Type)
	}

	return nil
}

// Evaluator computes derived field values.
type Evaluator struct{}

// NewEvaluator creates an evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Eval computes one field's value. related holds the shards reachable
// through the relationship named by rollup/lookup configs.
func (e *Evaluator) Eval(field ComputedField, data map[string]interface{}, related map[string][]*Shard) (interface{}, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}

	switch field.Type {
	case ComputedFormula:
		return e.evalFormula(field.Formula.Expression, data)
	case ComputedRollup:
		return e.evalRollup(field.Rollup, related)
	case ComputedLookup:
		return e.evalLookup(field.Lookup, related)
	default:
		return nil, fmt.Errorf("unknown computed field type %q", field.Type)
	}
}

func (e *Evaluator) evalFormula(expression string, data map[string]interface{}) (interface{}, error) {
	vm := goja.New()
	if err := vm.Set("data", data); err != nil {
		return nil, fmt.Errorf("failed to bind data: %w", err)
	}

	value, err := vm.RunString(expression)
	if err != nil {
		return nil, fmt.Errorf("formula evaluation failed: %w", err)
	}
	return value.Export(), nil
}

func (e *Evaluator) evalRollup(cfg *RollupConfig, related map[string][]*Shard) (interface{}, error) {
	shards := related[cfg.Relationship]

	if cfg.Aggregate == "count" {
		return len(shards), nil
	}

	var values []float64
	for _, s := range shards {
		if v, ok := toFloat(s.Data[cfg.Field]); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	switch cfg.Aggregate {
	case "sum":
		return sum(values), nil
	case "avg":
		return sum(values) / float64(len(values)), nil
	case "min":
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, nil
	case "max":
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, nil
	default:
		return nil, fmt.Errorf("unknown aggregate %q", cfg.Aggregate)
	}
}

func (e *Evaluator) evalLookup(cfg *LookupConfig, related map[string][]*Shard) (interface{}, error) {
	shards := related[cfg.Relationship]
	if len(shards) == 0 {
		return nil, nil
	}
	return shards[0].Data[cfg.Field], nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
