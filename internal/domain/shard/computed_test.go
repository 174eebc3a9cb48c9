package shard

import "testing"

func TestComputedFieldValidate(t *testing.T) {
	valid := ComputedField{
		Name:    "total",
		Type:    ComputedFormula,
		Formula: &FormulaConfig{Expression: "data.amount * data.qty"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	twoVariants := ComputedField{
		Name:    "bad",
		Type:    ComputedFormula,
		Formula: &FormulaConfig{Expression: "1"},
		Rollup:  &RollupConfig{Relationship: "r", Field: "f", Aggregate: "sum"},
	}
	if err := twoVariants.Validate(); err == nil {
		t.Error("expected error when two variants are set")
	}

	mismatched := ComputedField{
		Name:   "bad",
		Type:   ComputedFormula,
		Rollup: &RollupConfig{Relationship: "r", Field: "f", Aggregate: "sum"},
	}
	if err := mismatched.Validate(); err == nil {
		t.Error("expected error when variant does not match type")
	}

	badAggregate := ComputedField{
		Name:   "bad",
		Type:   ComputedRollup,
		Rollup: &RollupConfig{Relationship: "r", Field: "f", Aggregate: "median"},
	}
	if err := badAggregate.Validate(); err == nil {
		t.Error("expected error for unknown aggregate")
	}
}

func TestEvalFormula(t *testing.T) {
	e := NewEvaluator()
	field := ComputedField{
		Name:    "total",
		Type:    ComputedFormula,
		Formula: &FormulaConfig{Expression: "data.amount * data.qty"},
	}

	got, err := e.Eval(field, map[string]interface{}{"amount": 10.0, "qty": 3.0}, nil)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got != 30.0 {
		t.Errorf("expected 30, got %v", got)
	}
}

func TestEvalFormulaSyntaxError(t *testing.T) {
	e := NewEvaluator()
	field := ComputedField{
		Name:    "broken",
		Type:    ComputedFormula,
		Formula: &FormulaConfig{Expression: "data.("},
	}

	if _, err := e.Eval(field, map[string]interface{}{}, nil); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestEvalRollup(t *testing.T) {
	e := NewEvaluator()
	related := map[string][]*Shard{
		"lines": {
			{Data: map[string]interface{}{"amount": 100.0}},
			{Data: map[string]interface{}{"amount": 250.0}},
			{Data: map[string]interface{}{"amount": 50.0}},
		},
	}

	cases := []struct {
		aggregate string
		want      interface{}
	}{
		{"sum", 400.0},
		{"avg", 400.0 / 3},
		{"min", 50.0},
		{"max", 250.0},
		{"count", 3},
	}

	for _, tc := range cases {
		field := ComputedField{
			Name:   "agg",
			Type:   ComputedRollup,
			Rollup: &RollupConfig{Relationship: "lines", Field: "amount", Aggregate: tc.aggregate},
		}
		got, err := e.Eval(field, nil, related)
		if err != nil {
			t.Fatalf("%s: Eval failed: %v", tc.aggregate, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.aggregate, got, tc.want)
		}
	}
}

func TestEvalRollupNoRelated(t *testing.T) {
	e := NewEvaluator()
	field := ComputedField{
		Name:   "total",
		Type:   ComputedRollup,
		Rollup: &RollupConfig{Relationship: "lines", Field: "amount", Aggregate: "sum"},
	}

	got, err := e.Eval(field, nil, map[string][]*Shard{})
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for empty rollup, got %v", got)
	}
}

func TestEvalLookup(t *testing.T) {
	e := NewEvaluator()
	related := map[string][]*Shard{
		"company": {
			{Data: map[string]interface{}{"name": "Acme"}},
		},
	}
	field := ComputedField{
		Name:   "companyName",
		Type:   ComputedLookup,
		Lookup: &LookupConfig{Relationship: "company", Field: "name"},
	}

	got, err := e.Eval(field, nil, related)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got != "Acme" {
		t.Errorf("expected Acme, got %v", got)
	}
}
