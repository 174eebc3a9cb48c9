package shard

import (
	"reflect"
	"testing"
)

func TestDetectSchemaFormat(t *testing.T) {
	cases := []struct {
		name   string
		schema Schema
		want   SchemaFormat
	}{
		{"rich", Schema{"format": "rich", "fields": []interface{}{}}, FormatRich},
		{"jsonschema by $schema", Schema{"$schema": "http://json-schema.org/draft-07/schema#"}, FormatJSONSchema},
		{"jsonschema by type", Schema{"type": "object", "properties": map[string]interface{}{}}, FormatJSONSchema},
		{"legacy", Schema{"fields": []interface{}{}}, FormatLegacy},
		{"empty is legacy", Schema{}, FormatLegacy},
		{"rich wins over $schema", Schema{"format": "rich", "$schema": "x"}, FormatRich},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectSchemaFormat(tc.schema); got != tc.want {
				t.Errorf("DetectSchemaFormat = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSchemaPredicatesExclusive(t *testing.T) {
	schemas := []Schema{
		{"format": "rich"},
		{"$schema": "x"},
		{"type": "object"},
		{},
	}
	for _, s := range schemas {
		count := 0
		for _, pred := range []bool{IsRichSchema(s), IsJSONSchema(s), IsLegacySchema(s)} {
			if pred {
				count++
			}
		}
		if count != 1 {
			t.Errorf("schema %v matched %d predicates, want exactly 1", s, count)
		}
	}
}

func TestMergeSchemasRequiredUnion(t *testing.T) {
	parent := Schema{"required": []string{"a"}}
	child := Schema{"required": []string{"a", "b"}}

	merged := MergeSchemas(parent, child)

	want := []string{"a", "b"}
	if got := merged["required"]; !reflect.DeepEqual(got, want) {
		t.Errorf("required = %v, want %v", got, want)
	}
}

func TestMergeSchemasChildWinsProperties(t *testing.T) {
	parent := Schema{
		"type": "object",
		"properties": map[string]interface{}{
			"name":  map[string]interface{}{"type": "string"},
			"stage": map[string]interface{}{"type": "string"},
		},
	}
	child := Schema{
		"properties": map[string]interface{}{
			"stage": map[string]interface{}{"type": "string", "enum": []interface{}{"open", "won"}},
			"owner": map[string]interface{}{"type": "string"},
		},
	}

	merged := MergeSchemas(parent, child)
	props := merged["properties"].(map[string]interface{})

	for _, key := range []string{"name", "stage", "owner"} {
		if _, ok := props[key]; !ok {
			t.Errorf("expected property %q in merged schema", key)
		}
	}

	stage := props["stage"].(map[string]interface{})
	if _, ok := stage["enum"]; !ok {
		t.Error("expected child's stage definition to win")
	}

	if merged["type"] != "object" {
		t.Error("expected parent's top-level keys to survive merge")
	}
}

func TestMergeSchemasIdempotent(t *testing.T) {
	parent := Schema{"required": []string{"a", "b"}}
	child := Schema{"required": []string{"b", "c"}}

	once := MergeSchemas(parent, child)
	twice := MergeSchemas(once, child)

	if !reflect.DeepEqual(once["required"], twice["required"]) {
		t.Errorf("re-merge changed required: %v vs %v", once["required"], twice["required"])
	}
}

func TestMergeSchemasJSONShapedRequired(t *testing.T) {
	// required arrays arrive as []interface{} when decoded from JSON
	parent := Schema{"required": []interface{}{"a"}}
	child := Schema{"required": []interface{}{"b"}}

	merged := MergeSchemas(parent, child)
	if got := merged["required"]; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("required = %v, want [a b]", got)
	}
}
