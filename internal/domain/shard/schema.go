package shard

// SchemaFormat identifies how a ShardType schema is expressed.
type SchemaFormat string

const (
	FormatLegacy     SchemaFormat = "legacy"
	FormatJSONSchema SchemaFormat = "jsonschema"
	FormatRich       SchemaFormat = "rich"
)

// Schema is a ShardType schema document. The three formats are
// distinguished by diagnostic keys, see DetectSchemaFormat.
type Schema map[string]interface{}

// DetectSchemaFormat classifies a schema document. The branches are
// mutually exclusive and exhaustive:
//   - format == "rich"                      -> rich
//   - has $schema, or type == "object"      -> jsonschema
//   - anything else                         -> legacy
func DetectSchemaFormat(s Schema) SchemaFormat {
	if f, ok := s["format"].(string); ok && f == string(FormatRich) {
		return FormatRich
	}
	if _, ok := s["$schema"]; ok {
		return FormatJSONSchema
	}
	if t, ok := s["type"].(string); ok && t == "object" {
		return FormatJSONSchema
	}
	return FormatLegacy
}

// IsRichSchema reports whether the schema uses the rich format.
func IsRichSchema(s Schema) bool {
	return DetectSchemaFormat(s) == FormatRich
}

// IsJSONSchema reports whether the schema is a JSON Schema document.
func IsJSONSchema(s Schema) bool {
	return DetectSchemaFormat(s) == FormatJSONSchema
}

// IsLegacySchema reports whether the schema uses the legacy field list.
func IsLegacySchema(s Schema) bool {
	return DetectSchemaFormat(s) == FormatLegacy
}

// MergeSchemas merges a child schema over a parent. Top-level keys from
// the child win. "properties" maps are merged one level deep with child
// precedence. "required" arrays are unioned with duplicates removed,
// parent entries first, so re-merging identical inputs is idempotent.
func MergeSchemas(parent, child Schema) Schema {
	merged := make(Schema, len(parent)+len(child))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}

	if props := mergeProperties(asMap(parent["properties"]), asMap(child["properties"])); props != nil {
		merged["properties"] = props
	}

	if required := unionRequired(asStrings(parent["required"]), asStrings(child["required"])); required != nil {
		merged["required"] = required
	}

	return merged
}

func mergeProperties(parent, child map[string]interface{}) map[string]interface{} {
	if parent == nil && child == nil {
		return nil
	}
	props := make(map[string]interface{}, len(parent)+len(child))
	for k, v := range parent {
		props[k] = v
	}
	for k, v := range child {
		props[k] = v
	}
	return props
}

func unionRequired(parent, child []string) []string {
	if parent == nil && child == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(parent)+len(child))
	union := make([]string, 0, len(parent)+len(child))
	for _, lists := range [][]string{parent, child} {
		for _, name := range lists {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			union = append(union, name)
		}
	}
	return union
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// asStrings tolerates both []string and []interface{} representations,
// since schemas arrive from JSON as the latter.
func asStrings(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
