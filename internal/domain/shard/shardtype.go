package shard

import (
	"fmt"
	"strings"

	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"github.com/Edgame2/castiel2-sub001/internal/shared/utils"
)

// CustomTypePrefix marks tenant-defined shard types.
const CustomTypePrefix = "c_"

// builtInShardTypes are the system-defined types available to every tenant.
var builtInShardTypes = map[string]struct{}{
	"document":    {},
	"contact":     {},
	"company":     {},
	"task":        {},
	"note":        {},
	"email":       {},
	"meeting":     {},
	"opportunity": {},
}

// IsBuiltInShardType reports whether id names a system-defined shard type.
func IsBuiltInShardType(id string) bool {
	_, ok := builtInShardTypes[id]
	return ok
}

// BuiltInShardTypeIDs returns the system-defined type IDs.
func BuiltInShardTypeIDs() []string {
	ids := make([]string, 0, len(builtInShardTypes))
	for id := range builtInShardTypes {
		ids = append(ids, id)
	}
	return ids
}

// ValidateShardTypeID checks a shard type identifier: either a built-in
// name or a c_-prefixed custom identifier.
func ValidateShardTypeID(id string) error {
	if err := utils.ValidateID(id, "shardTypeId", true); err != nil {
		return err
	}
	if IsBuiltInShardType(id) {
		return nil
	}
	if !strings.HasPrefix(id, CustomTypePrefix) {
		return fmt.Errorf("custom shard type id must start with %q", CustomTypePrefix)
	}
	if len(id) <= len(CustomTypePrefix) {
		return fmt.Errorf("custom shard type id must not be empty after the %q prefix", CustomTypePrefix)
	}
	return nil
}

// RelationshipDef declares an allowed relationship from one shard type
// to another.
type RelationshipDef struct {
	Name         string `json:"name" yaml:"name"`
	TargetTypeID string `json:"targetTypeId" yaml:"targetTypeId"`
	Cardinality  string `json:"cardinality" yaml:"cardinality"` // "one" or "many"
	Reverse      string `json:"reverse,omitempty" yaml:"reverse,omitempty"`
}

// SecurityConfig controls default visibility of shards of a type.
type SecurityConfig struct {
	DefaultVisibility string   `json:"defaultVisibility" yaml:"defaultVisibility"` // "private", "tenant", "public"
	AllowedRoles      []string `json:"allowedRoles,omitempty" yaml:"allowedRoles,omitempty"`
	PIIFields         []string `json:"piiFields,omitempty" yaml:"piiFields,omitempty"`
}

// ShardType governs a Shard's structured data, validation, relationships,
// and security posture. TypeID is the stable identifier referenced by
// shards; the envelope ID identifies the stored record itself.
type ShardType struct {
	types.Envelope

	TypeID        string            `json:"typeId"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	ParentTypeID  string            `json:"parentTypeId,omitempty"`
	Schema        Schema            `json:"schema"`
	Relationships []RelationshipDef `json:"relationships,omitempty"`
	Security      SecurityConfig    `json:"security"`
	Computed      []ComputedField   `json:"computedFields,omitempty"`
	Icon          string            `json:"icon,omitempty"`
	BuiltIn       bool              `json:"builtIn"`
}

// Validate checks the type definition for internal consistency.
func (t *ShardType) Validate() error {
	if err := ValidateShardTypeID(t.TypeID); err != nil {
		return err
	}
	if err := utils.ValidateName(t.Name, "name"); err != nil {
		return err
	}
	if err := utils.ValidateDescription(t.Description, "description", false); err != nil {
		return err
	}
	if t.Schema == nil {
		return fmt.Errorf("schema is required")
	}
	for _, rel := range t.Relationships {
		if rel.Cardinality != "one" && rel.Cardinality != "many" {
			return fmt.Errorf("relationship %q: cardinality must be one or many", rel.Name)
		}
		if rel.TargetTypeID == "" {
			return fmt.Errorf("relationship %q: targetTypeId is required", rel.Name)
		}
	}
	for _, cf := range t.Computed {
		if err := cf.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RequiredFields extracts the required data field names from the schema,
// regardless of format.
func (t *ShardType) RequiredFields() []string {
	switch DetectSchemaFormat(t.Schema) {
	case FormatJSONSchema, FormatRich:
		return asStrings(t.Schema["required"])
	default:
		// Legacy schemas list fields with a required flag.
		fields, _ := t.Schema["fields"].([]interface{})
		var required []string
		for _, f := range fields {
			fm, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := fm["name"].(string)
			if req, _ := fm["required"].(bool); req && name != "" {
				required = append(required, name)
			}
		}
		return required
	}
}
