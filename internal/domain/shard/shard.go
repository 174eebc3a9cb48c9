package shard

import (
	"fmt"

	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
	"github.com/Edgame2/castiel2-sub001/internal/shared/utils"
)

// Relationship links a shard to another shard under a named relation.
type Relationship struct {
	Name          string `json:"name"`
	TargetShardID string `json:"targetShardId"`
}

// ACL controls per-shard access on top of the type's security defaults.
type ACL struct {
	OwnerID    string   `json:"ownerId"`
	Visibility string   `json:"visibility,omitempty"` // overrides type default when set
	SharedWith []string `json:"sharedWith,omitempty"`
}

// Shard is the platform's generic content unit, typed by a ShardType.
type Shard struct {
	types.Envelope

	ShardTypeID   string                 `json:"shardTypeId"`
	Title         string                 `json:"title"`
	Data          map[string]interface{} `json:"data"`
	Computed      map[string]interface{} `json:"computed,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Relationships []Relationship         `json:"relationships,omitempty"`
	ACL           ACL                    `json:"acl"`
}

// ValidateAgainst checks the shard's data against its type's schema:
// required fields must be present and non-nil.
func (s *Shard) ValidateAgainst(t *ShardType) error {
	if s.ShardTypeID != t.TypeID {
		return fmt.Errorf("shard type mismatch: shard has %q, type is %q", s.ShardTypeID, t.TypeID)
	}
	if err := utils.ValidateString(s.Title, "title", 1, utils.MaxNameLength, true); err != nil {
		return err
	}
	if err := utils.ValidateTags(s.Tags); err != nil {
		return err
	}

	for _, field := range t.RequiredFields() {
		v, ok := s.Data[field]
		if !ok || v == nil {
			return fmt.Errorf("required field %q is missing", field)
		}
	}

	allowed := make(map[string]RelationshipDef, len(t.Relationships))
	for _, def := range t.Relationships {
		allowed[def.Name] = def
	}
	counts := make(map[string]int)
	for _, rel := range s.Relationships {
		def, ok := allowed[rel.Name]
		if !ok {
			return fmt.Errorf("relationship %q is not declared on type %q", rel.Name, t.TypeID)
		}
		counts[rel.Name]++
		if def.Cardinality == "one" && counts[rel.Name] > 1 {
			return fmt.Errorf("relationship %q allows a single target", rel.Name)
		}
	}

	return nil
}
