package shard

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

//go:embed builtin_types.yaml
var builtinTypesYAML []byte

type seedFile struct {
	Types []seedType `yaml:"types"`
}

type seedType struct {
	TypeID        string            `yaml:"typeId"`
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Icon          string            `yaml:"icon"`
	Schema        Schema            `yaml:"schema"`
	Security      SecurityConfig    `yaml:"security"`
	Relationships []RelationshipDef `yaml:"relationships"`
}

// SeedBuiltInTypes registers the embedded built-in shard types under the
// system tenant. Safe to call once at startup.
func (m *Manager) SeedBuiltInTypes() error {
	var file seedFile
	if err := yaml.Unmarshal(builtinTypesYAML, &file); err != nil {
		return fmt.Errorf("failed to parse built-in type definitions: %w", err)
	}

	var loaded int
	for _, seed := range file.Types {
		if !IsBuiltInShardType(seed.TypeID) {
			return fmt.Errorf("seed type %q is not a known built-in", seed.TypeID)
		}
		t := &ShardType{
			TypeID:        seed.TypeID,
			Name:          seed.Name,
			Description:   seed.Description,
			Icon:          seed.Icon,
			Schema:        seed.Schema,
			Security:      seed.Security,
			Relationships: seed.Relationships,
			BuiltIn:       true,
		}
		t.TenantID = SystemTenant
		if err := m.CreateType(t); err != nil {
			return fmt.Errorf("failed to seed type %q: %w", seed.TypeID, err)
		}
		loaded++
	}

	m.logger.Info("Built-in shard types seeded", zap.Int("count", loaded))
	return nil
}
