package shard

import (
	"sync"
	"testing"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/shared/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(logging.NewDevelopment())
	if err := m.SeedBuiltInTypes(); err != nil {
		t.Fatalf("SeedBuiltInTypes failed: %v", err)
	}
	return m
}

func TestIsBuiltInShardType(t *testing.T) {
	if !IsBuiltInShardType("document") {
		t.Error("expected document to be built-in")
	}
	if IsBuiltInShardType("c_custom_anything") {
		t.Error("expected c_custom_anything not to be built-in")
	}
}

func TestValidateShardTypeID(t *testing.T) {
	if err := ValidateShardTypeID("document"); err != nil {
		t.Errorf("built-in id should validate: %v", err)
	}
	if err := ValidateShardTypeID("c_invoice"); err != nil {
		t.Errorf("custom id should validate: %v", err)
	}
	if err := ValidateShardTypeID("invoice"); err == nil {
		t.Error("expected error for custom id without c_ prefix")
	}
	if err := ValidateShardTypeID("c_"); err == nil {
		t.Error("expected error for empty custom id")
	}
}

func TestSeedBuiltInTypes(t *testing.T) {
	m := newTestManager(t)

	for _, id := range BuiltInShardTypeIDs() {
		st, ok := m.GetType("acme", id)
		if !ok {
			t.Errorf("expected built-in type %q to resolve for any tenant", id)
			continue
		}
		if !st.BuiltIn {
			t.Errorf("type %q should be marked built-in", id)
		}
	}
}

func TestCreateShardAgainstBuiltIn(t *testing.T) {
	m := newTestManager(t)

	s := &Shard{
		ShardTypeID: "contact",
		Title:       "Ada Lovelace",
		Data:        map[string]interface{}{"lastName": "Lovelace", "email": "ada@example.com"},
	}
	s.TenantID = "acme"

	if err := m.Create(s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.ID == "" {
		t.Error("expected generated shard ID")
	}

	got, ok := m.Get("acme", s.ID)
	if !ok {
		t.Fatal("expected to retrieve created shard")
	}
	if got.Title != "Ada Lovelace" {
		t.Errorf("unexpected title %q", got.Title)
	}
}

func TestCreateShardMissingRequiredField(t *testing.T) {
	m := newTestManager(t)

	s := &Shard{
		ShardTypeID: "contact",
		Title:       "No Last Name",
		Data:        map[string]interface{}{"firstName": "X"},
	}
	s.TenantID = "acme"

	if err := m.Create(s); err == nil {
		t.Error("expected error for missing required field")
	}
}

func TestCustomTypeWithParentMerge(t *testing.T) {
	m := newTestManager(t)

	child := &ShardType{
		TypeID:       "c_vip_contact",
		Name:         "VIP Contact",
		ParentTypeID: "contact",
		Schema: Schema{
			"type": "object",
			"properties": map[string]interface{}{
				"tier": map[string]interface{}{"type": "string"},
			},
			"required": []string{"tier"},
		},
	}
	child.TenantID = "acme"

	if err := m.CreateType(child); err != nil {
		t.Fatalf("CreateType failed: %v", err)
	}

	got, ok := m.GetType("acme", "c_vip_contact")
	if !ok {
		t.Fatal("expected type to exist")
	}

	required := got.RequiredFields()
	want := map[string]bool{"lastName": false, "tier": false}
	for _, f := range required {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("expected %q in merged required fields, got %v", f, required)
		}
	}
}

func TestComputedFieldsOnCreate(t *testing.T) {
	m := newTestManager(t)

	typ := &ShardType{
		TypeID: "c_order",
		Name:   "Order",
		Schema: Schema{
			"type": "object",
			"properties": map[string]interface{}{
				"amount": map[string]interface{}{"type": "number"},
				"qty":    map[string]interface{}{"type": "number"},
			},
			"required": []string{"amount", "qty"},
		},
		Computed: []ComputedField{
			{
				Name:    "total",
				Type:    ComputedFormula,
				Formula: &FormulaConfig{Expression: "data.amount * data.qty"},
			},
		},
	}
	typ.TenantID = "acme"
	if err := m.CreateType(typ); err != nil {
		t.Fatalf("CreateType failed: %v", err)
	}

	s := &Shard{
		ShardTypeID: "c_order",
		Title:       "Order 1",
		Data:        map[string]interface{}{"amount": 12.5, "qty": 4.0},
	}
	s.TenantID = "acme"
	if err := m.Create(s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if s.Computed["total"] != 50.0 {
		t.Errorf("expected computed total 50, got %v", s.Computed["total"])
	}
}

func TestSoftDelete(t *testing.T) {
	m := newTestManager(t)

	s := &Shard{
		ShardTypeID: "note",
		Title:       "scratch",
		Data:        map[string]interface{}{"body": "hello"},
	}
	s.TenantID = "acme"
	if err := m.Create(s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := m.Delete("acme", s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, ok := m.Get("acme", s.ID); ok {
		t.Error("expected deleted shard to be invisible")
	}

	v, ok := m.shards.Load(shardKey("acme", s.ID))
	if !ok {
		t.Fatal("soft-deleted shard should remain stored")
	}
	stored := v.(*Shard)
	if stored.DeletedAt == nil {
		t.Error("expected DeletedAt to be set")
	}
	if stored.TTL == nil || *stored.TTL != DeletedShardTTLSeconds {
		t.Error("expected TTL to schedule storage expiry")
	}
	// Delete replaces the stored record; the one created above is untouched.
	if s.DeletedAt != nil {
		t.Error("loaded shard mutated by delete")
	}
}

func TestDeleteConcurrentWithList(t *testing.T) {
	m := newTestManager(t)

	var ids []string
	for i := 0; i < 8; i++ {
		s := &Shard{
			ShardTypeID: "note",
			Title:       "scratch",
			Data:        map[string]interface{}{"body": "hello"},
		}
		s.TenantID = "acme"
		if err := m.Create(s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, s.ID)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, id := range ids {
			if err := m.Delete("acme", id); err != nil {
				t.Errorf("Delete failed: %v", err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			for _, s := range m.List("acme", "", types.ListOptions{}) {
				_ = s.Deleted()
			}
		}
	}()
	wg.Wait()

	if got := m.List("acme", "", types.ListOptions{}); len(got) != 0 {
		t.Errorf("live shards after delete = %d, want 0", len(got))
	}
}

func TestTenantIsolation(t *testing.T) {
	m := newTestManager(t)

	s := &Shard{
		ShardTypeID: "note",
		Title:       "private",
		Data:        map[string]interface{}{"body": "secret"},
	}
	s.TenantID = "acme"
	if err := m.Create(s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, ok := m.Get("globex", s.ID); ok {
		t.Error("expected shard to be invisible to other tenants")
	}
	if got := m.List("globex", "", types.ListOptions{}); len(got) != 0 {
		t.Errorf("expected empty list for other tenant, got %d", len(got))
	}
}

func TestListFiltersByType(t *testing.T) {
	m := newTestManager(t)

	for i, typeID := range []string{"note", "note", "task"} {
		data := map[string]interface{}{"body": "x"}
		if typeID == "task" {
			data = map[string]interface{}{"status": "open"}
		}
		s := &Shard{ShardTypeID: typeID, Title: "t", Data: data}
		s.TenantID = "acme"
		if err := m.Create(s); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	if got := m.List("acme", "note", types.ListOptions{}); len(got) != 2 {
		t.Errorf("expected 2 notes, got %d", len(got))
	}
	if got := m.List("acme", "", types.ListOptions{}); len(got) != 3 {
		t.Errorf("expected 3 shards, got %d", len(got))
	}
}

func TestDeleteBuiltInTypeRejected(t *testing.T) {
	m := newTestManager(t)

	if err := m.DeleteType("acme", "document"); err == nil {
		t.Error("expected error deleting built-in type")
	}
}
