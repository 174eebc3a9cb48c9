package utils

import "testing"

func TestValidateTenantID(t *testing.T) {
	valid := []string{"acme", "acme-corp", "t-42"}
	for _, id := range valid {
		if err := ValidateTenantID(id); err != nil {
			t.Errorf("expected %q to be valid: %v", id, err)
		}
	}

	invalid := []string{"", "Acme", "acme corp", "acme_corp"}
	for _, id := range invalid {
		if err := ValidateTenantID(id); err == nil {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("shard_42-a", "id", true); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateID("bad id", "id", true); err == nil {
		t.Error("expected error for id with spaces")
	}
	if err := ValidateID("", "id", false); err != nil {
		t.Errorf("optional empty id should pass: %v", err)
	}
}

func TestValidateTags(t *testing.T) {
	if err := ValidateTags([]string{"crm", "pipeline"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	many := make([]string, MaxTagCount+1)
	for i := range many {
		many[i] = "t"
	}
	if err := ValidateTags(many); err == nil {
		t.Error("expected error for too many tags")
	}
}
