package assembly

import (
	"strings"
	"testing"
)

func hasViolation(errs []string, fragment string) bool {
	for _, e := range errs {
		if strings.Contains(e, fragment) {
			return true
		}
	}
	return false
}

func TestValidateVectorizationConfigValid(t *testing.T) {
	cfg := VectorizationConfig{
		Enabled:          true,
		Model:            TextEmbedding3Small,
		ChunkingStrategy: ChunkFixedSize,
		ChunkSize:        512,
		ChunkOverlap:     64,
		TextSources:      []TextSource{{Path: "body", Weight: 1.0}},
	}
	if errs := ValidateVectorizationConfig(cfg); len(errs) != 0 {
		t.Errorf("expected no violations, got %v", errs)
	}
}

func TestValidateVectorizationConfigDefault(t *testing.T) {
	if errs := ValidateVectorizationConfig(DefaultVectorizationConfig()); len(errs) != 0 {
		t.Errorf("default config should validate, got %v", errs)
	}
}

func TestValidateVectorizationConfigAccumulates(t *testing.T) {
	cfg := VectorizationConfig{
		Model:            EmbeddingModel("bogus"),
		ChunkingStrategy: ChunkFixedSize,
		ChunkSize:        0,
	}
	errs := ValidateVectorizationConfig(cfg)
	if len(errs) < 3 {
		t.Fatalf("expected at least 3 violations, got %d: %v", len(errs), errs)
	}
	if !hasViolation(errs, "text source") {
		t.Error("missing text-source violation")
	}
	if !hasViolation(errs, "chunkSize") {
		t.Error("missing chunkSize violation")
	}
	if !hasViolation(errs, "unknown embedding model") {
		t.Error("missing model violation")
	}
}

func TestValidateVectorizationConfigOverlap(t *testing.T) {
	cfg := DefaultVectorizationConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	errs := ValidateVectorizationConfig(cfg)
	if !hasViolation(errs, "overlap") {
		t.Errorf("expected overlap violation, got %v", errs)
	}
}

func TestValidateVectorizationConfigSourceBounds(t *testing.T) {
	cfg := DefaultVectorizationConfig()
	cfg.TextSources = []TextSource{
		{Path: "", Weight: 1.5},
		{Path: "notes", Weight: 0.5, Format: TextSourceFormat("pdf")},
	}
	errs := ValidateVectorizationConfig(cfg)
	if !hasViolation(errs, "textSources[0]: path is required") {
		t.Errorf("missing path violation: %v", errs)
	}
	if !hasViolation(errs, "textSources[0]: weight") {
		t.Errorf("missing weight violation: %v", errs)
	}
	if !hasViolation(errs, "textSources[1]: unknown format") {
		t.Errorf("missing format violation: %v", errs)
	}
}

func TestValidateVectorizationConfigSentenceStrategy(t *testing.T) {
	cfg := VectorizationConfig{
		ChunkingStrategy: ChunkSentence,
		TextSources:      []TextSource{{Path: "body", Weight: 1}},
	}
	// sentence chunking needs no chunkSize
	if errs := ValidateVectorizationConfig(cfg); len(errs) != 0 {
		t.Errorf("expected no violations, got %v", errs)
	}
}

func TestValidateEnrichmentConfig(t *testing.T) {
	if errs := ValidateEnrichmentConfig(DefaultEnrichmentConfig()); len(errs) != 0 {
		t.Errorf("default config should validate, got %v", errs)
	}

	// Disabled configs pass regardless of other fields.
	if errs := ValidateEnrichmentConfig(EnrichmentConfig{Temperature: 9}); len(errs) != 0 {
		t.Errorf("disabled config should validate, got %v", errs)
	}

	bad := EnrichmentConfig{Enabled: true, Temperature: 3}
	errs := ValidateEnrichmentConfig(bad)
	if !hasViolation(errs, "model is required") {
		t.Errorf("missing model violation: %v", errs)
	}
	if !hasViolation(errs, "summarize or extractEntities") {
		t.Errorf("missing task violation: %v", errs)
	}
	if !hasViolation(errs, "maxInputTokens") {
		t.Errorf("missing token violation: %v", errs)
	}
	if !hasViolation(errs, "temperature") {
		t.Errorf("missing temperature violation: %v", errs)
	}
}
