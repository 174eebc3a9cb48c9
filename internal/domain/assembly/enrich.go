package assembly

import "fmt"

// EnrichmentConfig controls LLM post-processing of ingested content:
// summarization and entity extraction before indexing.
type EnrichmentConfig struct {
	Enabled         bool    `json:"enabled"`
	Model           string  `json:"model"`
	Summarize       bool    `json:"summarize"`
	ExtractEntities bool    `json:"extractEntities"`
	MaxInputTokens  int     `json:"maxInputTokens"`
	Temperature     float64 `json:"temperature"`
}

// DefaultEnrichmentConfig returns the enrichment defaults.
func DefaultEnrichmentConfig() EnrichmentConfig {
	return EnrichmentConfig{
		Enabled:        false,
		Model:          "gpt-4o-mini",
		Summarize:      true,
		MaxInputTokens: 4000,
		Temperature:    0.2,
	}
}

// ValidateEnrichmentConfig checks a config and returns every violation
// found. Violations are accumulated rather than thrown so callers see
// the full picture in one pass, matching ValidateVectorizationConfig.
func ValidateEnrichmentConfig(c EnrichmentConfig) []string {
	var errs []string

	if !c.Enabled {
		return errs
	}

	if c.Model == "" {
		errs = append(errs, "model is required when enrichment is enabled")
	}
	if !c.Summarize && !c.ExtractEntities {
		errs = append(errs, "at least one of summarize or extractEntities must be enabled")
	}
	if c.MaxInputTokens <= 0 {
		errs = append(errs, "maxInputTokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("temperature %g is outside the valid range [0, 2]", c.Temperature))
	}

	return errs
}
