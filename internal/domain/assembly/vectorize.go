package assembly

import "fmt"

// ChunkingStrategy selects how source text is split before embedding.
type ChunkingStrategy string

const (
	ChunkFixedSize ChunkingStrategy = "fixed_size"
	ChunkSentence  ChunkingStrategy = "sentence"
	ChunkParagraph ChunkingStrategy = "paragraph"
)

// TextSourceFormat tells the extractor how to treat raw source bytes.
type TextSourceFormat string

const (
	SourceText TextSourceFormat = "text"
	SourceHTML TextSourceFormat = "html"
)

// TextSource names one shard data field contributing text to the
// embedding, weighted 0-1.
type TextSource struct {
	Path   string           `json:"path"` // data field path, e.g. "body"
	Weight float64          `json:"weight"`
	Format TextSourceFormat `json:"format,omitempty"` // defaults to text
}

// VectorizationConfig controls how shards of a type are embedded.
type VectorizationConfig struct {
	Enabled          bool             `json:"enabled"`
	Model            EmbeddingModel   `json:"model"`
	ChunkingStrategy ChunkingStrategy `json:"chunkingStrategy"`
	ChunkSize        int              `json:"chunkSize,omitempty"`    // tokens, fixed_size only
	ChunkOverlap     int              `json:"chunkOverlap,omitempty"` // tokens, fixed_size only
	TextSources      []TextSource     `json:"textSources"`
}

// DefaultVectorizationConfig returns the configuration applied to types
// that enable vectorization without customizing it.
func DefaultVectorizationConfig() VectorizationConfig {
	return VectorizationConfig{
		Enabled:          true,
		Model:            DefaultEmbeddingModel,
		ChunkingStrategy: ChunkFixedSize,
		ChunkSize:        512,
		ChunkOverlap:     64,
		TextSources:      []TextSource{{Path: "body", Weight: 1.0, Format: SourceText}},
	}
}

// ValidateVectorizationConfig checks a config and returns every
// violation found. An empty slice means the config is valid.
func ValidateVectorizationConfig(c VectorizationConfig) []string {
	var errs []string

	if len(c.TextSources) == 0 {
		errs = append(errs, "at least one text source is required")
	}
	for i, src := range c.TextSources {
		if src.Path == "" {
			errs = append(errs, fmt.Sprintf("textSources[%d]: path is required", i))
		}
		if src.Weight < 0 || src.Weight > 1 {
			errs = append(errs, fmt.Sprintf("textSources[%d]: weight must be between 0 and 1", i))
		}
		switch src.Format {
		case "", SourceText, SourceHTML:
		default:
			errs = append(errs, fmt.Sprintf("textSources[%d]: unknown format %q", i, src.Format))
		}
	}

	switch c.ChunkingStrategy {
	case ChunkFixedSize:
		if c.ChunkSize <= 0 {
			errs = append(errs, "chunkSize must be positive for fixed_size chunking")
		}
		if c.ChunkOverlap < 0 {
			errs = append(errs, "chunkOverlap must not be negative")
		}
		if c.ChunkSize > 0 && c.ChunkOverlap >= c.ChunkSize {
			errs = append(errs, "chunkOverlap must be smaller than chunkSize")
		}
	case ChunkSentence, ChunkParagraph:
	default:
		errs = append(errs, fmt.Sprintf("unknown chunking strategy %q", c.ChunkingStrategy))
	}

	if c.Model != "" {
		if _, ok := EmbeddingModels[c.Model]; !ok {
			errs = append(errs, fmt.Sprintf("unknown embedding model %q", c.Model))
		}
	}

	return errs
}
