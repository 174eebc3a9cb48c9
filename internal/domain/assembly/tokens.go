package assembly

import (
	"net/http"
	"unicode/utf8"
)

// EmbeddingModel identifies an embedding model. The string values are
// sent to the provider API and persisted in configs; they must match the
// provider's model names exactly.
type EmbeddingModel string

const (
	TextEmbeddingAda002 EmbeddingModel = "text-embedding-ada-002"
	TextEmbedding3Small EmbeddingModel = "text-embedding-3-small"
	TextEmbedding3Large EmbeddingModel = "text-embedding-3-large"
)

// ModelInfo holds static per-model configuration.
type ModelInfo struct {
	Dimensions int     `json:"dimensions"`
	CostPer1K  float64 `json:"costPer1k"` // USD per 1000 tokens
	MaxTokens  int     `json:"maxTokens"`
}

// EmbeddingModels is the static model table; configuration data, not
// mutable state.
var EmbeddingModels = map[EmbeddingModel]ModelInfo{
	TextEmbeddingAda002: {Dimensions: 1536, CostPer1K: 0.0001, MaxTokens: 8191},
	TextEmbedding3Small: {Dimensions: 1536, CostPer1K: 0.00002, MaxTokens: 8191},
	TextEmbedding3Large: {Dimensions: 3072, CostPer1K: 0.00013, MaxTokens: 8191},
}

// DefaultEmbeddingModel is used when a config names none.
const DefaultEmbeddingModel = TextEmbedding3Small

// EstimateTokens approximates the token count of a text using the
// four-characters-per-token heuristic, rounded up. Exact counts require
// the model tokenizer; this is close enough for budgeting and costing.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	chars := utf8.RuneCountInString(text)
	return (chars + 3) / 4
}

// EmbeddingCost returns the USD cost of embedding tokenCount tokens
// with the given model.
func EmbeddingCost(tokenCount int, model EmbeddingModel) (float64, error) {
	info, ok := EmbeddingModels[model]
	if !ok {
		return 0, NewEmbeddingError(CodeUnknownModel, http.StatusBadRequest, "unknown embedding model "+string(model))
	}
	return float64(tokenCount) / 1000 * info.CostPer1K, nil
}
