package assembly

import (
	"fmt"
	"time"
)

// ScoringWeights tune how candidate context items are ranked before
// packing. Weights are percentages and must sum to 100.
type ScoringWeights struct {
	Relevance  int `json:"relevance"`
	Recency    int `json:"recency"`
	Importance int `json:"importance"`
}

// DefaultScoringWeights returns the standard ranking mix.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Relevance: 60, Recency: 25, Importance: 15}
}

// Validate returns every violation found in the weights.
func (w ScoringWeights) Validate() []string {
	var errs []string
	for name, v := range map[string]int{
		"relevance":  w.Relevance,
		"recency":    w.Recency,
		"importance": w.Importance,
	} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 100", name))
		}
	}
	if sum := w.Relevance + w.Recency + w.Importance; sum != 100 {
		errs = append(errs, fmt.Sprintf("weights must sum to 100, got %d", sum))
	}
	return errs
}

// ContextItem is one scored candidate for inclusion in an assembled
// context: a shard excerpt plus its ranking signals.
type ContextItem struct {
	ShardID     string    `json:"shardId"`
	ShardTypeID string    `json:"shardTypeId"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Tokens      int       `json:"tokens"`
	Relevance   float64   `json:"relevance"`  // 0-1, vector similarity
	Importance  float64   `json:"importance"` // 0-1, caller-supplied
	UpdatedAt   time.Time `json:"updatedAt"`
	Score       float64   `json:"score"` // composite, filled by the assembler
}

// AssembledContext is the output of a packing run: the items that fit
// the budget plus accounting for the ones that did not.
type AssembledContext struct {
	TenantID     string        `json:"tenantId"`
	Items        []ContextItem `json:"items"`
	TokensUsed   int           `json:"tokensUsed"`
	TokenBudget  int           `json:"tokenBudget"`
	Truncated    int           `json:"truncated"` // candidates dropped for budget
	QualityScore float64       `json:"qualityScore"`
	AssembledAt  time.Time     `json:"assembledAt"`
	CacheHit     bool          `json:"cacheHit"`
}
