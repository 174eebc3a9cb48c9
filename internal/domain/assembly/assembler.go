package assembly

import (
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// recencyHalfLife controls how fast the recency signal decays. An item
// updated one half-life ago scores 0.5, two half-lives ago 0.25.
const recencyHalfLife = 30 * 24 * time.Hour

// Assembler packs scored candidates into token-budgeted contexts and
// memoizes results per query hash.
type Assembler struct {
	budget  int
	weights ScoringWeights
	cache   *SearchCache
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewAssembler creates an assembler with the given token budget and
// cache capacity. An invalid weight mix is reported up front rather
// than skewing every subsequent ranking.
func NewAssembler(budget, cacheSize int, weights ScoringWeights, logger *logging.Logger) (*Assembler, error) {
	if budget <= 0 {
		return nil, NewVectorSearchError(CodeInvalidConfig, http.StatusBadRequest, "token budget must be positive")
	}
	if errs := weights.Validate(); len(errs) > 0 {
		return nil, NewVectorSearchError(CodeInvalidConfig, http.StatusBadRequest, errs[0])
	}
	cache, err := NewSearchCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		budget:  budget,
		weights: weights,
		cache:   cache,
		logger:  logger.Named("assembler"),
	}, nil
}

// WithMetrics attaches a metrics sink.
func (a *Assembler) WithMetrics(m *monitoring.Metrics) *Assembler {
	a.metrics = m
	return a
}

// Assemble ranks the candidates for req and packs the best into the
// token budget. Results are cached by query hash; a repeated request
// returns the memoized context with CacheHit set.
func (a *Assembler) Assemble(req QueryRequest, candidates []ContextItem) (*AssembledContext, error) {
	hash, err := QueryHash(req)
	if err != nil {
		return nil, err
	}
	key := SearchCacheKey(req.TenantID, hash)

	if cached, ok := a.cache.Get(key); ok {
		if a.metrics != nil {
			a.metrics.CacheHits.Inc()
		}
		hit := *cached
		hit.CacheHit = true
		return &hit, nil
	}
	if a.metrics != nil {
		a.metrics.CacheMisses.Inc()
	}

	start := time.Now()
	ctx := a.pack(req.TenantID, candidates, time.Now())
	if a.metrics != nil {
		a.metrics.RecordAssembly(time.Since(start), ctx.TokensUsed)
	}
	a.logger.Debug("context assembled",
		zap.String("tenant_id", req.TenantID),
		zap.Int("items", len(ctx.Items)),
		zap.Int("tokens_used", ctx.TokensUsed),
		zap.Int("truncated", ctx.Truncated),
	)

	a.cache.Put(key, ctx)
	return ctx, nil
}

// Invalidate drops every cached context for the tenant. Call after any
// write that can change search results.
func (a *Assembler) Invalidate(tenantID string) int {
	return a.cache.InvalidateTenant(tenantID)
}

// pack greedily fills the budget with the highest-scoring items. Items
// that do not fit are skipped rather than terminating the scan, so a
// small late item can still use leftover budget.
func (a *Assembler) pack(tenantID string, candidates []ContextItem, now time.Time) *AssembledContext {
	scored := make([]ContextItem, len(candidates))
	copy(scored, candidates)
	for i := range scored {
		if scored[i].Tokens == 0 {
			scored[i].Tokens = EstimateTokens(scored[i].Text)
		}
		scored[i].Score = a.score(scored[i], now)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	ctx := &AssembledContext{
		TenantID:    tenantID,
		Items:       []ContextItem{},
		TokenBudget: a.budget,
		AssembledAt: now.UTC(),
	}
	for _, item := range scored {
		if ctx.TokensUsed+item.Tokens > a.budget {
			ctx.Truncated++
			continue
		}
		ctx.Items = append(ctx.Items, item)
		ctx.TokensUsed += item.Tokens
	}
	ctx.QualityScore = qualityScore(ctx)
	return ctx
}

func (a *Assembler) score(item ContextItem, now time.Time) float64 {
	recency := 0.0
	if !item.UpdatedAt.IsZero() {
		age := now.Sub(item.UpdatedAt)
		if age < 0 {
			age = 0
		}
		recency = math.Exp2(-age.Hours() / recencyHalfLife.Hours())
	}
	return (item.Relevance*float64(a.weights.Relevance) +
		recency*float64(a.weights.Recency) +
		item.Importance*float64(a.weights.Importance)) / 100
}

// qualityScore grades an assembled context 0-1: the mean item score
// weighted by how much of the budget was put to use. Empty contexts
// score zero.
func qualityScore(ctx *AssembledContext) float64 {
	if len(ctx.Items) == 0 || ctx.TokenBudget == 0 {
		return 0
	}
	var sum float64
	for _, item := range ctx.Items {
		sum += item.Score
	}
	mean := sum / float64(len(ctx.Items))
	utilization := float64(ctx.TokensUsed) / float64(ctx.TokenBudget)
	if utilization > 1 {
		utilization = 1
	}
	return mean * (0.5 + 0.5*utilization)
}
