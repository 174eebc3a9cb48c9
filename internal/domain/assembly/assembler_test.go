package assembly

import (
	"testing"
	"time"

	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
)

func newTestAssembler(t *testing.T, budget int) *Assembler {
	t.Helper()
	a, err := NewAssembler(budget, 16, DefaultScoringWeights(), logging.NewDevelopment())
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	return a
}

func TestScoringWeightsValidate(t *testing.T) {
	if errs := DefaultScoringWeights().Validate(); len(errs) != 0 {
		t.Errorf("defaults should validate, got %v", errs)
	}
	bad := ScoringWeights{Relevance: 60, Recency: 25, Importance: 20}
	errs := bad.Validate()
	if len(errs) == 0 {
		t.Fatal("expected sum violation")
	}
	if !hasViolation(errs, "sum to 100") {
		t.Errorf("unexpected violations: %v", errs)
	}
}

func TestNewAssemblerRejectsBadInput(t *testing.T) {
	logger := logging.NewDevelopment()
	if _, err := NewAssembler(0, 16, DefaultScoringWeights(), logger); err == nil {
		t.Error("expected error for zero budget")
	}
	if _, err := NewAssembler(1000, 16, ScoringWeights{Relevance: 200}, logger); err == nil {
		t.Error("expected error for bad weights")
	}
}

func TestAssemblePacksWithinBudget(t *testing.T) {
	a := newTestAssembler(t, 100)
	now := time.Now()
	candidates := []ContextItem{
		{ShardID: "s1", Tokens: 40, Relevance: 0.9, UpdatedAt: now},
		{ShardID: "s2", Tokens: 40, Relevance: 0.8, UpdatedAt: now},
		{ShardID: "s3", Tokens: 40, Relevance: 0.7, UpdatedAt: now},
		{ShardID: "s4", Tokens: 15, Relevance: 0.1, UpdatedAt: now},
	}
	ctx, err := a.Assemble(QueryRequest{TenantID: "acme", Query: "q", TopK: 10}, candidates)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if ctx.TokensUsed > ctx.TokenBudget {
		t.Errorf("budget exceeded: %d > %d", ctx.TokensUsed, ctx.TokenBudget)
	}
	// s1 and s2 fill 80; s3 does not fit but the smaller s4 still does.
	if len(ctx.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(ctx.Items))
	}
	if ctx.Items[0].ShardID != "s1" {
		t.Errorf("highest scoring item should pack first, got %s", ctx.Items[0].ShardID)
	}
	if ctx.Truncated != 1 {
		t.Errorf("truncated = %d, want 1", ctx.Truncated)
	}
	if ctx.QualityScore <= 0 || ctx.QualityScore > 1 {
		t.Errorf("quality score out of range: %g", ctx.QualityScore)
	}
}

func TestAssembleEstimatesMissingTokens(t *testing.T) {
	a := newTestAssembler(t, 1000)
	candidates := []ContextItem{{ShardID: "s1", Text: "abcdabcd", Relevance: 1}}
	ctx, err := a.Assemble(QueryRequest{TenantID: "acme", Query: "q"}, candidates)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if ctx.TokensUsed != 2 {
		t.Errorf("tokens used = %d, want 2", ctx.TokensUsed)
	}
}

func TestAssembleCachesByQueryHash(t *testing.T) {
	a := newTestAssembler(t, 100)
	req := QueryRequest{TenantID: "acme", Query: "q", TopK: 5}
	candidates := []ContextItem{{ShardID: "s1", Tokens: 10, Relevance: 1}}

	first, err := a.Assemble(req, candidates)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if first.CacheHit {
		t.Error("first call should miss the cache")
	}

	// Different candidates, same request: memoized result wins.
	second, err := a.Assemble(req, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !second.CacheHit {
		t.Error("second call should hit the cache")
	}
	if len(second.Items) != 1 {
		t.Errorf("cached items = %d, want 1", len(second.Items))
	}
}

func TestAssembleInvalidate(t *testing.T) {
	a := newTestAssembler(t, 100)
	req := QueryRequest{TenantID: "acme", Query: "q"}
	if _, err := a.Assemble(req, []ContextItem{{ShardID: "s1", Tokens: 10, Relevance: 1}}); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if removed := a.Invalidate("acme"); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	ctx, err := a.Assemble(req, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if ctx.CacheHit {
		t.Error("invalidated entry should not hit")
	}
}

func TestAssembleEmptyCandidates(t *testing.T) {
	a := newTestAssembler(t, 100)
	ctx, err := a.Assemble(QueryRequest{TenantID: "acme", Query: "q"}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(ctx.Items) != 0 || ctx.TokensUsed != 0 {
		t.Errorf("empty input should assemble empty context: %+v", ctx)
	}
	if ctx.QualityScore != 0 {
		t.Errorf("quality of empty context = %g, want 0", ctx.QualityScore)
	}
}

func TestExtractText(t *testing.T) {
	got, err := ExtractText("<html><head><style>p{}</style></head><body><script>evil()</script><p>Hello <b>world</b></p></body></html>", SourceHTML)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "Hello world" {
		t.Errorf("got %q, want %q", got, "Hello world")
	}

	got, err = ExtractText("  plain\n\ttext  ", SourceText)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "plain text" {
		t.Errorf("got %q", got)
	}
}
