package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Edgame2/castiel2-sub001/internal/domain/analytics"
	"github.com/Edgame2/castiel2-sub001/internal/domain/assembly"
	"github.com/Edgame2/castiel2-sub001/internal/domain/audit"
	"github.com/Edgame2/castiel2-sub001/internal/domain/auth"
	"github.com/Edgame2/castiel2-sub001/internal/domain/dashboard"
	"github.com/Edgame2/castiel2-sub001/internal/domain/document"
	"github.com/Edgame2/castiel2-sub001/internal/domain/integration"
	"github.com/Edgame2/castiel2-sub001/internal/domain/shard"
	"github.com/Edgame2/castiel2-sub001/internal/infrastructure/logging"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.NewDevelopment()

	shards := shard.NewManager(logger)
	require.NoError(t, shards.SeedBuiltInTypes())

	assembler, err := assembly.NewAssembler(8000, 64, assembly.DefaultScoringWeights(), logger)
	require.NoError(t, err)

	store, err := document.NewMemoryPayloadStore()
	require.NoError(t, err)
	ingestor, err := document.NewIngestor(store, assembly.DefaultVectorizationConfig(), 1<<20, logger)
	require.NoError(t, err)

	registry := integration.NewRegistry()
	require.NoError(t, registry.Register(integration.NewLocalFolderAdapter(ingestor, logger)))

	h := &Handlers{
		Shards:       shards,
		Dashboards:   dashboard.NewManager(logger),
		Assembler:    assembler,
		Integrations: integration.NewManager(registry, logger),
		Documents:    ingestor,
		Audit:        audit.NewRecorder(128, logger),
		Analytics:    analytics.NewRegistry(logger),
		Auth:         auth.NewProvider(0, logger),
		Logger:       logger,
	}

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TenantHeader, "acme")
	req.Header.Set("X-Actor-ID", "user-1")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestMissingTenantHeader(t *testing.T) {
	engine := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/shards", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShardLifecycleOverHTTP(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/shards", map[string]interface{}{
		"shardTypeId": "note",
		"title":       "Meeting notes",
		"data":        map[string]interface{}{"body": "Discussed roadmap and owners"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created shard.Shard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	w = doJSON(t, engine, http.MethodGet, "/api/shards/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/api/shards/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/shards/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShardValidationErrorsOverHTTP(t *testing.T) {
	engine := newTestRouter(t)
	w := doJSON(t, engine, http.MethodPost, "/api/shards", map[string]interface{}{
		"shardTypeId": "note",
		"title":       "Missing required data",
		"data":        map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuiltInShardTypesListed(t *testing.T) {
	engine := newTestRouter(t)
	w := doJSON(t, engine, http.MethodGet, "/api/shard-types", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ShardTypes []shard.ShardType `json:"shardTypes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, len(resp.ShardTypes), 8)
}

func TestAssembleContextOverHTTP(t *testing.T) {
	engine := newTestRouter(t)
	w := doJSON(t, engine, http.MethodPost, "/api/assembly/context", map[string]interface{}{
		"query": "recent deals",
		"candidates": []map[string]interface{}{
			{"shardId": "s1", "text": "deal one closed", "relevance": 0.9},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ctx assembly.AssembledContext
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ctx))
	assert.Equal(t, "acme", ctx.TenantID)
	assert.Len(t, ctx.Items, 1)
}

func TestCreateShardInvalidatesAssemblyCache(t *testing.T) {
	engine := newTestRouter(t)
	assembleReq := map[string]interface{}{
		"query": "recent deals",
		"candidates": []map[string]interface{}{
			{"shardId": "s1", "text": "deal one closed", "relevance": 0.9},
		},
	}

	w := doJSON(t, engine, http.MethodPost, "/api/assembly/context", assembleReq)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/assembly/context", assembleReq)
	require.Equal(t, http.StatusOK, w.Code)
	var cached assembly.AssembledContext
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cached))
	require.True(t, cached.CacheHit)

	w = doJSON(t, engine, http.MethodPost, "/api/shards", map[string]interface{}{
		"shardTypeId": "note",
		"title":       "New note",
		"data":        map[string]interface{}{"body": "fresh content"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/assembly/context", assembleReq)
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed assembly.AssembledContext
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.False(t, refreshed.CacheHit, "shard creation must drop the tenant's cached contexts")
}

func TestValidateVectorizationOverHTTP(t *testing.T) {
	engine := newTestRouter(t)
	w := doJSON(t, engine, http.MethodPost, "/api/assembly/vectorization/validate", map[string]interface{}{
		"chunkingStrategy": "fixed_size",
		"chunkSize":        0,
		"textSources":      []interface{}{},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Errors)
}

func TestEstimateTokensOverHTTP(t *testing.T) {
	engine := newTestRouter(t)
	w := doJSON(t, engine, http.MethodPost, "/api/assembly/estimate", map[string]interface{}{
		"text":  "abcd",
		"model": "text-embedding-ada-002",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tokens int     `json:"tokens"`
		Cost   float64 `json:"cost"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Tokens)
	assert.InDelta(t, 0.0000001, resp.Cost, 0.000001)
}

func TestConnectionRedactionOverHTTP(t *testing.T) {
	engine := newTestRouter(t)
	w := doJSON(t, engine, http.MethodPost, "/api/connections", map[string]interface{}{
		"name":      "Docs folder",
		"kind":      "storage",
		"adapterId": "local_folder",
		"credentials": map[string]interface{}{
			"type":   "api_key",
			"apiKey": map[string]interface{}{"key": "super-secret-key"},
		},
		"sync":     map[string]interface{}{"direction": "inbound"},
		"retry":    map[string]interface{}{"maxAttempts": 3, "initialBackoff": 1000000, "maxBackoff": 2000000},
		"schedule": map[string]interface{}{"type": "manual"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "super-secret-key")
}

func TestAuditTrailOverHTTP(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"subject": "user-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/audit?type=login_success", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []audit.Entry `json:"entries"`
		Count   int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, audit.EventLoginSuccess, resp.Entries[0].Type)
	assert.Equal(t, "user-1", resp.Entries[0].ActorID)
}

func TestModelRegistryOverHTTP(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/models", map[string]interface{}{
		"kind":        "win_probability",
		"artifactUri": "blob://models/win.joblib",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created analytics.Model
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Version)

	w = doJSON(t, engine, http.MethodPost, "/api/models/"+created.ID+"/activate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/models?kind=win_probability", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/models?kind=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentUploadOverHTTP(t *testing.T) {
	engine := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/documents?ref=notes/a.txt",
		bytes.NewBufferString("uploaded document content"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set(TenantHeader, "acme")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w2 := doJSON(t, engine, http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, w2.Code)

	var resp struct {
		Documents []document.Document `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, document.StatusChunked, resp.Documents[0].Status)
}

func TestAPIKeyFlowOverHTTP(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/api-keys", map[string]interface{}{
		"name": "ci-bot",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Key    auth.APIKey `json:"key"`
		Secret string      `json:"secret"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Secret)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(TenantHeader, "acme")
	req.Header.Set("Authorization", "Bearer "+resp.Secret)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
}
