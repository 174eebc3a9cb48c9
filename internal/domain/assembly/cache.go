package assembly

import (
	"fmt"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Edgame2/castiel2-sub001/internal/shared/utils"
)

// QueryRequest is the cacheable identity of a vector search: everything
// that changes the result set must be in here, nothing else.
type QueryRequest struct {
	TenantID     string   `json:"tenantId"`
	Query        string   `json:"query"`
	ShardTypeIDs []string `json:"shardTypeIds,omitempty"`
	TopK         int      `json:"topK"`
	MinScore     float64  `json:"minScore,omitempty"`
}

// QueryHash returns the deterministic identity hash of a request.
// Serialization uses sorted keys so the hash is stable across runs.
func QueryHash(req QueryRequest) (string, error) {
	h, err := utils.DefaultHasher().HashCanonical(req)
	if err != nil {
		return "", NewVectorSearchError(CodeSearchFailed, http.StatusInternalServerError,
			"hashing query request: "+err.Error())
	}
	return h, nil
}

// SearchCacheKey builds the cache key for a tenant's query hash.
func SearchCacheKey(tenantID, queryHash string) string {
	return fmt.Sprintf("vector-search:%s:%s", tenantID, queryHash)
}

// InvalidationPattern matches every cached search result for a tenant.
func InvalidationPattern(tenantID string) string {
	return fmt.Sprintf("vector-search:%s:*", tenantID)
}

// SearchCache is an in-process LRU over assembled search results, keyed
// by SearchCacheKey. It stands in for the distributed cache in single
// node deployments and absorbs repeat queries within a session.
type SearchCache struct {
	lru *lru.Cache[string, *AssembledContext]
}

// NewSearchCache creates a cache holding up to size entries.
func NewSearchCache(size int) (*SearchCache, error) {
	c, err := lru.New[string, *AssembledContext](size)
	if err != nil {
		return nil, NewVectorSearchError(CodeCacheUnavailable, http.StatusInternalServerError,
			"creating search cache: "+err.Error())
	}
	return &SearchCache{lru: c}, nil
}

// Get returns the cached context for key, if present.
func (c *SearchCache) Get(key string) (*AssembledContext, bool) {
	return c.lru.Get(key)
}

// Put stores ctx under key.
func (c *SearchCache) Put(key string, ctx *AssembledContext) {
	c.lru.Add(key, ctx)
}

// InvalidateTenant drops every entry for the tenant, implementing the
// InvalidationPattern wildcard over the in-process store.
func (c *SearchCache) InvalidateTenant(tenantID string) int {
	prefix := strings.TrimSuffix(InvalidationPattern(tenantID), "*")
	removed := 0
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

// Len reports the number of cached entries.
func (c *SearchCache) Len() int {
	return c.lru.Len()
}
