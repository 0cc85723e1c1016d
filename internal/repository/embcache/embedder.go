// Package embcache memoizes embeddings for the process lifetime so that
// identical description text never costs a second provider call.
package embcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/marovi/company-search/internal/domain"
)

// CachedEmbedder is a caching decorator over a domain.Embedder.
// Keys are the exact normalized text (newlines replaced by spaces), so the
// provider always receives the normalized form as well.
type CachedEmbedder struct {
	inner      domain.Embedder
	mu         sync.RWMutex
	cache      map[string][]float32
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner domain.Embedder, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		cache:      make(map[string][]float32),
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a memoized embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Failures are never cached.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := domain.NormalizeText(text)

	if vec, ok := c.get(key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, key)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.put(key, result.Embedding)
	c.logger.Debug("Cached embedding", zap.Int("dimensions", len(result.Embedding)))
	return result, nil
}

// HealthCheck delegates to the inner embedder when it supports checks.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("inner embedder health: %w", err)
		}
	}
	return nil
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) get(key string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.cache[key]
	return vec, ok
}

func (c *CachedEmbedder) put(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = vec
}
