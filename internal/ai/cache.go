package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"hr-rag-assistant/internal/logger"

	"github.com/redis/go-redis/v9"
)

// CachedEmbedder is a read-through Redis cache in front of an Embedder.
// Redis failures never fail the call; the live embedder is used instead.
type CachedEmbedder struct {
	inner     Embedder
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

func NewCachedEmbedder(inner Embedder, rdb *redis.Client, namespace string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner:     inner,
		rdb:       rdb,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var vec []float32
		if jsonErr := json.Unmarshal(raw, &vec); jsonErr == nil {
			return vec, nil
		}
		logger.Warn("Discarding corrupt cached embedding", "key", key)
	case !errors.Is(err, redis.Nil):
		logger.Warn("Embedding cache lookup failed", "error", err)
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Warn("Embedding cache store failed", "error", err)
		}
	}
	return vec, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + c.namespace + ":" + hex.EncodeToString(sum[:])
}
