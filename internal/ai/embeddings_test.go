package ai

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"hr-rag-assistant/internal/config"
	"hr-rag-assistant/utils"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	return s.vec, s.err
}

func TestDimensionChecked_AcceptsConfiguredLength(t *testing.T) {
	inner := &stubEmbedder{vec: []float32{0.1, 0.2, 0.3}}

	vec, err := NewDimensionChecked(inner, 3).Embed(context.Background(), "leave policy")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestDimensionChecked_RejectsMismatch(t *testing.T) {
	inner := &stubEmbedder{vec: []float32{0.1, 0.2}}

	_, err := NewDimensionChecked(inner, 1536).Embed(context.Background(), "leave policy")

	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrDimensionMismatch))
}

func TestDimensionChecked_PropagatesEmbedError(t *testing.T) {
	boom := errors.New("quota exceeded")
	inner := &stubEmbedder{err: boom}

	_, err := NewDimensionChecked(inner, 3).Embed(context.Background(), "x")

	assert.ErrorIs(t, err, boom)
}

func TestCachedEmbedder_FallsBackWhenRedisUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	inner := &stubEmbedder{vec: []float32{1, 2}}
	cached := NewCachedEmbedder(inner, rdb, "azure:test", time.Minute)

	vec, err := cached.Embed(context.Background(), "sick days")

	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedEmbedder_KeyIsStablePerNamespace(t *testing.T) {
	a := NewCachedEmbedder(nil, nil, "azure:ada", time.Minute)
	b := NewCachedEmbedder(nil, nil, "google:text-embedding-004", time.Minute)

	assert.Equal(t, a.key("hello"), a.key("hello"))
	assert.NotEqual(t, a.key("hello"), a.key("world"))
	assert.NotEqual(t, a.key("hello"), b.key("hello"))
}

func TestNewEmbedder_UnknownProvider(t *testing.T) {
	cfg := &config.Config{AIProvider: "bedrock", EmbeddingDimensions: 3}

	_, _, err := NewEmbedder(context.Background(), cfg, nil)

	assert.Error(t, err)
}

func TestNewChatModel_UnknownProvider(t *testing.T) {
	cfg := &config.Config{AIProvider: "bedrock"}

	_, _, err := NewChatModel(context.Background(), cfg)

	assert.Error(t, err)
}

// Live check against the configured provider; skipped without credentials.
func TestEmbedder_Live(t *testing.T) {
	if os.Getenv("AZURE_OPENAI_EMBEDDING_KEY") == "" && os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("no embedding credentials set")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Skipf("config load failed: %v", err)
	}

	embedder, closeFn, err := NewEmbedder(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn()

	vec, err := embedder.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Len(t, vec, cfg.EmbeddingDimensions)
}
