package ai

import (
	"context"
	"fmt"

	"hr-rag-assistant/internal/config"
	"hr-rag-assistant/utils"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	einoEmbedding "github.com/cloudwego/eino/components/embedding"
	"github.com/google/generative-ai-go/genai"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
)

// Embedder converts text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds the embedding client for cfg.AIProvider, puts the Redis
// cache in front of it when rdb is non-nil, and wraps the result with a
// dimensionality check. The returned close function releases the underlying
// client.
func NewEmbedder(ctx context.Context, cfg *config.Config, rdb *redis.Client) (Embedder, func() error, error) {
	var (
		inner   Embedder
		closeFn = func() error { return nil }
	)

	switch cfg.AIProvider {
	case config.ProviderAzure, "":
		e, err := newAzureEmbedder(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		inner = e
	case config.ProviderGoogle:
		e, err := newGoogleEmbedder(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		inner = e
		closeFn = e.Close
	default:
		return nil, nil, fmt.Errorf("unknown embeddings provider: %s", cfg.AIProvider)
	}

	if rdb != nil {
		inner = NewCachedEmbedder(inner, rdb, cfg.AIProvider+":"+cfg.EmbeddingModel, cfg.EmbeddingCacheTTL)
	}

	return NewDimensionChecked(inner, cfg.EmbeddingDimensions), closeFn, nil
}

// AzureEmbedder calls an Azure OpenAI embedding deployment.
type AzureEmbedder struct {
	embedder einoEmbedding.Embedder
}

func newAzureEmbedder(ctx context.Context, cfg *config.Config) (*AzureEmbedder, error) {
	e, err := openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		ByAzure:    true,
		BaseURL:    cfg.EmbeddingEndpoint,
		APIKey:     cfg.EmbeddingKey,
		APIVersion: cfg.APIVersion,
		Model:      cfg.EmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create azure embedder: %w", err)
	}
	return &AzureEmbedder{embedder: e}, nil
}

func (a *AzureEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := a.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	result := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		result[i] = float32(v)
	}
	return result, nil
}

// GoogleEmbedder calls a Google Generative AI embedding model.
type GoogleEmbedder struct {
	client *genai.Client
	model  string
}

func newGoogleEmbedder(ctx context.Context, cfg *config.Config) (*GoogleEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GoogleEmbedder{client: client, model: cfg.EmbeddingModel}, nil
}

func (g *GoogleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.EmbeddingModel(g.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("no embedding returned")
	}
	// genai SDK returns []float32 for Embedding.Values
	return resp.Embedding.Values, nil
}

func (g *GoogleEmbedder) Close() error {
	return g.client.Close()
}

// DimensionChecked rejects vectors whose length differs from the collection's
// configured dimensionality.
type DimensionChecked struct {
	inner Embedder
	dim   int
}

func NewDimensionChecked(inner Embedder, dim int) *DimensionChecked {
	return &DimensionChecked{inner: inner, dim: dim}
}

func (d *DimensionChecked) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := d.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) != d.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", utils.ErrDimensionMismatch, len(vec), d.dim)
	}
	return vec, nil
}
