// Package app wires the shared dependencies of the server, chat and ingest
// commands.
package app

import (
	"context"
	"fmt"

	"hr-rag-assistant/internal/ai"
	"hr-rag-assistant/internal/config"
	"hr-rag-assistant/internal/database"
	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/internal/telemetry"
	"hr-rag-assistant/services"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	Config   *config.Config
	Mongo    *mongo.Client
	Redis    *redis.Client
	Embedder ai.Embedder
	Store    *database.VectorStore
	Metrics  *telemetry.Metrics

	closers []func() error
}

// New connects to the database, the optional cache and the embedding
// provider. Callers must Close the returned App.
func New(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics) (*App, error) {
	a := &App{Config: cfg, Metrics: metrics}

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		return nil, err
	}
	a.Mongo = mongoClient
	a.closers = append(a.closers, func() error {
		return mongoClient.Disconnect(context.Background())
	})

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		// The cache is optional; embed without it.
		logger.Warn("Embedding cache unavailable", "error", err)
	} else if rdb != nil {
		a.Redis = rdb
		a.closers = append(a.closers, rdb.Close)
	}

	embedder, closeEmbedder, err := ai.NewEmbedder(ctx, cfg, a.Redis)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	a.Embedder = embedder
	a.closers = append(a.closers, closeEmbedder)

	a.Store = database.NewVectorStore(mongoClient, cfg.CosmosDatabaseName, cfg.CosmosCollectionName, metrics)
	return a, nil
}

// EnsureIndexes bootstraps the collection indexes. Failure is logged only:
// the index may already exist with other options, and search still works.
func (a *App) EnsureIndexes(ctx context.Context) {
	if err := config.EnsureIndexes(ctx, a.Mongo, a.Config); err != nil {
		logger.Warn("Index bootstrap failed", "error", err)
	}
}

func (a *App) Retriever() *services.Retriever {
	return services.NewRetriever(a.Embedder, a.Store)
}

// Composer builds the chat model and the answer composer on top of it.
func (a *App) Composer(ctx context.Context) (*services.Composer, error) {
	chat, closeChat, err := ai.NewChatModel(ctx, a.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	a.closers = append(a.closers, closeChat)
	return services.NewComposer(chat, a.Metrics), nil
}

func (a *App) IngestionPipeline() *services.IngestionPipeline {
	return services.NewIngestionPipeline(
		services.NewPDFExtractor(),
		a.Embedder,
		a.Store,
		a.Config.ChunkSize,
		a.Config.ChunkOverlap,
		a.Metrics,
	)
}

// Close releases clients in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Error closing client", "error", err)
		}
	}
	a.closers = nil
}
