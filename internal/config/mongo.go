package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VectorIndexName is the cosmosSearch index on the embedding field.
const VectorIndexName = "vectorSearchIndex"

// ConnectMongoDB connects to the Cosmos DB vCore cluster and verifies the
// connection. Index bootstrap is left to EnsureIndexes so the CLI can run
// read-only.
func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.CosmosConnectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Test connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the lookup indexes and the vector index of the chunk
// collection. Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, client *mongo.Client, cfg *Config) error {
	db := client.Database(cfg.CosmosDatabaseName)

	chunks := db.Collection(cfg.CosmosCollectionName)
	_, err := chunks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "source", Value: 1}, {Key: "chunk_index", Value: 1}}},
		{Keys: bson.D{{Key: "run_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create chunk indexes: %w", err)
	}

	cmd := bson.D{
		{Key: "createIndexes", Value: cfg.CosmosCollectionName},
		{Key: "indexes", Value: bson.A{
			bson.D{
				{Key: "name", Value: VectorIndexName},
				{Key: "key", Value: bson.D{{Key: "embedding", Value: "cosmosSearch"}}},
				{Key: "cosmosSearchOptions", Value: VectorIndexOptions(cfg.VectorIndexType, cfg.EmbeddingDimensions)},
			},
		}},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}

	return nil
}

// VectorIndexOptions returns the cosmosSearchOptions document for the given
// index kind, using cosine similarity.
func VectorIndexOptions(kind string, dimensions int) bson.D {
	opts := bson.D{{Key: "kind", Value: kind}}

	switch kind {
	case IndexHNSW:
		opts = append(opts,
			bson.E{Key: "m", Value: 16},
			bson.E{Key: "efConstruction", Value: 64},
		)
	case IndexIVF:
		opts = append(opts, bson.E{Key: "numLists", Value: 1})
	case IndexDiskANN:
		opts = append(opts,
			bson.E{Key: "maxDegree", Value: 32},
			bson.E{Key: "lBuild", Value: 50},
		)
	}

	return append(opts,
		bson.E{Key: "similarity", Value: "COS"},
		bson.E{Key: "dimensions", Value: dimensions},
	)
}
