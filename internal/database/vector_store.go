package database

import (
	"context"
	"fmt"

	"hr-rag-assistant/internal/telemetry"
	"hr-rag-assistant/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VectorStore persists embedded chunks in a Cosmos DB vCore collection and
// runs nearest-neighbour search over the cosmosSearch index.
type VectorStore struct {
	collection *mongo.Collection
	metrics    *telemetry.Metrics
}

func NewVectorStore(client *mongo.Client, dbName, collectionName string, metrics *telemetry.Metrics) *VectorStore {
	return &VectorStore{
		collection: client.Database(dbName).Collection(collectionName),
		metrics:    metrics,
	}
}

// InsertDocuments bulk-inserts docs and returns how many were stored.
func (s *VectorStore) InsertDocuments(ctx context.Context, docs []models.EmbeddedDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	payload := make([]interface{}, len(docs))
	for i := range docs {
		payload[i] = docs[i]
	}

	res, err := s.collection.InsertMany(ctx, payload)
	s.record(ctx, "insert_many", err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert documents: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// DeleteAll removes every document of the collection.
func (s *VectorStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{})
	s.record(ctx, "delete_many", err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", err)
	}
	return res.DeletedCount, nil
}

// CountDocuments returns the number of stored chunks.
func (s *VectorStore) CountDocuments(ctx context.Context) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	s.record(ctx, "count", err)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// VectorSearch returns the topK chunks most similar to vector, highest
// similarity first.
func (s *VectorStore) VectorSearch(ctx context.Context, vector []float32, topK int) ([]models.SearchResult, error) {
	cursor, err := s.collection.Aggregate(ctx, VectorSearchPipeline(vector, topK))
	s.record(ctx, "vector_search", err)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]models.SearchResult, 0, topK)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return results, nil
}

// VectorSearchPipeline builds the cosmosSearch aggregation. The similarity
// score is projected from the search metadata.
func VectorSearchPipeline(vector []float32, topK int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "cosmosSearch", Value: bson.D{
				{Key: "vector", Value: vector},
				{Key: "path", Value: "embedding"},
				{Key: "k", Value: topK},
			}},
			{Key: "returnStoredSource", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "similarity_score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
			{Key: "content", Value: 1},
			{Key: "source", Value: 1},
			{Key: "page", Value: 1},
		}}},
	}
}

func (s *VectorStore) record(ctx context.Context, op string, err error) {
	s.metrics.RecordDatabaseOperation(ctx, op, s.collection.Name(), err == nil)
}
