package services

import (
	"context"

	"hr-rag-assistant/internal/ai"
	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/models"
	"hr-rag-assistant/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Retriever finds the stored chunks closest to a query. It must use the same
// embedder (model and dimensionality) as ingestion.
type Retriever struct {
	embedder ai.Embedder
	store    DocumentStore
}

func NewRetriever(embedder ai.Embedder, store DocumentStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns up to topK results, highest similarity first. An empty
// slice means nothing relevant is stored and is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]models.SearchResult, error) {
	ctx, span := otel.Tracer("retriever").Start(ctx, "retriever.retrieve")
	defer span.End()
	span.SetAttributes(attribute.Int("retriever.top_k", topK))

	logger.Debug("Generating query embedding", "query", query)
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &utils.RetrievalError{Stage: "embed query", Err: err}
	}

	results, err := r.store.VectorSearch(ctx, vec, topK)
	if err != nil {
		return nil, &utils.RetrievalError{Stage: "vector search", Err: err}
	}

	span.SetAttributes(attribute.Int("retriever.results", len(results)))
	logger.Debug("Retrieved documents", "query", query, "count", len(results))
	return results, nil
}

// CountDocuments reports how many chunks are stored.
func (r *Retriever) CountDocuments(ctx context.Context) (int64, error) {
	return r.store.CountDocuments(ctx)
}
