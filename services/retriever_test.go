package services

import (
	"context"
	"errors"
	"testing"

	"hr-rag-assistant/models"
	"hr-rag-assistant/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_EmptyCollection(t *testing.T) {
	store := &memoryStore{}
	r := NewRetriever(&fakeEmbedder{}, store)

	results, err := r.Retrieve(context.Background(), "How many sick days do employees get?", 3)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 3, store.lastTopK)
}

func TestRetrieve_ReturnsStoreOrder(t *testing.T) {
	store := &memoryStore{results: []models.SearchResult{
		{Content: "first", Source: "a.pdf", Page: 1, SimilarityScore: 0.91},
		{Content: "second", Source: "b.pdf", Page: 2, SimilarityScore: 0.85},
		{Content: "third", Source: "a.pdf", Page: 4, SimilarityScore: 0.80},
		{Content: "fourth", Source: "c.pdf", Page: 1, SimilarityScore: 0.70},
	}}
	r := NewRetriever(&fakeEmbedder{}, store)

	results, err := r.Retrieve(context.Background(), "vacation", 3)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{results[0].Content, results[1].Content, results[2].Content})
}

func TestRetrieve_EmbeddingFailure(t *testing.T) {
	store := &memoryStore{}
	r := NewRetriever(&fakeEmbedder{failCalls: map[int]bool{1: true}}, store)

	_, err := r.Retrieve(context.Background(), "remote work", 3)

	var retrievalErr *utils.RetrievalError
	require.True(t, errors.As(err, &retrievalErr))
	assert.Equal(t, "embed query", retrievalErr.Stage)
	assert.Zero(t, store.lastTopK)
}

func TestRetrieve_SearchFailure(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{}, &memoryStore{searchErr: errors.New("index not found")})

	_, err := r.Retrieve(context.Background(), "remote work", 3)

	var retrievalErr *utils.RetrievalError
	require.True(t, errors.As(err, &retrievalErr))
	assert.Equal(t, "vector search", retrievalErr.Stage)
	assert.ErrorContains(t, err, "index not found")
}
