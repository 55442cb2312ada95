package services

import (
	"context"
	"errors"
	"strings"

	"hr-rag-assistant/models"
)

type fakeExtractor struct {
	pages map[string][]models.PageText
	errs  map[string]error
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, filePath string) ([]models.PageText, error) {
	for name, err := range f.errs {
		if strings.HasSuffix(filePath, name) {
			return nil, err
		}
	}
	for name, pages := range f.pages {
		if strings.HasSuffix(filePath, name) {
			return pages, nil
		}
	}
	return nil, nil
}

// fakeEmbedder returns a fixed vector and fails on the listed call numbers
// (1-based) or on texts containing failOn.
type fakeEmbedder struct {
	calls     int
	failCalls map[int]bool
	failOn    string
	err       error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failCalls[f.calls] || (f.failOn != "" && strings.Contains(text, f.failOn)) {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("embedding service unavailable")
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

type memoryStore struct {
	docs      []models.EmbeddedDocument
	results   []models.SearchResult
	insertErr error
	searchErr error
	inserts   int
	lastTopK  int
}

func (m *memoryStore) InsertDocuments(ctx context.Context, docs []models.EmbeddedDocument) (int, error) {
	m.inserts++
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.docs = append(m.docs, docs...)
	return len(docs), nil
}

func (m *memoryStore) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(m.docs))
	m.docs = nil
	return n, nil
}

func (m *memoryStore) CountDocuments(ctx context.Context) (int64, error) {
	return int64(len(m.docs)), nil
}

func (m *memoryStore) VectorSearch(ctx context.Context, vector []float32, topK int) ([]models.SearchResult, error) {
	m.lastTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.results) > topK {
		return m.results[:topK], nil
	}
	return m.results, nil
}

type fakeChat struct {
	answer string
	err    error
	calls  int
	system string
	user   string
}

func (f *fakeChat) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	return f.answer, f.err
}
