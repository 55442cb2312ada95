package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hr-rag-assistant/models"
	"hr-rag-assistant/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(n int, text string) models.PageText {
	return models.PageText{PageNumber: n, Text: text}
}

func TestProcess_SinglePageOf2500Chars(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]models.PageText{
		"leave.pdf": {page(1, strings.Repeat("a", 2500))},
	}}
	store := &memoryStore{}
	p := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 1000, 200, nil)

	stored, err := p.Process(context.Background(), "/data/hr/leave.pdf")

	require.NoError(t, err)
	assert.Equal(t, 4, stored)
	require.Len(t, store.docs, 4)
	for i, doc := range store.docs {
		assert.Equal(t, i, doc.ChunkIndex)
		assert.Equal(t, "leave.pdf", doc.SourceFile)
		assert.Equal(t, 1, doc.Page)
		assert.Equal(t, p.RunID(), doc.RunID)
		assert.NotEmpty(t, doc.Embedding)
	}
	assert.Len(t, store.docs[3].Content, 100)
}

func TestProcess_ChunkIndexContinuesAcrossPages(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]models.PageText{
		"handbook.pdf": {
			page(1, strings.Repeat("x", 150)),
			page(3, strings.Repeat("y", 150)),
		},
	}}
	store := &memoryStore{}
	p := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 0, nil)

	stored, err := p.Process(context.Background(), "handbook.pdf")

	require.NoError(t, err)
	require.Equal(t, 4, stored)
	pages := []int{}
	indexes := []int{}
	for _, d := range store.docs {
		pages = append(pages, d.Page)
		indexes = append(indexes, d.ChunkIndex)
	}
	assert.Equal(t, []int{1, 1, 3, 3}, pages)
	assert.Equal(t, []int{0, 1, 2, 3}, indexes)
}

func TestProcess_SkipsChunkWhenEmbeddingFails(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]models.PageText{
		"policy.pdf": {page(1, "aaaaaBBBBBccccc")},
	}}
	store := &memoryStore{}
	embedder := &fakeEmbedder{failOn: "BBBBB"}
	p := NewIngestionPipeline(extractor, embedder, store, 5, 0, nil)

	stored, err := p.Process(context.Background(), "policy.pdf")

	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.Equal(t, 3, embedder.calls)
	assert.Equal(t, "aaaaa", store.docs[0].Content)
	assert.Equal(t, "ccccc", store.docs[1].Content)
	assert.Equal(t, []int{0, 1}, []int{store.docs[0].ChunkIndex, store.docs[1].ChunkIndex})
}

func TestProcess_AllChunksFailingStoresNothing(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]models.PageText{
		"policy.pdf": {page(1, "some text")},
	}}
	store := &memoryStore{}
	p := NewIngestionPipeline(extractor, &fakeEmbedder{failOn: "text"}, store, 100, 10, nil)

	stored, err := p.Process(context.Background(), "policy.pdf")

	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.Zero(t, store.inserts)
}

func TestProcess_ExtractionErrorIsReturned(t *testing.T) {
	extractErr := &utils.ExtractionError{File: "broken.pdf", Err: errors.New("not a PDF")}
	extractor := &fakeExtractor{errs: map[string]error{"broken.pdf": extractErr}}
	store := &memoryStore{}
	p := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 10, nil)

	_, err := p.Process(context.Background(), "broken.pdf")

	var target *utils.ExtractionError
	assert.True(t, errors.As(err, &target))
	assert.Zero(t, store.inserts)
}

func TestProcess_StoreErrorIsReturned(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]models.PageText{"a.pdf": {page(1, "text")}}}
	store := &memoryStore{insertErr: errors.New("write conflict")}
	p := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 10, nil)

	_, err := p.Process(context.Background(), "a.pdf")

	assert.ErrorContains(t, err, "write conflict")
}

func TestProcess_ReingestWithoutResetDuplicates(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]models.PageText{"a.pdf": {page(1, strings.Repeat("z", 250))}}}
	store := &memoryStore{}

	first := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 0, nil)
	_, err := first.Process(context.Background(), "a.pdf")
	require.NoError(t, err)

	second := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 0, nil)
	_, err = second.Process(context.Background(), "a.pdf")
	require.NoError(t, err)

	require.Len(t, store.docs, 6)
	counts := map[int]int{}
	for _, d := range store.docs {
		counts[d.ChunkIndex]++
	}
	assert.Equal(t, map[int]int{0: 2, 1: 2, 2: 2}, counts)
}

func TestProcess_ResetKeepsOnlyLatestRun(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]models.PageText{"a.pdf": {page(1, strings.Repeat("z", 250))}}}
	store := &memoryStore{}

	first := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 0, nil)
	_, err := first.Process(context.Background(), "a.pdf")
	require.NoError(t, err)

	second := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 0, nil)
	deleted, err := second.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	_, err = second.Process(context.Background(), "a.pdf")
	require.NoError(t, err)

	require.Len(t, store.docs, 3)
	for _, d := range store.docs {
		assert.Equal(t, second.RunID(), d.RunID)
	}
}

func TestProcessDir_ContinuesPastFailingFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	extractor := &fakeExtractor{
		pages: map[string][]models.PageText{"b.pdf": {page(1, strings.Repeat("b", 150))}},
		errs:  map[string]error{"a.pdf": &utils.ExtractionError{File: "a.pdf", Err: errors.New("encrypted")}},
	}
	store := &memoryStore{}
	p := NewIngestionPipeline(extractor, &fakeEmbedder{}, store, 100, 0, nil)

	report, err := p.ProcessDir(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, "a.pdf", filepath.Base(report.Files[0].File))
	assert.Error(t, report.Files[0].Err)
	assert.Equal(t, 2, report.Files[1].Stored)
}

func TestProcessDir_EmptyDirectory(t *testing.T) {
	p := NewIngestionPipeline(&fakeExtractor{}, &fakeEmbedder{}, &memoryStore{}, 100, 0, nil)

	report, err := p.ProcessDir(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, report.Files)
	assert.Zero(t, report.Total)
}

func TestProcessDir_MissingDirectory(t *testing.T) {
	p := NewIngestionPipeline(&fakeExtractor{}, &fakeEmbedder{}, &memoryStore{}, 100, 0, nil)

	_, err := p.ProcessDir(context.Background(), filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, err)
}
