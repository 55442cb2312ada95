package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"hr-rag-assistant/internal/ai"
	"hr-rag-assistant/internal/chunker"
	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/internal/telemetry"
	"hr-rag-assistant/models"
	"hr-rag-assistant/utils"

	"github.com/google/uuid"
)

// PageExtractor yields the non-empty pages of a document.
type PageExtractor interface {
	ExtractPages(ctx context.Context, filePath string) ([]models.PageText, error)
}

// DocumentStore is the vector collection the pipeline writes to and the
// retriever searches.
type DocumentStore interface {
	InsertDocuments(ctx context.Context, docs []models.EmbeddedDocument) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	CountDocuments(ctx context.Context) (int64, error)
	VectorSearch(ctx context.Context, vector []float32, topK int) ([]models.SearchResult, error)
}

// IngestionPipeline runs Extractor → Chunker → Embedder → Store, one file and
// one chunk at a time.
type IngestionPipeline struct {
	extractor PageExtractor
	embedder  ai.Embedder
	store     DocumentStore
	metrics   *telemetry.Metrics

	chunkSize int
	overlap   int
	runID     string
	now       func() time.Time
}

func NewIngestionPipeline(extractor PageExtractor, embedder ai.Embedder, store DocumentStore, chunkSize, overlap int, metrics *telemetry.Metrics) *IngestionPipeline {
	return &IngestionPipeline{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		metrics:   metrics,
		chunkSize: chunkSize,
		overlap:   overlap,
		runID:     uuid.NewString(),
		now:       time.Now,
	}
}

// RunID identifies every record written by this pipeline instance.
func (p *IngestionPipeline) RunID() string { return p.runID }

// FileResult is the outcome of one file of a batch.
type FileResult struct {
	File   string
	Stored int
	Err    error
}

// IngestionReport summarizes a directory run.
type IngestionReport struct {
	Files []FileResult
	Total int
}

// Failed returns the number of files that could not be ingested.
func (r *IngestionReport) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Reset deletes every document of the collection so a re-run does not
// leave stale or duplicate chunks behind.
func (p *IngestionPipeline) Reset(ctx context.Context) (int64, error) {
	deleted, err := p.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info("Deleted old documents", "count", deleted)
	return deleted, nil
}

// BuildDocuments chunks and embeds the pages of one file. A chunk whose
// embedding fails is logged and skipped; chunk indexes are assigned only to
// embedded chunks and keep increasing across pages.
func (p *IngestionPipeline) BuildDocuments(ctx context.Context, source string, pages []models.PageText) []models.EmbeddedDocument {
	var docs []models.EmbeddedDocument
	chunkIndex := 0

	for _, page := range pages {
		chunks := chunker.Split(page.Text, p.chunkSize, p.overlap)
		logger.Debug("Chunked page", "source", source, "page", page.PageNumber, "chunks", len(chunks))

		for _, content := range chunks {
			vec, err := p.embedder.Embed(ctx, content)
			if err != nil {
				embedErr := &utils.EmbeddingError{Source: source, Page: page.PageNumber, Err: err}
				logger.Warn("Skipping chunk", "chunk_index", chunkIndex, "error", embedErr)
				p.metrics.RecordChunk(ctx, source, false)
				continue
			}
			p.metrics.RecordChunk(ctx, source, true)

			docs = append(docs, models.EmbeddedDocument{
				Chunk: models.Chunk{
					Content:    content,
					SourceFile: source,
					Page:       page.PageNumber,
					ChunkIndex: chunkIndex,
				},
				Embedding: vec,
				RunID:     p.runID,
				CreatedAt: p.now().UTC(),
			})
			chunkIndex++
		}
	}

	return docs
}

// Process ingests one PDF and returns the number of stored documents.
func (p *IngestionPipeline) Process(ctx context.Context, filePath string) (int, error) {
	start := p.now()
	source := filepath.Base(filePath)

	stored, err := p.process(ctx, filePath, source)

	status := "completed"
	if err != nil {
		status = "failed"
	}
	p.metrics.RecordPDFProcessing(ctx, p.now().Sub(start).Seconds(), status)
	return stored, err
}

func (p *IngestionPipeline) process(ctx context.Context, filePath, source string) (int, error) {
	pages, err := p.extractor.ExtractPages(ctx, filePath)
	if err != nil {
		return 0, err
	}

	docs := p.BuildDocuments(ctx, source, pages)
	if len(docs) == 0 {
		logger.Info("No documents created", "file", source)
		return 0, nil
	}

	inserted, err := p.store.InsertDocuments(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("store %s: %w", source, err)
	}

	logger.Info("Stored documents", "file", source, "count", inserted)
	return inserted, nil
}

// FindPDFs lists the *.pdf files directly inside dir, sorted by name.
func FindPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ProcessDir ingests every PDF of dir. A failing file is recorded in the
// report and the batch moves on.
func (p *IngestionPipeline) ProcessDir(ctx context.Context, dir string) (*IngestionReport, error) {
	files, err := FindPDFs(dir)
	if err != nil {
		return nil, err
	}

	report := &IngestionReport{Files: make([]FileResult, 0, len(files))}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		stored, err := p.Process(ctx, file)
		report.Files = append(report.Files, FileResult{File: file, Stored: stored, Err: err})
		report.Total += stored

		if err != nil {
			logger.Error("Error processing file", "file", filepath.Base(file), "error", err)
			if errors.Is(err, context.Canceled) {
				return report, err
			}
		}
	}

	return report, nil
}
