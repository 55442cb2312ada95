package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics. A nil *Metrics records nothing.
type Metrics struct {
	RequestCounter     metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	PDFProcessingTime  metric.Float64Histogram
	ChunksEmbedded     metric.Int64Counter
	EmbeddingFailures  metric.Int64Counter
	AnswerFallbacks    metric.Int64Counter
	DatabaseOperations metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("hr-rag-assistant")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	pdfProcessingTime, err := meter.Float64Histogram(
		"pdf.processing.duration",
		metric.WithDescription("PDF ingestion duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chunksEmbedded, err := meter.Int64Counter(
		"ingestion.chunks.embedded",
		metric.WithDescription("Chunks embedded successfully"),
	)
	if err != nil {
		return nil, err
	}

	embeddingFailures, err := meter.Int64Counter(
		"ingestion.chunks.failed",
		metric.WithDescription("Chunks skipped because embedding failed"),
	)
	if err != nil {
		return nil, err
	}

	answerFallbacks, err := meter.Int64Counter(
		"answer.fallbacks",
		metric.WithDescription("Answers replaced by the context sentence fallback"),
	)
	if err != nil {
		return nil, err
	}

	databaseOperations, err := meter.Int64Counter(
		"database.operations.total",
		metric.WithDescription("Total database operations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:     requestCounter,
		RequestDuration:    requestDuration,
		PDFProcessingTime:  pdfProcessingTime,
		ChunksEmbedded:     chunksEmbedded,
		EmbeddingFailures:  embeddingFailures,
		AnswerFallbacks:    answerFallbacks,
		DatabaseOperations: databaseOperations,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(ctx context.Context, method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	)
	m.RequestCounter.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, duration, attrs)
}

// RecordPDFProcessing records how long one file took and how it ended
func (m *Metrics) RecordPDFProcessing(ctx context.Context, duration float64, status string) {
	if m == nil {
		return
	}
	m.PDFProcessingTime.Record(ctx, duration, metric.WithAttributes(
		attribute.String("pdf.status", status),
	))
}

// RecordChunk records the outcome of one chunk embedding call
func (m *Metrics) RecordChunk(ctx context.Context, source string, ok bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("pdf.source", source))
	if ok {
		m.ChunksEmbedded.Add(ctx, 1, attrs)
		return
	}
	m.EmbeddingFailures.Add(ctx, 1, attrs)
}

// RecordAnswerFallback counts short model answers replaced by a context sentence
func (m *Metrics) RecordAnswerFallback(ctx context.Context, matched bool) {
	if m == nil {
		return
	}
	m.AnswerFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("answer.sentence_matched", matched)))
}

// RecordDatabaseOperation records database operation metrics
func (m *Metrics) RecordDatabaseOperation(ctx context.Context, operation, collection string, success bool) {
	if m == nil {
		return
	}
	m.DatabaseOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.collection", collection),
		attribute.Bool("db.success", success),
	))
}
