package utils

import (
	"context"
	"time"
)

const (
	// DefaultTimeout bounds single store round trips such as the CLI's
	// startup document count.
	DefaultTimeout = 10 * time.Second

	// LongTimeout covers an answer request (query embedding, vector search
	// and chat completion), index bootstrap and server shutdown.
	LongTimeout = 30 * time.Second

	// ShortTimeout is for health checks and telemetry flushes.
	ShortTimeout = 2 * time.Second
)

func WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultTimeout)
}

func WithLongTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, LongTimeout)
}

func WithShortTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ShortTimeout)
}
