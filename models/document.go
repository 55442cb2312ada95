package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageText is the extracted text of one non-empty PDF page.
type PageText struct {
	PageNumber int
	Text       string
}

// Chunk is an overlapping window of page text. ChunkIndex increases across
// the whole source file.
type Chunk struct {
	Content    string `bson:"content" json:"content"`
	SourceFile string `bson:"source" json:"source"`
	Page       int    `bson:"page" json:"page"`
	ChunkIndex int    `bson:"chunk_index" json:"chunk_index"`
}

// EmbeddedDocument is one record of the vector collection.
type EmbeddedDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Chunk     `bson:",inline"`
	Embedding []float32 `bson:"embedding" json:"-"`
	RunID     string    `bson:"run_id,omitempty" json:"run_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SearchResult is a chunk returned by vector search, most similar first.
type SearchResult struct {
	Content         string  `bson:"content" json:"content"`
	Source          string  `bson:"source" json:"source"`
	Page            int     `bson:"page" json:"page"`
	SimilarityScore float64 `bson:"similarity_score" json:"similarity_score"`
}

// AnswerRequest is the body of POST /answer.
type AnswerRequest struct {
	Query string `json:"query"`
}

// Answer is the composer's output: the text plus the deduplicated sources it
// was grounded on.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources"`
}
