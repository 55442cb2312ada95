package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrDimensionMismatch is returned when an embedding's length differs from
// the configured dimensionality of the collection.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ConfigurationError is fatal at startup.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Missing, ", "))
	}
	return "invalid configuration: " + e.Reason
}

// ExtractionError reports a PDF (Page == 0) or a single page that yielded no text.
type ExtractionError struct {
	File string
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extract %s page %d: %v", e.File, e.Page, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingError reports a chunk whose embedding call failed.
type EmbeddingError struct {
	Source string
	Page   int
	Err    error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embed chunk of %s page %d: %v", e.Source, e.Page, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// RetrievalError is a request-level failure to embed or search a query.
type RetrievalError struct {
	Stage string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, err error) {
	RespondWithError(c, http.StatusInternalServerError, "Internal Server Error: "+err.Error())
}
