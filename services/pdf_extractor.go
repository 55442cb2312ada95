package services

import (
	"context"
	"fmt"
	"strings"

	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/models"
	"hr-rag-assistant/utils"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads per-page plain text with the Go PDF library.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages returns the text of every non-empty page, numbered from 1.
// A page that cannot be decoded is logged and skipped; a file that cannot be
// opened is returned as an *utils.ExtractionError.
func (e *PDFExtractor) ExtractPages(ctx context.Context, filePath string) ([]models.PageText, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, &utils.ExtractionError{File: filePath, Err: err}
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]models.PageText, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := extractPage(reader, i)
		if err != nil {
			logger.Warn("Skipping unreadable page", "file", filePath, "error", &utils.ExtractionError{File: filePath, Page: i, Err: err})
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, models.PageText{PageNumber: i, Text: text})
	}

	logger.Info("Extracted PDF text", "file", filePath, "pages", total, "non_empty_pages", len(pages))
	return pages, nil
}

// extractPage converts panics raised by malformed content streams into errors.
func extractPage(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page: %v", r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}

	fonts := make(map[string]*pdf.Font)
	return page.GetPlainText(fonts)
}
