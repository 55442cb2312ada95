// Package chunker splits page text into fixed-size overlapping character
// windows. Windows ignore sentence and word boundaries.
package chunker

import "strings"

// Split returns windows of chunkSize characters starting at offset 0 and
// advancing by chunkSize-overlap until the start offset reaches the end of
// text. Windows that are blank after trimming are dropped; emitted windows
// keep their original whitespace.
//
// Callers must ensure 0 <= overlap < chunkSize. A non-advancing step yields
// nil rather than looping forever.
func Split(text string, chunkSize, overlap int) []string {
	step := chunkSize - overlap
	if chunkSize <= 0 || step <= 0 {
		return nil
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[start:end])
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, window)
		}
	}
	return chunks
}
