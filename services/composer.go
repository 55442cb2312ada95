package services

import (
	"context"
	"fmt"
	"strings"

	"hr-rag-assistant/internal/ai"
	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/internal/telemetry"
	"hr-rag-assistant/models"
)

// NoInformationAnswer is returned whenever the documents cannot answer a query.
const NoInformationAnswer = "I don't have that information in the available documents."

// minAnswerWords is the shortest model answer kept as is.
const minAnswerWords = 10

const systemPrompt = "You are an HR assistant. Answer based ONLY on the provided context. " +
	"If the answer exists, give a clear, descriptive response in 2–3 sentences. " +
	"If nothing relevant is found, say: '" + NoInformationAnswer + "' " +
	"Do not guess or invent details."

// Composer turns retrieved chunks into a grounded answer. It never returns an
// error: chat failures become the answer text.
type Composer struct {
	chat    ai.ChatModel
	metrics *telemetry.Metrics
}

func NewComposer(chat ai.ChatModel, metrics *telemetry.Metrics) *Composer {
	return &Composer{chat: chat, metrics: metrics}
}

// Answer composes the reply to query from results. With no results the chat
// model is not called.
func (c *Composer) Answer(ctx context.Context, query string, results []models.SearchResult) models.Answer {
	if len(results) == 0 {
		return models.Answer{Text: NoInformationAnswer, Sources: []string{}}
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	contextText := strings.Join(contents, "\n\n")

	answer := c.generate(ctx, query, contextText)

	if len(strings.Fields(answer)) < minAnswerWords {
		logger.Debug("Model answer too short, using context fallback", "answer", answer)
		answer = FallbackAnswer(query, contextText)
		c.metrics.RecordAnswerFallback(ctx, answer != NoInformationAnswer)
	}

	return models.Answer{Text: answer, Sources: UniqueSources(results)}
}

func (c *Composer) generate(ctx context.Context, query, contextText string) string {
	if contextText == "" {
		return NoInformationAnswer
	}

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\nAnswer:", contextText, query)

	answer, err := c.chat.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		logger.Error("Chat completion failed", "error", err)
		return fmt.Sprintf("Error generating answer: %v", err)
	}
	return strings.TrimSpace(answer)
}

// FallbackAnswer picks the first period-delimited sentence of contextText that
// contains any query word, compared case-insensitively as substrings.
func FallbackAnswer(query, contextText string) string {
	words := strings.Fields(strings.ToLower(query))

	for _, sentence := range strings.Split(contextText, ".") {
		lower := strings.ToLower(sentence)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return fmt.Sprintf("Here’s what I found: %s.", strings.TrimSpace(sentence))
			}
		}
	}
	return NoInformationAnswer
}

// UniqueSources returns each result source once, in first-seen order.
func UniqueSources(results []models.SearchResult) []string {
	seen := make(map[string]struct{}, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		src := r.Source
		if src == "" {
			src = "Unknown"
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	return sources
}

// FormatWithSources renders an answer for terminal output, appending the
// sources as a markdown block.
func FormatWithSources(a models.Answer) string {
	if len(a.Sources) == 0 {
		return a.Text
	}
	return a.Text + "\n\n**Sources:**\n" + strings.Join(a.Sources, "\n")
}
