package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"hr-rag-assistant/models"

	"github.com/charmbracelet/lipgloss"
)

// ExampleQuestions are printed by the "examples" command.
var ExampleQuestions = []string{
	"What is the vacation policy?",
	"How many sick days do employees get?",
	"What are the working hours?",
	"What is the remote work policy?",
	"How do I apply for leave?",
}

const previewLength = 400

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// ChatSession is the interactive terminal front end: one line in, one
// retrieval (and optionally one composed answer) out.
type ChatSession struct {
	Retriever *Retriever
	Composer  *Composer
	TopK      int
	// ShowAnswer also composes an answer for every query.
	ShowAnswer bool
	// Markdown renders the composed answer; nil prints it raw.
	Markdown func(string) (string, error)

	In  io.Reader
	Out io.Writer
}

// Run reads queries until EOF, a quit command, or ctx is cancelled. Lines are
// read on a separate goroutine so cancellation is seen at the prompt.
func (s *ChatSession) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.Out, "\n Your question: ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.Out, "\n Goodbye!")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(s.Out, "\n Goodbye!")
			select {
			case err := <-scanErr:
				return err
			default:
				return nil
			}
		}

		query := strings.TrimSpace(line)
		switch strings.ToLower(query) {
		case "quit", "exit", "q":
			fmt.Fprintln(s.Out, "\n Goodbye!")
			return nil
		case "examples":
			s.printExamples()
			continue
		case "":
			continue
		}

		s.handleQuery(ctx, query)
	}
}

func (s *ChatSession) handleQuery(ctx context.Context, query string) {
	results, err := s.Retriever.Retrieve(ctx, query, s.TopK)
	if err != nil {
		fmt.Fprintln(s.Out, errorStyle.Render(fmt.Sprintf("\n Error: %v", err)))
		return
	}

	s.printResults(results)

	if !s.ShowAnswer || s.Composer == nil {
		return
	}

	answer := FormatWithSources(s.Composer.Answer(ctx, query, results))
	if s.Markdown != nil {
		if rendered, err := s.Markdown(answer); err == nil {
			answer = rendered
		}
	}
	fmt.Fprintln(s.Out, headerStyle.Render("\n Answer"))
	fmt.Fprintln(s.Out, answer)
}

func (s *ChatSession) printExamples() {
	fmt.Fprintln(s.Out, headerStyle.Render("\n Example Questions:"))
	for _, q := range ExampleQuestions {
		fmt.Fprintf(s.Out, "   %s\n", q)
	}
}

func (s *ChatSession) printResults(results []models.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(s.Out, "\n No relevant documents found.")
		return
	}

	rule := ruleStyle.Render(strings.Repeat("─", 80))
	fmt.Fprintln(s.Out, headerStyle.Render(fmt.Sprintf("\n Found %d relevant documents:", len(results))))

	for i, r := range results {
		fmt.Fprintln(s.Out, rule)
		fmt.Fprintln(s.Out, headerStyle.Render(fmt.Sprintf(" Result #%d", i+1)))
		fmt.Fprintln(s.Out, rule)
		fmt.Fprintf(s.Out, " %s %s\n", labelStyle.Render("Source:"), r.Source)
		fmt.Fprintf(s.Out, " %s %d\n", labelStyle.Render("Page:"), r.Page)
		fmt.Fprintf(s.Out, " %s %.4f\n", labelStyle.Render("Similarity Score:"), r.SimilarityScore)
		fmt.Fprintf(s.Out, "\n %s\n%s...\n", labelStyle.Render("Content Preview:"), preview(r.Content))
		fmt.Fprintln(s.Out, rule)
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) > previewLength {
		return string(runes[:previewLength])
	}
	return content
}
