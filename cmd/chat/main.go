package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hr-rag-assistant/internal/app"
	"hr-rag-assistant/internal/config"
	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/services"
	"hr-rag-assistant/utils"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func main() {
	os.Exit(run())
}

func run() int {
	showAnswer := flag.Bool("answer", false, "also compose an answer for each question")
	topK := flag.Int("top-k", 0, "number of chunks to retrieve (defaults to TOP_K)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Configuration error:", err)
		return 1
	}
	if *topK > 0 {
		cfg.TopK = *topK
	}

	logger.InitLoggerWithWriter(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.New(ctx, cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	defer deps.Close()

	retriever := deps.Retriever()

	countCtx, cancel := utils.WithTimeout(ctx)
	count, err := retriever.CountDocuments(countCtx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	if count == 0 {
		fmt.Println(warnStyle.Render("The knowledge base is empty. Run the ingest command first."))
		return 1
	}

	session := &services.ChatSession{
		Retriever:  retriever,
		TopK:       cfg.TopK,
		ShowAnswer: *showAnswer,
		In:         os.Stdin,
		Out:        os.Stdout,
	}

	if *showAnswer {
		composer, err := deps.Composer(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		session.Composer = composer

		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			session.Markdown = renderer.Render
		}
	}

	fmt.Println(bannerStyle.Render("HR Knowledge Base Assistant"))
	fmt.Printf("Connected to %d document chunks.\n", count)
	fmt.Println("Type your question, 'examples' for sample questions, or 'quit' to exit.")

	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
