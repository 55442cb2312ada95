package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hr-rag-assistant/internal/app"
	"hr-rag-assistant/internal/config"
	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/internal/telemetry"
	"hr-rag-assistant/utils"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func main() {
	os.Exit(run())
}

func run() int {
	dir := flag.String("dir", "", "directory of PDF files (defaults to DATA_DIR)")
	keep := flag.Bool("keep", false, "keep existing documents instead of clearing the collection")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		var cfgErr *utils.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, failStyle.Render("Configuration error: "+cfgErr.Error()))
			fmt.Fprintln(os.Stderr, "Please check your .env file.")
			return 1
		}
		fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
		return 1
	}
	if *dir != "" {
		cfg.DataDir = *dir
	}

	logger.InitLoggerWithWriter(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

	deps, err := app.New(ctx, cfg, metrics)
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
		return 1
	}
	defer deps.Close()

	deps.EnsureIndexes(ctx)

	pipeline := deps.IngestionPipeline()
	fmt.Println(titleStyle.Render("HR document ingestion"))
	fmt.Printf("Run: %s\nSource: %s\n\n", pipeline.RunID(), cfg.DataDir)

	if !*keep {
		deleted, err := pipeline.Reset(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
			return 1
		}
		fmt.Printf("Cleared %d existing documents\n\n", deleted)
	}

	report, err := pipeline.ProcessDir(ctx, cfg.DataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
		return 1
	}

	for _, f := range report.Files {
		if f.Err != nil {
			fmt.Printf("%s %s: %v\n", failStyle.Render("✗"), f.File, f.Err)
			continue
		}
		fmt.Printf("%s %s: %d chunks\n", okStyle.Render("✓"), f.File, f.Stored)
	}

	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("Total documents indexed: %d", report.Total)))
	if failed := report.Failed(); failed > 0 {
		fmt.Println(failStyle.Render(fmt.Sprintf("%d file(s) failed", failed)))
	}
	return 0
}
