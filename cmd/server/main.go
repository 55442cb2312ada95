package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hr-rag-assistant/internal/app"
	"hr-rag-assistant/internal/config"
	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/internal/telemetry"
	"hr-rag-assistant/middleware"
	"hr-rag-assistant/routes"
	"hr-rag-assistant/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize tracer:", err)
	}
	defer func() {
		ctx, cancel := utils.WithShortTimeout(context.Background())
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	deps, err := app.New(ctx, cfg, metrics)
	if err != nil {
		log.Fatal("Failed to initialize dependencies:", err)
	}
	defer deps.Close()

	indexCtx, cancel := utils.WithLongTimeout(ctx)
	deps.EnsureIndexes(indexCtx)
	cancel()

	composer, err := deps.Composer(ctx)
	if err != nil {
		log.Fatal("Failed to initialize chat model:", err)
	}

	router := newRouter(cfg, metrics)
	routes.SetupAnswerRoutes(router, deps.Retriever(), composer, cfg.TopK)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "provider", cfg.AIProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := utils.WithLongTimeout(context.Background())
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// newRouter builds the engine with the middleware chain. The request id is
// assigned first so every later middleware, recovery included, can log it.
func newRouter(cfg *config.Config, metrics *telemetry.Metrics) *gin.Engine {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddlewareWithOrigins(cfg.CORSOrigins))
	router.Use(middleware.RequestSizeLimit(cfg.MaxRequestBytes))
	router.Use(middleware.TracingMiddleware(cfg.ServiceName))
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.MetricsMiddleware(metrics))
	return router
}
