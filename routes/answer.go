package routes

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/middleware"
	"hr-rag-assistant/models"
	"hr-rag-assistant/utils"

	"github.com/gin-gonic/gin"
)

// Searcher is the retrieval side of the answer endpoint.
type Searcher interface {
	Retrieve(ctx context.Context, query string, topK int) ([]models.SearchResult, error)
	CountDocuments(ctx context.Context) (int64, error)
}

// Answerer composes a grounded answer from retrieved chunks.
type Answerer interface {
	Answer(ctx context.Context, query string, results []models.SearchResult) models.Answer
}

func SetupAnswerRoutes(router *gin.Engine, searcher Searcher, answerer Answerer, topK int) {
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := utils.WithShortTimeout(c.Request.Context())
		defer cancel()

		count, err := searcher.CountDocuments(ctx)
		if err != nil {
			logger.Warn("Health check could not count documents", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "documents": count})
	})

	router.POST("/answer", func(c *gin.Context) {
		var req models.AnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "Request body exceeds maximum size")
				return
			}
			utils.RespondWithBadRequest(c, "Query is required")
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			utils.RespondWithBadRequest(c, "Query is required")
			return
		}

		ctx, cancel := utils.WithLongTimeout(c.Request.Context())
		defer cancel()

		results, err := searcher.Retrieve(ctx, req.Query, topK)
		if err != nil {
			logger.Error("Answer retrieval failed",
				"request_id", middleware.GetRequestID(c),
				"error", err,
			)
			utils.RespondWithInternalError(c, err)
			return
		}

		answer := answerer.Answer(ctx, req.Query, results)
		logger.Info("Answer served",
			"request_id", middleware.GetRequestID(c),
			"results", len(results),
			"sources", len(answer.Sources),
		)
		c.JSON(http.StatusOK, answer)
	})
}
