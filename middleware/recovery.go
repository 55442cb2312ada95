package middleware

import (
	"fmt"

	"hr-rag-assistant/internal/logger"
	"hr-rag-assistant/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic inside a handler into a 500 JSON error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Handler panic",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		utils.RespondWithInternalError(c, fmt.Errorf("%v", recovered))
	})
}

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info("HTTP request",
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
		)
	}
}
