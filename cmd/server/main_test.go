package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hr-rag-assistant/internal/config"
	"hr-rag-assistant/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:         gin.TestMode,
		CORSOrigins:     []string{"*"},
		MaxRequestBytes: 1 << 20,
		ServiceName:     "hr-rag-assistant-test",
	}
}

func TestNewRouter_PanicLogCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	prev := logger.Logger
	logger.Logger = slog.New(slog.NewJSONHandler(&logs, nil))
	defer func() { logger.Logger = prev }()

	router := newRouter(testConfig(), nil)
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	var panicLine map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "Handler panic" {
			panicLine = entry
		}
	}
	require.NotNil(t, panicLine, "panic was not logged")
	assert.Equal(t, "req-42", panicLine["request_id"])
}
