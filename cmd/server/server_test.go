package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/app"
	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestApplicationSetup(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("PREDICT_URL", "")
	t.Setenv("PORT", "")

	cfg := config.LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "5000", cfg.Port)

	a, err := app.Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.Close(context.Background())

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/env", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"groq":false,"model":"llama-3.1-8b-instant","predictUrl":false}`, w.Body.String())
}

func TestChatFlowEndToEnd(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("GROQ_API_KEY", "")

	a, err := app.Build(context.Background(), config.LoadConfig(), logger.Nop())
	require.NoError(t, err)
	defer a.Close(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"text":"hello","conversationId":"abc123","lang":"bn"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Contains(t, resp.Messages[1].Text, "hello")

	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations", nil))
	var convos []models.ConversationSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &convos))
	require.Len(t, convos, 1)
	assert.Equal(t, "abc123", convos[0].ConversationID)
}
