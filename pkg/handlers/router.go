package handlers

import (
	"net/http"
	"strings"
	"time"

	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 10 << 20
)

// RouterDeps is everything NewRouter mounts.
type RouterDeps struct {
	ClientOrigin  string
	Env           models.EnvStatus
	Conversations *services.ConversationService
	Chat          *services.ChatService
	Predictions   *services.PredictionService
	Monitoring    *services.MonitoringService
	Logger        *logger.Logger
	// Client, when set, serves the single-page app for non-API paths.
	Client http.Handler
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(deps.Monitoring.LoggingMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	health := NewHealthHandler(deps.Env)
	conversations := NewConversationHandler(deps.Conversations, log)
	chat := NewChatHandler(deps.Chat, log)
	predictions := NewPredictionHandler(deps.Predictions, log)
	monitoring := NewMonitoringHandler(deps.Monitoring)

	jsonLimit := limitBody(maxJSONBody)

	api := r.Group("/api")
	{
		api.GET("/health", health.Health)
		api.GET("/debug/env", health.Env)

		api.GET("/conversations", conversations.List)
		api.DELETE("/conversations/:cid", conversations.Delete)
		api.GET("/messages", conversations.Messages)

		api.POST("/chat", jsonLimit, chat.PostChat)

		api.POST("/predict", jsonLimit, predictions.Predict)
		api.POST("/predict/upload", limitBody(maxUploadBody), predictions.Upload)
		api.GET("/model/health", predictions.ModelHealth)

		api.GET("/monitoring/logs", monitoring.GetLogs)
	}

	r.NoRoute(func(c *gin.Context) {
		if deps.Client == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		deps.Client.ServeHTTP(c.Writer, c.Request)
	})

	return r
}
