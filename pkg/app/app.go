// Package app wires configuration, storage, clients and services into the
// HTTP router shared by the server binary and the serverless entrypoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/groq"
	"dalal-chat-api/pkg/handlers"
	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/predictor"
	"dalal-chat-api/pkg/services"
	"dalal-chat-api/pkg/store"
	"dalal-chat-api/web"

	"github.com/gin-gonic/gin"
)

// App is a fully wired application.
type App struct {
	Router *gin.Engine
	Store  store.MessageStore
	log    *logger.Logger
}

// Build opens the configured store and wires everything around it.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	s, err := store.Open(ctx, store.Options{
		Driver:      cfg.StoreDriver,
		MongoURI:    cfg.MongoDBURI,
		MongoDBName: cfg.MongoDBName,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	a, err := BuildWithStore(cfg, log, s)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return a, nil
}

// BuildWithStore wires the application around an already opened store.
func BuildWithStore(cfg *config.Config, log *logger.Logger, s store.MessageStore) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	catalog, err := config.LoadPromptCatalog(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	gin.SetMode(ginMode(cfg.Environment))

	conversations := services.NewConversationService(s)
	chat := services.NewChatService(s, conversations, NewReplyGenerator(cfg, catalog, log), log)
	predictions := services.NewPredictionService(predictor.NewClient(cfg.PredictURL, cfg.PredictTimeout), log)
	monitoring := services.NewMonitoringService(log)

	router := handlers.NewRouter(handlers.RouterDeps{
		ClientOrigin:  cfg.ClientOrigin,
		Env:           EnvStatus(cfg),
		Conversations: conversations,
		Chat:          chat,
		Predictions:   predictions,
		Monitoring:    monitoring,
		Logger:        log,
		Client:        web.Handler(),
	})

	log.Info("application wired",
		"store", cfg.StoreDriver,
		"llm", cfg.LLMEnabled(),
		"model", cfg.GroqModel,
		"predictUrl", cfg.PredictURL,
	)
	return &App{Router: router, Store: s, log: log}, nil
}

// NewReplyGenerator picks the LLM generator when a Groq key is configured
// and the canned one otherwise.
func NewReplyGenerator(cfg *config.Config, catalog *config.PromptCatalog, log *logger.Logger) services.ReplyGenerator {
	if !cfg.LLMEnabled() {
		return services.NewFallbackReplyGenerator(catalog)
	}
	client := groq.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.LLMTimeout)
	return services.NewLLMReplyGenerator(client, catalog, log)
}

// EnvStatus is the configuration summary served by /api/debug/env.
func EnvStatus(cfg *config.Config) models.EnvStatus {
	return models.EnvStatus{
		Groq:       cfg.LLMEnabled(),
		Model:      cfg.GroqModel,
		PredictURL: cfg.PredictURLSet,
	}
}

// Run serves the router on addr until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	a.log.Info("API listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the store.
func (a *App) Close(ctx context.Context) error {
	if err := a.Store.Close(ctx); err != nil {
		a.log.Warn("store close failed", "error", err)
		return err
	}
	return nil
}

func ginMode(environment string) string {
	switch environment {
	case "production", "prod":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
