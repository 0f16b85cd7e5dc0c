package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/app"
	"dalal-chat-api/pkg/logger"
)

var (
	application *app.App
	setupErr    error
	once        sync.Once
)

// setupApp builds the application once per serverless instance. Environment
// variables come from the platform, so godotenv is not used here.
func setupApp() (*app.App, error) {
	once.Do(func() {
		cfg := config.LoadConfig()
		logg, err := logger.New(cfg.LogMode)
		if err != nil {
			setupErr = err
			return
		}
		application, setupErr = app.Build(context.Background(), cfg, logg)
		if setupErr == nil {
			logg.Info("serverless application initialized", "store", cfg.StoreDriver)
		}
	})
	return application, setupErr
}

// Handler is the serverless entrypoint for every request.
func Handler(w http.ResponseWriter, r *http.Request) {
	a, err := setupApp()
	if err != nil {
		log.Printf("application setup failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Service unavailable"}`))
		return
	}
	a.Router.ServeHTTP(w, r)
}
