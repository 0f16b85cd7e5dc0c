package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/app"
	"dalal-chat-api/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logg.Sync()

	logg.Info("configuration loaded",
		"environment", cfg.Environment,
		"store", cfg.StoreDriver,
		"groq", cfg.LLMEnabled(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("failed to build application", "error", err)
	}
	defer a.Close(context.Background())

	if err := a.Run(ctx, fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logg.Error("server stopped", "error", err)
	}
}
