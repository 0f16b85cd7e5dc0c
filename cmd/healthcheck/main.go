// Command healthcheck probes every external dependency the API relies on:
// the message store, the Groq chat-completion endpoint and the prediction
// service. It exits non-zero when any probe fails.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/groq"
	"dalal-chat-api/pkg/predictor"
	"dalal-chat-api/pkg/services"
	"dalal-chat-api/pkg/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if failed := run(ctx, cfg, os.Stdout); failed > 0 {
		log.Fatalf("%d check(s) failed", failed)
	}
}

// run prints one line per probe and returns the number of failed probes.
func run(ctx context.Context, cfg *config.Config, out io.Writer) int {
	failed := 0
	report := func(name string, err error, detail string) {
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %-10s %v\n", name, err)
			return
		}
		fmt.Fprintf(out, "OK   %-10s %s\n", name, detail)
	}

	report("store", checkStore(ctx, cfg), cfg.StoreDriver)

	if cfg.LLMEnabled() {
		reply, err := checkGroq(ctx, cfg)
		report("groq", err, fmt.Sprintf("%s replied %q", cfg.GroqModel, reply))
	} else {
		fmt.Fprintf(out, "SKIP %-10s GROQ_API_KEY not set, canned replies in use\n", "groq")
	}

	health, err := services.NewPredictionService(predictor.NewClient(cfg.PredictURL, cfg.PredictTimeout), nil).ModelHealth(ctx)
	if err == nil && !health.OK {
		err = fmt.Errorf("%s answered status %d: %v", cfg.PredictURL, health.Status, health.Body)
	}
	report("predictor", err, fmt.Sprintf("%s status %d", cfg.PredictURL, health.Status))

	return failed
}

func checkStore(ctx context.Context, cfg *config.Config) error {
	s, err := store.Open(ctx, store.Options{
		Driver:      cfg.StoreDriver,
		MongoURI:    cfg.MongoDBURI,
		MongoDBName: cfg.MongoDBName,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}
	defer s.Close(context.Background())
	return s.Ping(ctx)
}

func checkGroq(ctx context.Context, cfg *config.Config) (string, error) {
	client := groq.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.LLMTimeout)
	return client.ChatCompletion(ctx, []groq.ChatMessage{{Role: "user", Content: "Hello!"}}, 0)
}
