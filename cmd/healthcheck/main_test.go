package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/store"

	"github.com/stretchr/testify/assert"
)

func testConfig(predictURL string) *config.Config {
	return &config.Config{
		StoreDriver:    store.DriverMemory,
		GroqModel:      config.DefaultGroqModel,
		GroqBaseURL:    config.DefaultGroqBaseURL,
		LLMTimeout:     time.Second,
		PredictURL:     predictURL,
		PredictTimeout: time.Second,
	}
}

func TestRunAllHealthy(t *testing.T) {
	predict := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predictions":[1]}`))
	}))
	defer predict.Close()
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Hi!"}}]}`))
	}))
	defer llm.Close()

	cfg := testConfig(predict.URL)
	cfg.GroqAPIKey = "gsk_test"
	cfg.GroqBaseURL = llm.URL

	var out bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "OK   store")
	assert.Contains(t, out.String(), `replied "Hi!"`)
	assert.Contains(t, out.String(), "OK   predictor")
}

func TestRunReportsFailures(t *testing.T) {
	predict := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer predict.Close()

	cfg := testConfig(predict.URL)
	cfg.StoreDriver = "cassandra"

	var out bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "FAIL store")
	assert.Contains(t, out.String(), "SKIP groq")
	assert.Contains(t, out.String(), "FAIL predictor")
}
