package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	Messages    []ChatMessage `json:"messages"`
}

func TestChatCompletionSuccess(t *testing.T) {
	var got capturedRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  দাম ঠিক আছে  "}}]}`))
	}))
	defer srv.Close()

	c := NewClient("gsk_test", srv.URL+"/", "llama-3.1-8b-instant", 5*time.Second)
	text, err := c.ChatCompletion(context.Background(), []ChatMessage{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "hi"},
	}, 0.2)

	require.NoError(t, err)
	assert.Equal(t, "দাম ঠিক আছে", text)
	assert.Equal(t, "Bearer gsk_test", auth)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-6)
	assert.Equal(t, []ChatMessage{{Role: "system", Content: "sys"}, {Role: "user", Content: "hi"}}, got.Messages)
	assert.Equal(t, "llama-3.1-8b-instant", c.Model())
}

func TestChatCompletionNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	text, err := NewClient("k", srv.URL, "m", time.Second).ChatCompletion(context.Background(), nil, 0.2)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestChatCompletionStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", srv.URL, "m", time.Second).ChatCompletion(context.Background(), nil, 0.2)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "Invalid API Key")
}

func TestChatCompletionTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient("k", url, "m", time.Second).ChatCompletion(context.Background(), nil, 0.2)

	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
