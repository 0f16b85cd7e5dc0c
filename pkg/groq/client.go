// Package groq talks to Groq's OpenAI-compatible chat-completion endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ChatMessage is one entry of the completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StatusError means the endpoint answered with a non-success HTTP status.
// Any other error returned by Client is a transport or decoding failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("groq API error (status: %d): %s", e.StatusCode, e.Body)
}

// Client wraps a go-openai client pointed at the Groq base URL.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a client. baseURL is the OpenAI-compatible root, e.g.
// https://api.groq.com/openai/v1.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// ChatCompletion sends messages and returns the trimmed content of the first
// choice, or "" when the response carries none.
func (c *Client) ChatCompletion(ctx context.Context, messages []ChatMessage, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: temperature,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		body := reqErr.HTTPStatus
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Body: body}
	}
	return fmt.Errorf("groq request failed: %w", err)
}
