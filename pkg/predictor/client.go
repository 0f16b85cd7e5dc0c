// Package predictor forwards item batches to the external prediction service.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dalal-chat-api/pkg/models"
)

// Response is what the prediction service answered. Body is the decoded JSON
// payload, or {"raw": text} when the body was not JSON.
type Response struct {
	StatusCode int
	Body       any
}

// OK reports whether the status is 2xx.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client posts batches to a single prediction URL.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the target endpoint.
func (c *Client) URL() string { return c.url }

// Predict sends {"items": items}. A non-2xx answer is not an error; only
// failures to reach the service or read its body are.
func (c *Client) Predict(ctx context.Context, items []models.Item) (Response, error) {
	return c.doRequest(ctx, models.PredictBatch{Items: items})
}

func (c *Client) doRequest(ctx context.Context, requestData any) (Response, error) {
	requestBody, err := json.Marshal(requestData)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(requestBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read prediction response: %w", err)
	}

	return Response{StatusCode: resp.StatusCode, Body: decodeBody(body)}, nil
}

func decodeBody(body []byte) any {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]any{"raw": string(body)}
	}
	return decoded
}
