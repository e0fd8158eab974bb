// Package gateway submits analysis queries to the coordinator agent and
// normalizes its replies into the canonical result shape.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ak-9647/financial-MAS-Project/domain"
)

// Client is an HTTP client for the coordinator endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given coordinator base URL. timeout
// bounds the whole submission; zero selects the 30s default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Submit sends one analysis query to the coordinator and returns the
// normalized result. Transport and server failures surface as a
// *domain.RequestError. Single attempt; the caller decides on retries.
func (c *Client) Submit(ctx context.Context, query string) (*domain.AnalysisResult, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	envelope := domain.SubmitRequest{
		Message: domain.EnvelopeMessage{
			Role:  "user",
			Parts: []domain.Part{{Text: string(payload)}},
		},
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.RequestError{Message: domain.FallbackSubmitError, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.RequestError{
			StatusCode: resp.StatusCode,
			Message:    domain.FallbackSubmitError,
			Err:        err,
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	result, _ := Normalize(respBody)
	return result, nil
}

// errorMessage extracts the server's structured error message if present.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return domain.FallbackSubmitError
}
