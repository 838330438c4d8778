// Package mlclient is the HTTP client for the intern-classification ML
// sidecar. The sidecar exposes POST /classify and GET /health; when it is
// unreachable the classifier degrades to its rule-based path.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable indicates the ML sidecar is unreachable or unhealthy.
var ErrUnavailable = errors.New("intern ML service unavailable")

const defaultTimeout = 5 * time.Second

// Client is an HTTP client for the ML sidecar.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new ML client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// classifyRequest is the request body for POST /classify.
type classifyRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ClassifyResponse is the response body from POST /classify.
type ClassifyResponse struct {
	Label            string  `json:"label"`
	Confidence       float64 `json:"confidence"`
	ModelVersion     string  `json:"model_version,omitempty"`
	ProcessingTimeMs int64   `json:"processing_time_ms,omitempty"`
}

// IsIntern reports whether the sidecar labeled the text as an internship.
func (r *ClassifyResponse) IsIntern() bool {
	return r.Label == "intern"
}

// Classify sends posting text to the sidecar and returns its verdict.
func (c *Client) Classify(ctx context.Context, title, body string) (*ClassifyResponse, error) {
	payload, err := json.Marshal(&classifyRequest{Title: title, Body: body})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result ClassifyResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return &result, nil
}

// Health checks whether the sidecar is reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
