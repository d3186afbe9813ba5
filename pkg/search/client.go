// Package search talks to the external search service. Ranking, vector
// indexes and inference all live on the other side of this client; the
// browse server only forwards queries and joins the returned keys with
// catalog metadata.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// defaultTimeout bounds one search round-trip including retries.
	defaultTimeout = 10 * time.Second
	// maxRetries is the bounded backoff attempt count for backend failures.
	maxRetries = 3
)

// ErrUnavailable is returned when the search backend cannot be reached or
// answers with a server error after retries.
var ErrUnavailable = errors.New("search backend unavailable")

// Hit is one ranked result: a record key plus its relevance score.
type Hit struct {
	Key   string  `json:"s3_key"`
	Score float64 `json:"score"`
}

// Client is an HTTP client for the search backend with bounded exponential
// backoff on connection failures and 5xx answers.
type Client struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewClient creates a search client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{baseURL: baseURL, client: rc}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Frames []Hit `json:"frames"`
	Count  int   `json:"count"`
}

// Search runs a text query against the backend and returns the ranked hits.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	body, err := json.Marshal(searchRequest{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: backend returned %d", ErrUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("search backend rejected query: %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: undecodable response: %w", ErrUnavailable, err)
	}
	return parsed.Frames, nil
}

// Healthy checks backend reachability for the health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
