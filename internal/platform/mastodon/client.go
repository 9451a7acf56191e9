// Package mastodon provides a minimal client for posting statuses to a
// Mastodon-compatible instance. Only the single endpoint the share task
// handler needs is implemented.
package mastodon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Common errors returned by the Client
var (
	ErrEmptyBaseURL     = errors.New("mastodon base URL cannot be empty")
	ErrEmptyAccessToken = errors.New("mastodon access token cannot be empty")
)

// defaultTimeout bounds a single status post. The task engine imposes no
// timeout of its own on handlers, so the client owns this.
const defaultTimeout = 15 * time.Second

// Client posts statuses to Mastodon-compatible instances. The zero value
// is not usable; create clients with NewClient.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with a sensible request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTPClient creates a Client using the provided HTTP client.
// Useful for tests and for callers that need custom transport settings.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// PostStatus publishes a status on the instance at baseURL using the given
// access token. The base URL and token come from per-user settings, so they
// are parameters rather than client state.
func (c *Client) PostStatus(ctx context.Context, baseURL, accessToken, status string) error {
	if baseURL == "" {
		return ErrEmptyBaseURL
	}
	if accessToken == "" {
		return ErrEmptyAccessToken
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/v1/statuses"

	form := url.Values{}
	form.Set("status", status)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for diagnostics without trusting it.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status post rejected: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}
