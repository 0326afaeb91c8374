// Package client talks to the tracking control API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned when the control API cannot be reached or
// replies with something that is not a control API response.
var ErrUnavailable = errors.New("control API unavailable")

// Success messages. A start or stop only counts as successful when the
// server replies with exactly these.
const (
	StartedMessage = "Tracking started"
	StoppedMessage = "Tracking stopped"
)

// DefaultTimeout is used when New is given a nil http.Client.
const DefaultTimeout = 10 * time.Second

// Client is a control API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	TrackingEnabled *bool `json:"tracking_enabled"`
}

// Start asks the service to start tracking. It returns the server's message
// and whether it was the success message.
func (c *Client) Start(ctx context.Context) (string, bool, error) {
	return c.command(ctx, "/start", StartedMessage)
}

// Stop asks the service to stop tracking. It returns the server's message
// and whether it was the success message.
func (c *Client) Stop(ctx context.Context) (string, bool, error) {
	return c.command(ctx, "/stop", StoppedMessage)
}

// Status reports whether tracking is enabled.
func (c *Client) Status(ctx context.Context) (bool, error) {
	var resp statusResponse
	status, err := c.do(ctx, http.MethodGet, "/status", &resp)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("%w: status returned %d", ErrUnavailable, status)
	}
	if resp.TrackingEnabled == nil {
		return false, fmt.Errorf("%w: status response without tracking_enabled", ErrUnavailable)
	}
	return *resp.TrackingEnabled, nil
}

func (c *Client) command(ctx context.Context, path, success string) (string, bool, error) {
	var resp messageResponse
	status, err := c.do(ctx, http.MethodPost, path, &resp)
	if err != nil {
		return "", false, err
	}
	return resp.Message, status == http.StatusOK && resp.Message == success, nil
}

// do sends a request and decodes the JSON body into out. Any HTTP status
// is returned as long as the body decodes.
func (c *Client) do(ctx context.Context, method, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s response: %v", ErrUnavailable, path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return 0, fmt.Errorf("%w: decoding %s response (HTTP %d): %v", ErrUnavailable, path, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}
