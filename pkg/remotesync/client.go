// Package remotesync persists a collection's display order to the server as
// soon as a drag completes, instead of waiting for the page's submit. The
// payload carries stable server-assigned identifiers in the new visual
// order; the visual reorder is accepted optimistically, so a failed request
// only produces an error notification and never rolls the order back.
package remotesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// DefaultEndpoint is the reorder persistence endpoint.
const DefaultEndpoint = "/api/admin/projects/reorder"

// CSRFHeader carries the anti-forgery token sourced from the page's
// csrf-token meta tag.
const CSRFHeader = "X-CSRFToken"

const (
	successMessage = "Project order saved."
	failureMessage = "Failed to save project order."
)

type reorderRequest struct {
	ProjectHexIDs []string `json:"project_hex_ids"`
}

type reorderResponse struct {
	Error string `json:"error"`
}

// Client pushes reorder payloads and reports outcomes through a Notifier.
type Client struct {
	httpClient *http.Client
	endpoint   string
	csrfToken  string
	notifier   Notifier
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpoint overrides the reorder endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithCSRFToken sets the token sent in the CSRF header.
func WithCSRFToken(token string) Option {
	return func(c *Client) {
		c.csrfToken = token
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client with the default endpoint and a no-op notifier.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		endpoint:   DefaultEndpoint,
		notifier:   NotifierFunc(func(Notification) {}),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PushOrder persists hexIDs as the new display order. Any transport
// failure, non-2xx status, undecodable body, or application-level error
// field is reported through the notifier and returned; the caller's order
// stays as-is either way.
func (c *Client) PushOrder(ctx context.Context, hexIDs []string) error {
	body, err := json.Marshal(reorderRequest{ProjectHexIDs: hexIDs})
	if err != nil {
		return c.fail(fmt.Errorf("remotesync: encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return c.fail(fmt.Errorf("remotesync: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrfToken != "" {
		req.Header.Set(CSRFHeader, c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(fmt.Errorf("remotesync: push order: %w", err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return c.fail(fmt.Errorf("remotesync: read response: %w", err))
	}

	var decoded reorderResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return c.fail(fmt.Errorf("remotesync: decode response: %w", err))
	}
	if decoded.Error != "" {
		return c.fail(fmt.Errorf("remotesync: server rejected reorder: %s", decoded.Error))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(fmt.Errorf("remotesync: unexpected status %d", resp.StatusCode))
	}

	c.notifier.Notify(Notification{Level: LevelSuccess, Message: successMessage})
	return nil
}

func (c *Client) fail(err error) error {
	c.logger.Error("project reorder failed", "error", err)
	c.notifier.Notify(Notification{Level: LevelError, Message: failureMessage})
	return err
}
