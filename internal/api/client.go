package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client performs JSON requests against the shop backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *zap.Logger
}

// NewClient creates a client rooted at baseURL. tokens may be nil.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
}

// SetTokenSource replaces the token source used for later requests
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// BaseURL returns the backend root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends body (if non-nil) as JSON to path and decodes the response
// into out (if non-nil). Non-2xx responses return *HTTPError.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty response body", method, path)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get is Request with GET and no body
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}

// Post is Request with POST
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, body, out)
}
