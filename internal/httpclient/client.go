// Package httpclient is the transport shared by every gateway client: one
// base URL, static headers, a timeout and per-request logging.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries a per-request uuid to the gateway.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds transport settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// Client issues requests relative to a base URL.
type Client struct {
	baseURL *url.URL
	headers http.Header
	http    *http.Client
	log     zerolog.Logger
}

// New creates a client. It fails only on an unusable base URL.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("New: parse base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" || base.RawQuery != "" {
		return nil, fmt.Errorf("New: base url %q must be an http(s) host without a query", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	headers := make(http.Header, len(cfg.Headers)+1)
	headers.Set("Accept", "application/json")
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	return &Client{
		baseURL: base,
		headers: headers,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "httpclient").Logger(),
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get issues a GET for path with an optional query.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST for path with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Do builds and sends one request. The caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	u := c.resolve(path, query)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("Do: build request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("method", method).
			Str("url", u).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("HTTP request failed")
		return nil, fmt.Errorf("Do: %s %s: %w", method, u, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("url", u).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("HTTP request")
	return resp, nil
}

// resolve joins path, which must already be escaped, onto the base URL.
func (c *Client) resolve(path string, query url.Values) string {
	u := strings.TrimRight(c.baseURL.String()+"/"+strings.TrimLeft(path, "/"), "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Close releases idle keep-alive connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
