// Package rag implements the rag_docs tool: one authenticated POST to a remote
// Retrieval-Augmented-Generation API per call.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bobmcallan/rag-mcp/internal/common"
	"github.com/bobmcallan/rag-mcp/internal/tools"
)

const (
	// DocsPath is appended to the base URL to form the query endpoint.
	DocsPath = "/api/v1/rag/docs"

	// DefaultTimeout bounds one query, including reading the response body.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps the response body read from the RAG API.
	maxResponseSize = 10 << 20
)

// QueryRequest is the JSON body sent to the docs endpoint.
type QueryRequest struct {
	Query          string  `json:"query"`
	IncludeSources bool    `json:"include_sources"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
}

// NewQueryRequest returns the request for q with the fixed generation settings.
func NewQueryRequest(q string) QueryRequest {
	return QueryRequest{
		Query:          q,
		IncludeSources: true,
		MaxTokens:      500,
		Temperature:    0.1,
	}
}

// APIError is returned for any non-200 response. Body holds the raw response
// text, which is usually not JSON.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return tools.ErrRemoteAPI }

// Client posts queries to one RAG API endpoint with a bearer token.
type Client struct {
	endpoint   string
	apiToken   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *common.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-query timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the fallback logger used when the call context carries none.
func WithLogger(l *common.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for creds. The base URL must be an absolute
// http(s) URL; the endpoint is the base URL plus DocsPath.
func NewClient(creds tools.Credentials, opts ...Option) (*Client, error) {
	u, err := url.Parse(creds.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", creds.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", creds.BaseURL)
	}

	c := &Client{
		endpoint: strings.TrimRight(creds.BaseURL, "/") + DocsPath,
		apiToken: creds.APIToken,
		timeout:  DefaultTimeout,
		logger:   common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return "rag " + r.Method + " " + r.URL.Path
				}),
			),
		}
	}
	return c, nil
}

// Endpoint returns the URL queries are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query posts q and returns the decoded JSON response body. Numbers are
// decoded as json.Number so they pass through unchanged.
//
// Errors: *APIError for non-200 responses, an error wrapping tools.ErrTimeout
// when the deadline expires, context.Canceled when the caller gives up, and
// anything else as-is.
func (c *Client) Query(ctx context.Context, q string) (any, error) {
	logger := common.LoggerFromContext(ctx, c.logger)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(NewQueryRequest(q))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	logger.Debug().Str("method", http.MethodPost).Str("endpoint", c.endpoint).Str("query", q).Msg("rag request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		err = classify(err)
		logger.Error().Str("endpoint", c.endpoint).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("rag request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		err = classify(err)
		logger.Error().Str("endpoint", c.endpoint).Int64("duration_ms", time.Since(start).Milliseconds()).Str("error", err.Error()).Msg("rag response read failed")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Int("bytes", len(body)).Msg("rag response")

	if resp.StatusCode != http.StatusOK {
		logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("rag API error")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return data, nil
}

// classify marks deadline expiry as tools.ErrTimeout, whether it surfaced as
// a context deadline or as a transport-level timeout.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", tools.ErrTimeout, err)
	}
	return err
}
