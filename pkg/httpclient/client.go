// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package httpclient provides the HTTP transport for remote API calls.
// Requests are single-shot: a failed call is surfaced immediately and is
// never retried, so every side effect maps to exactly one wire attempt.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// RoundTripper interface for request middleware.
type RoundTripper interface {
	RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error)
}

// Config holds the transport configuration.
type Config struct {
	// Timeout bounds each individual HTTP call. There is no aggregate
	// deadline for a logical batch; a long batch issues many
	// independently-timed calls.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}

// Client represents a generic HTTP client with middleware support.
type Client struct {
	config        Config
	httpClient    *http.Client
	roundTrippers []RoundTripper
	metrics       *Metrics
}

// Request represents an HTTP request configuration.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// StatusError is returned for any response with a 4xx/5xx status code.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// TimeoutError marks a request that exceeded its per-call deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// NewClient creates a new HTTP client with the given configuration.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// AddRoundTripper adds a middleware RoundTripper to the client.
// This method is not safe for concurrent use and should only be called
// during client initialization before making any requests.
func (c *Client) AddRoundTripper(rt RoundTripper) {
	c.roundTrippers = append(c.roundTrippers, rt)
}

// SetMetrics attaches request metrics to the client. Like AddRoundTripper
// it must be called before the first request.
func (c *Client) SetMetrics(m *Metrics) {
	c.metrics = m
}

// Do executes a single HTTP request attempt.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	response, err := c.doRequest(ctx, req)
	c.observe(req.Method, response, err, time.Since(start))

	if err != nil {
		slog.DebugContext(ctx, "request failed", "method", req.Method, "error", err)
	}
	return response, err
}

// doRequest performs the HTTP request through the RoundTripper chain.
func (c *Client) doRequest(ctx context.Context, reqConfig Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, reqConfig.Method, reqConfig.URL, reqConfig.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	httpReq.Header.Set("Accept", "application/json")

	// Set custom headers
	for key, value := range reqConfig.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.executeRoundTripperChain(httpReq, 0)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return response, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return response, nil
}

// isTimeout reports whether err is a deadline expiry, either from the
// per-call http.Client timeout or from the caller's context.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Request performs an HTTP request with the specified verb.
func (c *Client) Request(ctx context.Context, verb, url string, body io.Reader, headers map[string]string) (*Response, error) {
	req := Request{
		Method:  verb,
		URL:     url,
		Headers: headers,
		Body:    body,
	}
	return c.Do(ctx, req)
}

// executeRoundTripperChain executes the RoundTripper middleware chain.
func (c *Client) executeRoundTripperChain(req *http.Request, index int) (*http.Response, error) {
	if index >= len(c.roundTrippers) {
		// Base case: execute the actual HTTP request
		return c.httpClient.Do(req)
	}

	next := func(req *http.Request) (*http.Response, error) {
		return c.executeRoundTripperChain(req, index+1)
	}

	return c.roundTrippers[index].RoundTrip(req, next)
}

// observe records request metrics when a collector is attached.
func (c *Client) observe(method string, resp *Response, err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}

	outcome := "success"
	switch {
	case err != nil && resp == nil:
		outcome = "error"
	case err != nil:
		outcome = fmt.Sprintf("%d", resp.StatusCode)
	}

	c.metrics.RequestsTotal.WithLabelValues(method, outcome).Inc()
	c.metrics.RequestDurationSeconds.WithLabelValues(method).Observe(elapsed.Seconds())
}
