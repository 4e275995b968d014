// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

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
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/mealplan-tui/internal/config"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default retry budget for GET requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the exponential backoff.
	retryMaxDelay = 8 * time.Second

	// MaxResponseSize limits response bodies to 10MB to prevent memory
	// exhaustion from a misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the client has no base URL.
	ErrNotConfigured = errors.New("api base URL not configured")

	// ErrRateLimited indicates the server returned 429.
	ErrRateLimited = errors.New("rate limited by server")

	// ErrServerError indicates a 5xx response.
	ErrServerError = errors.New("server error")
)

// APIError carries the status code and the backend's human-readable detail.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// =============================================================================
// SHARED HTTP CLIENT
// =============================================================================

// PERFORMANCE: one pooled transport shared by every Client instance.
var (
	sharedClient     *http.Client
	sharedClientOnce sync.Once
)

func getSharedClient(timeout time.Duration) *http.Client {
	sharedClientOnce.Do(func() {
		sharedClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	})
	return sharedClient
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the meal-planning backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// New creates a Client from configuration.
func New(cfg *config.Config) *Client {
	timeout := DefaultTimeout
	if cfg.API.TimeoutSecs > 0 {
		timeout = time.Duration(cfg.API.TimeoutSecs) * time.Second
	}

	limit := rate.Inf
	if cfg.API.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.API.RequestsPerSec)
	}

	maxRetries := cfg.API.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.API.BaseURL, "/"),
		httpClient: getSharedClient(timeout),
		limiter:    rate.NewLimiter(limit, 2),
		maxRetries: maxRetries,
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsConfigured reports whether the client can issue requests.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Chat sends the user's query for one conversation and returns the reply.
//
// The thread id is the conversation id, so the backend keeps per-conversation
// context. Retrieval is always on with the top three documents. Chat is not
// retried: the caller's contract on failure is terminal (the placeholder
// message is settled with the error text).
func (c *Client) Chat(ctx context.Context, query, threadID string) (*ChatResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqBody := ChatRequest{
		Query:        query,
		ThreadID:     threadID,
		UseRetrieval: true,
		TopK:         3,
	}

	var out ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", reqBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary fetches the sidebar statistics (grocery list, shops, totals).
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	if err := c.getWithRetry(ctx, "/chat", &out); err != nil {
		return nil, err
	}
	if out.GroceryList == nil {
		out.GroceryList = DefaultSummary.GroceryList
	}
	if out.Shops == nil {
		out.Shops = DefaultSummary.Shops
	}
	return &out, nil
}

// Dashboard fetches the favorites / recipes / recommendation payload.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	if err := c.getWithRetry(ctx, "/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the backend health summary.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.getWithRetry(ctx, "/health-status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReportLocation posts the one-shot session location. Fire-and-forget: the
// caller logs failures and moves on, so no retry is attempted here either.
func (c *Client) ReportLocation(ctx context.Context, report LocationReport) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, "/session/location", report, nil)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// getWithRetry performs a GET with exponential backoff on transient failures
// (network errors, 429, 5xx).
func (c *Client) getWithRetry(ctx context.Context, path string, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.doJSON(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			return err
		}
	}
	return lastErr
}

// doJSON issues one request and decodes the JSON response into out (if
// non-nil). Non-2xx responses become an *APIError carrying the backend's
// detail string when one is present.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// RELIABILITY: cap the body read to guard against a runaway server.
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// decodeError converts a failure response into a typed error.
func decodeError(status int, data []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Detail != "" {
		return &APIError{StatusCode: status, Message: env.Detail}
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d)", ErrRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w (status %d)", ErrServerError, status)
	default:
		return &APIError{StatusCode: status}
	}
}

// isTransient reports whether an error is worth retrying.
func isTransient(err error) bool {
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	// Network-level errors (connection refused, reset) are transient;
	// context cancellation is not.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// calculateBackoff returns the exponential backoff delay for an attempt:
// 500ms, 1s, 2s, ... capped at retryMaxDelay.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		return retryMaxDelay
	}
	return delay
}
