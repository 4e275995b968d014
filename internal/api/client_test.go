// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mealplan-tui/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestsPerSec = 0 // unlimited in tests
	c := New(cfg).WithHTTPClient(srv.Client())
	return c, srv
}

func TestChatRequestShape(t *testing.T) {
	var got ChatRequest
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(ChatResponse{
			Response: "Try a lentil curry.",
			ThreadID: got.ThreadID,
		})
	}))

	resp, err := c.Chat(context.Background(), "what's for dinner", "conv_42")
	require.NoError(t, err)

	assert.Equal(t, "what's for dinner", got.Query)
	assert.Equal(t, "conv_42", got.ThreadID)
	assert.True(t, got.UseRetrieval)
	assert.Equal(t, 3, got.TopK)
	assert.Equal(t, "Try a lentil curry.", resp.Response)
}

func TestChatErrorDetail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model backend unavailable"})
	}))

	_, err := c.Chat(context.Background(), "q", "t")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "model backend unavailable", apiErr.Message)
	assert.Equal(t, "model backend unavailable", err.Error())
}

func TestChatNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Chat(context.Background(), "q", "t")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "chat must not be retried")
}

func TestDashboardRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(Dashboard{
			Favorites:      []Favorite{{Name: "oat milk", Count: 7}},
			Recipes:        []Recipe{{Title: "Shakshuka"}},
			Recommendation: "Buy in bulk this week.",
		})
	}))

	d, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "oat milk", d.Favorites[0].Name)
	assert.Equal(t, 7, d.Favorites[0].Count)
	assert.Equal(t, "Shakshuka", d.Recipes[0].Title)
	assert.Equal(t, "Buy in bulk this week.", d.Recommendation)
}

func TestDashboardGivesUpOnClientError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.Dashboard(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestSummaryDefaultsEmptyCollections(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		w.Write([]byte(`{"total_spent": 42.5}`))
	}))

	s, err := c.Summary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s.GroceryList)
	assert.NotNil(t, s.Shops)
	assert.Equal(t, 42.5, s.TotalSpent)
}

func TestHealth(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health-status", r.URL.Path)
		json.NewEncoder(w).Encode(HealthStatus{
			Status:    "ok",
			Timestamp: "2025-06-01T12:00:00Z",
			Services:  map[string]string{"db": "up", "llm": "up"},
		})
	}))

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "up", h.Services["db"])
}

func TestReportLocation(t *testing.T) {
	var got LocationReport
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/session/location", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))

	err := c.ReportLocation(context.Background(), LocationReport{
		ThreadID: "conv_1",
		Lat:      52.52,
		Lng:      13.405,
		RadiusM:  5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "conv_1", got.ThreadID)
	assert.Equal(t, 52.52, got.Lat)
	assert.Equal(t, 13.405, got.Lng)
	assert.Equal(t, 5000, got.RadiusM)
}

func TestNotConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = ""
	c := New(cfg)

	_, err := c.Chat(context.Background(), "q", "t")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.Dashboard(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = c.ReportLocation(context.Background(), LocationReport{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{10, retryMaxDelay},
	}
	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt); got != tt.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestContextCancellationNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.Health(ctx)
	require.Error(t, err)
	// The first retry sleep observes the cancelled context and stops.
	assert.LessOrEqual(t, calls.Load(), int32(2))
}
