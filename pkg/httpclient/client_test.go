// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	config := Config{
		Timeout: 10 * time.Second,
	}

	client := NewClient(config)

	if client.config.Timeout != config.Timeout {
		t.Errorf("Expected timeout %v, got %v", config.Timeout, client.config.Timeout)
	}
	if client.httpClient.Timeout != config.Timeout {
		t.Errorf("Expected HTTP client timeout %v, got %v", config.Timeout, client.httpClient.Timeout)
	}
}

func TestClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if got := r.Header.Get("Custom-Header"); got != "custom-value" {
			t.Errorf("Expected custom header, got %q", got)
		}

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"message": "success"}`))
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())
	ctx := context.Background()

	headers := map[string]string{
		"Custom-Header": "custom-value",
	}

	resp, err := client.Request(ctx, "GET", server.URL, nil, headers)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code 200, got %d", resp.StatusCode)
	}

	expectedBody := `{"message": "success"}`
	if string(resp.Body) != expectedBody {
		t.Errorf("Expected body '%s', got '%s'", expectedBody, string(resp.Body))
	}
}

func TestClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"message": "not found"}`))
		if err != nil {
			t.Errorf("Expected no error writing response, got %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())
	ctx := context.Background()

	_, err := client.Request(ctx, "GET", server.URL, nil, nil)

	// Error contract: non-2xx responses MUST return *StatusError
	require.Error(t, err, "Expected error for 404 status")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr, "Expected *StatusError for non-2xx response, got %T", err)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode, "Expected status code 404")
	assert.Contains(t, statusErr.Message, "not found", "Expected error message to contain 'not found'")
}

func TestClient_NoRetry_ServerError(t *testing.T) {
	callCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())

	_, err := client.Request(context.Background(), "GET", server.URL, nil, nil)
	require.Error(t, err)

	// Failures propagate immediately; a 500 must not trigger a second attempt.
	assert.Equal(t, 1, callCount, "Expected exactly one attempt")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{Timeout: 20 * time.Millisecond})

	_, err := client.Request(context.Background(), "GET", server.URL, nil, nil)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr, "Expected *TimeoutError, got %T", err)
}

type headerRoundTripper struct {
	key, value string
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	req.Header.Set(rt.key, rt.value)
	return next(req)
}

func TestClient_RoundTripperChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "first", r.Header.Get("X-First"))
		assert.Equal(t, "second", r.Header.Get("X-Second"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())
	client.AddRoundTripper(&headerRoundTripper{key: "X-First", value: "first"})
	client.AddRoundTripper(&headerRoundTripper{key: "X-Second", value: "second"})

	_, err := client.Request(context.Background(), "GET", server.URL, nil, nil)
	require.NoError(t, err)
}

func TestClient_Metrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	client := NewClient(DefaultConfig())
	client.SetMetrics(NewMetrics(reg))

	_, err := client.Request(context.Background(), "GET", server.URL, nil, nil)
	require.NoError(t, err)

	m := client.metrics
	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "success"))
	assert.Equal(t, float64(1), count)
}
