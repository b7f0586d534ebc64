package sportapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sporating/sporating/internal/platform/logging"
	"github.com/sporating/sporating/internal/platform/resilience"
)

func newTestClient(t *testing.T, srv *httptest.Server, maxRetries int) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:    srv.URL,
		Host:       "test.api-sports.io",
		APIKey:     "secret-key",
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 10,
			OpenTimeout:      time.Second,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())
}

func TestClient_GetJSON(t *testing.T) {
	var gotKey, gotHost string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		_, _ = w.Write([]byte(`{"response":[{"id":7}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0)

	var out struct {
		Response []struct {
			ID int64 `json:"id"`
		} `json:"response"`
	}
	if err := client.GetJSON(context.Background(), "/fixtures", url.Values{"season": {"2025"}}, &out); err != nil {
		t.Fatalf("get json: %v", err)
	}

	if len(out.Response) != 1 || out.Response[0].ID != 7 {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if gotKey != "secret-key" {
		t.Fatalf("unexpected api key header: got=%s", gotKey)
	}
	if gotHost != "test.api-sports.io" {
		t.Fatalf("unexpected host header: got=%s", gotHost)
	}
}

func TestClient_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"response":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 2)

	var out struct {
		Response []any `json:"response"`
	}
	if err := client.GetJSON(context.Background(), "/games", nil, &out); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("unexpected call count: got=%d want=2", got)
	}
}

func TestClient_DoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad key secret-key"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 3)

	var out struct{}
	err := client.GetJSON(context.Background(), "/games", nil, &out)
	if err == nil {
		t.Fatalf("expected error on 403")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("unexpected call count: got=%d want=1", got)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestClient_MissingKeyFailsFast(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://example.invalid", Host: "h"}, logging.NewNop())

	var out struct{}
	if err := client.GetJSON(context.Background(), "/fixtures", nil, &out); err == nil {
		t.Fatalf("expected error when api key is missing")
	}
}
