package accounts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/config"
)

func testClientConfig(baseURL string) config.Config {
	return config.Config{
		AccountsBaseURL:             baseURL,
		AccountsIntrospectPath:      "/v1/tokens/introspect",
		AccountsTimeout:             2 * time.Second,
		AccountsCacheTTL:            time.Minute,
		AccountsCircuitEnabled:      true,
		AccountsCircuitFailureCount: 2,
		AccountsCircuitOpenTimeout:  time.Minute,
		AccountsCircuitHalfOpenMax:  1,
	}
}

func TestVerifyAccessTokenReturnsPrincipal(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer good-token" {
			t.Errorf("unexpected authorization header: got=%s", got)
		}
		w.Write([]byte(`{"active":true,"user_id":"u-1","email":"a@b.c","name":"Ada"}`))
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)

	principal, err := client.VerifyAccessToken(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.UserID != "u-1" || principal.Name != "Ada" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	// Second call for the same token must come from cache.
	if _, err := client.VerifyAccessToken(context.Background(), "good-token"); err != nil {
		t.Fatalf("unexpected error on cached verify: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("unexpected introspect call count: got=%d want=1", got)
	}
}

func TestVerifyAccessTokenRejectsInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)

	if _, err := client.VerifyAccessToken(context.Background(), "bad-token"); !crerr.Is(err, ErrTokenInvalid) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrTokenInvalid)
	}
	if _, err := client.VerifyAccessToken(context.Background(), ""); !crerr.Is(err, ErrTokenInvalid) {
		t.Fatalf("unexpected error for empty token: got=%v", err)
	}
}

func TestVerifyAccessTokenOpensBreakerAfterFailures(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)

	for i := 0; i < 2; i++ {
		if _, err := client.VerifyAccessToken(context.Background(), "token-"+string(rune('a'+i))); !crerr.Is(err, ErrUnavailable) {
			t.Fatalf("unexpected error on attempt %d: %v", i, err)
		}
	}

	// Breaker is open now, so the next token fails without a request.
	before := calls.Load()
	if _, err := client.VerifyAccessToken(context.Background(), "token-z"); !crerr.Is(err, ErrUnavailable) {
		t.Fatalf("unexpected error with open breaker: %v", err)
	}
	if calls.Load() != before {
		t.Fatalf("expected no introspect call with open breaker: got=%d want=%d", calls.Load(), before)
	}
}
