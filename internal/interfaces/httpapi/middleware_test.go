package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sporating/sporating/external/accounts"
	"github.com/sporating/sporating/internal/domain/user"
	"github.com/sporating/sporating/internal/platform/logging"
)

type stubVerifier struct {
	principal user.Principal
	err       error
	calls     int
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	v.calls++
	return v.principal, v.err
}

func okHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func TestCorsHeadersAllowsConfiguredOrigin(t *testing.T) {
	h := corsHeaders([]string{"https://sporating.app"})(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	req.Header.Set("Origin", "https://sporating.app")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://sporating.app" {
		t.Fatalf("unexpected allow-origin: got=%q want=%q", got, "https://sporating.app")
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("unexpected vary header: got=%q want=%q", got, "Origin")
	}
}

func TestCorsHeadersIgnoresUnknownOrigin(t *testing.T) {
	h := corsHeaders([]string{"https://sporating.app"})(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}

func TestCorsHeadersPreflightShortCircuits(t *testing.T) {
	called := false
	h := corsHeaders([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/ratings", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected preflight status: got=%d want=%d", rec.Code, http.StatusNoContent)
	}
	if called {
		t.Fatal("preflight request must not reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin: got=%q want=%q", got, "*")
	}
}

func TestRecoverPanicWritesEnvelope(t *testing.T) {
	h := recoverPanic(logging.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusInternalServerError)
	}
	if body := rec.Body.String(); strings.Contains(body, "boom") {
		t.Fatalf("panic detail leaked to the client: %s", body)
	}
}

func TestRequireAuthStoresPrincipal(t *testing.T) {
	verifier := &stubVerifier{principal: user.Principal{UserID: "u-1", Name: "Ada"}}
	s := &Server{accounts: verifier, logger: logging.NewNop()}

	var seen user.Principal
	h := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = principalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/favorites/me", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if seen.UserID != "u-1" {
		t.Fatalf("principal not stored on context: got=%q want=%q", seen.UserID, "u-1")
	}
	if verifier.calls != 1 {
		t.Fatalf("unexpected verifier calls: got=%d want=1", verifier.calls)
	}
}

func TestRequireAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	verifier := &stubVerifier{}
	s := &Server{accounts: verifier, logger: logging.NewNop()}
	h := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	for _, header := range []string{"", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/favorites/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: unexpected status: got=%d want=%d", header, rec.Code, http.StatusUnauthorized)
		}
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier should not be consulted without a token, calls=%d", verifier.calls)
	}
}

func TestRequireAuthMapsVerifierErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", accounts.ErrTokenInvalid, http.StatusUnauthorized},
		{"accounts down", accounts.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Server{accounts: &stubVerifier{err: tc.err}, logger: logging.NewNop()}
			h := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/favorites/me", nil)
			req.Header.Set("Authorization", "Bearer tok")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequireInternalToken(t *testing.T) {
	s := &Server{internalJobToken: "secret", logger: logging.NewNop()}
	h := s.requireInternalToken(okHandler(t))

	t.Run("matching token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/import", nil)
		req.Header.Set("X-Internal-Job-Token", "secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
		}
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/import", nil)
		req.Header.Set("X-Internal-Job-Token", "guess")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("disabled when no token configured", func(t *testing.T) {
		disabled := &Server{logger: logging.NewNop()}
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/import", nil)
		req.Header.Set("X-Internal-Job-Token", "")
		rec := httptest.NewRecorder()
		disabled.requireInternalToken(okHandler(t)).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusForbidden)
		}
	})
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := bearerToken(req); got != tc.want {
			t.Fatalf("header %q: got=%q want=%q", tc.header, got, tc.want)
		}
	}
}
