package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sporating/sporating/external/accounts"
	"github.com/sporating/sporating/internal/domain/user"
	"github.com/sporating/sporating/internal/platform/logging"
	"github.com/sporating/sporating/internal/usecase"
)

type middleware func(http.Handler) http.Handler

func chain(h http.Handler, middlewares ...middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func requestTracing(serviceName string) middleware {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogging(logger *logging.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func corsHeaders(allowedOrigins []string) middleware {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				if allowAll {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func recoverPanic(logger *logging.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panicked",
						"path", r.URL.Path,
						"panic", rec,
					)
					writeError(r.Context(), w, crerr.Newf("panic: %v", rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// TokenVerifier is the slice of the accounts client the auth middleware
// needs; tests stub it.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (user.Principal, error)
}

// requireAuth verifies the bearer token and stores the principal on the
// request context. Requests without a valid token never reach the handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(r.Context(), w, crerr.Wrap(usecase.ErrUnauthorized, "missing bearer token"))
			return
		}

		principal, err := s.accounts.VerifyAccessToken(r.Context(), token)
		if err != nil {
			switch {
			case crerr.Is(err, accounts.ErrTokenInvalid):
				writeError(r.Context(), w, crerr.Wrap(usecase.ErrUnauthorized, "invalid token"))
			case crerr.Is(err, accounts.ErrUnavailable):
				writeError(r.Context(), w, crerr.Wrap(usecase.ErrDependencyUnavailable, "token verification unavailable"))
			default:
				writeError(r.Context(), w, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	}
}

// requireInternalToken guards job endpoints meant for the scheduler, not
// end users.
func (s *Server) requireInternalToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.internalJobToken == "" {
			writeError(r.Context(), w, crerr.Wrap(usecase.ErrForbidden, "internal jobs are disabled"))
			return
		}
		provided := r.Header.Get("X-Internal-Job-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.internalJobToken)) != 1 {
			writeError(r.Context(), w, crerr.Wrap(usecase.ErrForbidden, "invalid internal job token"))
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
