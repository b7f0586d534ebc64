package httpapi

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/platform/logging"
	"github.com/sporating/sporating/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "sporating"
)

type envelope struct {
	APIVersion string        `json:"apiVersion"`
	Data       any           `json:"data,omitempty"`
	Error      *errorPayload `json:"error,omitempty"`
}

type errorPayload struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func writeData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeEnvelope(ctx, w, status, envelope{APIVersion: apiVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, reason := classify(err)

	message := "internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	} else {
		logging.Default().ErrorContext(ctx, "request failed", "error", err)
	}

	writeEnvelope(ctx, w, status, envelope{
		APIVersion: apiVersion,
		Error: &errorPayload{
			Code:    status,
			Message: message,
			Errors: []errorItem{{
				Domain:  errorDomain,
				Reason:  reason,
				Message: message,
			}},
		},
	})
}

func writeEnvelope(ctx context.Context, w http.ResponseWriter, status int, env envelope) {
	body, err := sonic.Marshal(env)
	if err != nil {
		http.Error(w, `{"apiVersion":"2.0","error":{"code":500,"message":"encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// classify maps usecase sentinels onto HTTP statuses. Anything unmapped
// is a 500 so repository failures never leak detail to clients.
func classify(err error) (int, string) {
	switch {
	case crerr.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "invalidInput"
	case crerr.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case crerr.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case crerr.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, "notFound"
	case crerr.Is(err, usecase.ErrConflict):
		return http.StatusConflict, "conflict"
	case crerr.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "dependencyUnavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
