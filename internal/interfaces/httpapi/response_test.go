package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/usecase"
)

func TestWriteDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeData(context.Background(), rec, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type: got=%s", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"apiVersion":"2.0"`) {
		t.Fatalf("missing api version: body=%s", body)
	}
	if !strings.Contains(body, `"hello":"world"`) {
		t.Fatalf("missing data: body=%s", body)
	}
}

func TestWriteErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"invalid input", crerr.Wrap(usecase.ErrInvalidInput, "bad value"), http.StatusBadRequest, "invalidInput"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", crerr.Wrap(usecase.ErrNotFound, "match x"), http.StatusNotFound, "notFound"},
		{"dependency", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"unknown", crerr.New("db exploded"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tc.status)
			}
			body := rec.Body.String()
			if !strings.Contains(body, `"domain":"sporating"`) {
				t.Fatalf("missing error domain: body=%s", body)
			}
			if !strings.Contains(body, `"reason":"`+tc.reason+`"`) {
				t.Fatalf("missing reason %q: body=%s", tc.reason, body)
			}
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, crerr.New("password=hunter2 leaked into error"))

	if strings.Contains(rec.Body.String(), "hunter2") {
		t.Fatalf("internal error detail leaked: body=%s", rec.Body.String())
	}
}
