package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/usecase"
)

const maxRequestBody = 1 << 20

// decodeBody reads, decodes, and validates a JSON request body.
func (s *Server) decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return crerr.Wrap(usecase.ErrInvalidInput, "read request body")
	}
	if len(body) == 0 {
		return crerr.Wrap(usecase.ErrInvalidInput, "request body is required")
	}
	if err := sonic.Unmarshal(body, dst); err != nil {
		return crerr.Wrap(usecase.ErrInvalidInput, "malformed json body")
	}
	if err := s.validate.Struct(dst); err != nil {
		return crerr.Wrapf(usecase.ErrInvalidInput, "%v", err)
	}
	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, crerr.Wrapf(usecase.ErrInvalidInput, "invalid %s", name)
	}
	return value, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, crerr.Wrapf(usecase.ErrInvalidInput, "invalid %s", name)
	}
	return value, nil
}

// queryTime parses an RFC3339 timestamp, also accepting a bare date.
func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, crerr.Wrapf(usecase.ErrInvalidInput, "invalid %s", name)
}

// queryPeriod accepts Go duration syntax plus day shorthand like "30d".
func queryPeriod(r *http.Request, name string) (time.Duration, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	if len(raw) > 1 && raw[len(raw)-1] == 'd' {
		days, err := strconv.Atoi(raw[:len(raw)-1])
		if err == nil && days >= 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, crerr.Wrapf(usecase.ErrInvalidInput, "invalid %s", name)
	}
	return d, nil
}
