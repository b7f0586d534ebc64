// Package sportapi is the shared HTTP client for the API-Sports family of
// providers (football, basketball, rugby, Formula 1, MMA). Gateways own
// the per-sport response shapes; this client owns transport concerns.
package sportapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sporating/sporating/internal/platform/logging"
	"github.com/sporating/sporating/internal/platform/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type ClientConfig struct {
	BaseURL        string
	Host           string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RequestDelay   time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	host         string
	apiKey       string
	maxRetries   int
	requestDelay time.Duration
	logger       *logging.Logger

	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.Group[[]byte]

	mu       sync.Mutex
	lastCall time.Time
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		host:           strings.TrimSpace(cfg.Host),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     cfg.MaxRetries,
		requestDelay:   cfg.RequestDelay,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// GetJSON issues one GET to path with query params and decodes the body
// into out. Concurrent identical calls share a single request.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return crerr.New("provider api key is not configured")
	}

	requestURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	body, err, shared := c.flight.Do(requestURL, func() ([]byte, error) {
		return c.executeRequest(ctx, requestURL)
	})
	if err != nil {
		return err
	}
	if shared {
		c.logger.DebugContext(ctx, "provider request deduplicated", "url", requestURL)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return crerr.Wrap(err, "decode provider response")
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, requestURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return nil, fmt.Errorf("provider %s is temporarily unavailable: %w", c.host, err)
		}
	}

	if err := c.waitForSlot(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	attempts := c.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.doOnce(ctx, requestURL)
		if err == nil {
			c.recordCircuitResult(nil)
			return body, nil
		}

		lastErr = err
		if !retryable {
			break
		}
		c.logger.WarnContext(ctx, "provider request retrying",
			"host", c.host,
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.recordCircuitResult(lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, requestURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, crerr.Wrap(err, "create provider request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, crerr.Newf("request provider %s: %s", c.host, c.sanitize(err.Error()))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, true, crerr.Wrap(err, "read provider response")
	}

	if resp.StatusCode/100 != 2 {
		err := crerr.Newf("provider %s returned status=%d body=%s",
			c.host, resp.StatusCode, c.sanitize(truncate(string(raw), 512)))
		return nil, isRetryableStatus(resp.StatusCode), err
	}

	return raw, false, nil
}

// waitForSlot enforces the fixed inter-call delay toward one provider.
func (c *Client) waitForSlot(ctx context.Context) error {
	if c.requestDelay <= 0 {
		return nil
	}

	c.mu.Lock()
	now := time.Now()
	wait := c.requestDelay - now.Sub(c.lastCall)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	c.breaker.RecordFailure()
}

func (c *Client) sanitize(s string) string {
	if c.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.apiKey, "***")
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
