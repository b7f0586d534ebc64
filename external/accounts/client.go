// Package accounts verifies bearer tokens against the accounts service.
// Verified principals are cached so repeated requests with the same token
// skip the network round trip, and a circuit breaker keeps a flapping
// accounts service from stalling the API.
package accounts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/domain/user"
	"github.com/sporating/sporating/internal/platform/cache"
	"github.com/sporating/sporating/internal/platform/logging"
	"github.com/sporating/sporating/internal/platform/resilience"
)

var (
	ErrTokenInvalid = crerr.New("access token is invalid")
	ErrUnavailable  = crerr.New("accounts service is unavailable")
)

type Client struct {
	httpClient     *http.Client
	baseURL        string
	introspectPath string
	breaker        *resilience.CircuitBreaker
	breakerEnabled bool
	tokenCache     *cache.Store[user.Principal]
	logger         *logging.Logger
}

func NewClient(cfg config.Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          cfg.AccountsCircuitEnabled,
		FailureThreshold: cfg.AccountsCircuitFailureCount,
		OpenTimeout:      cfg.AccountsCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.AccountsCircuitHalfOpenMax,
	})

	timeout := cfg.AccountsTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(cfg.AccountsBaseURL, "/"),
		introspectPath: cfg.AccountsIntrospectPath,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		breakerEnabled: breakerCfg.Enabled,
		tokenCache:     cache.NewStore[user.Principal](cfg.AccountsCacheTTL),
		logger:         logger.With("client", "accounts"),
	}
}

// VerifyAccessToken introspects the token and returns the principal it
// belongs to. Invalid tokens yield ErrTokenInvalid; transport failures and
// an open breaker yield ErrUnavailable.
func (c *Client) VerifyAccessToken(ctx context.Context, accessToken string) (user.Principal, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return user.Principal{}, ErrTokenInvalid
	}
	if c.baseURL == "" {
		return user.Principal{}, crerr.New("accounts base url is not configured")
	}

	cacheKey := tokenCacheKey(accessToken)
	return c.tokenCache.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (user.Principal, error) {
		return c.introspect(ctx, accessToken)
	})
}

func (c *Client) introspect(ctx context.Context, accessToken string) (user.Principal, error) {
	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, crerr.WithSecondaryError(ErrUnavailable, err)
		}
	}

	principal, err := c.doIntrospect(ctx, accessToken)
	if c.breakerEnabled {
		// Rejected tokens are valid answers, not dependency failures.
		if err != nil && !crerr.Is(err, ErrTokenInvalid) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return principal, err
}

func (c *Client) doIntrospect(ctx context.Context, accessToken string) (user.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.introspectPath, nil)
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "build introspect request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "token introspection transport failure", "error", err)
		return user.Principal{}, crerr.WithSecondaryError(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "read introspect response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return user.Principal{}, ErrTokenInvalid
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "token introspection failed", "status", resp.StatusCode)
		return user.Principal{}, crerr.WithSecondaryError(ErrUnavailable,
			fmt.Errorf("introspect returned status %d", resp.StatusCode))
	}

	var payload introspectResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return user.Principal{}, crerr.Wrap(err, "decode introspect response")
	}
	if !payload.Active || payload.UserID == "" {
		return user.Principal{}, ErrTokenInvalid
	}

	return user.Principal{
		UserID: payload.UserID,
		Email:  payload.Email,
		Name:   payload.Name,
	}, nil
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// tokenCacheKey hashes the token so raw credentials never sit in the cache
// map as keys.
func tokenCacheKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "token:" + hex.EncodeToString(sum[:])
}
