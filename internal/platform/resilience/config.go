package resilience

import "time"

// CircuitBreakerConfig is read straight off the ACCOUNTS_CIRCUIT_* and
// provider env vars. Enabled is interpreted by the owning client, not the
// breaker itself: a disabled breaker is simply never consulted.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig replaces out-of-range fields with the
// defaults so a misconfigured deployment degrades to sane protection
// instead of a breaker that trips on the first failure or never recovers.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	out := DefaultCircuitBreakerConfig()
	out.Enabled = cfg.Enabled
	if cfg.FailureThreshold >= 1 {
		out.FailureThreshold = cfg.FailureThreshold
	}
	if cfg.OpenTimeout > 0 {
		out.OpenTimeout = cfg.OpenTimeout
	}
	if cfg.HalfOpenMaxReq >= 1 {
		out.HalfOpenMaxReq = cfg.HalfOpenMaxReq
	}
	return out
}
