package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, probes int, clock func() time.Time) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   probes,
	})
	b.clock = clock
	return b
}

func TestCircuitBreakerBasicTransitions(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	b := newTestBreaker(2, 5*time.Second, 1, func() time.Time { return now })

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != StateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, time.Second, 1, func() time.Time { return now })

	b.RecordFailure()
	now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected reopen after failed probe, got %s", state)
	}
}

func TestCircuitBreakerHalfOpenProbeBudget(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, time.Second, 1, func() time.Time { return now })

	b.RecordFailure()
	now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second concurrent probe should be rejected, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfigFillsDefaults(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	want := DefaultCircuitBreakerConfig()
	if got.FailureThreshold != want.FailureThreshold ||
		got.OpenTimeout != want.OpenTimeout ||
		got.HalfOpenMaxReq != want.HalfOpenMaxReq {
		t.Fatalf("unexpected normalized config: %+v", got)
	}
}
