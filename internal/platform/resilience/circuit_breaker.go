// Package resilience guards the outbound edges of the service: the sport
// providers the importer polls and the accounts service the auth middleware
// introspects tokens against. Both get a breaker so one dead upstream
// cannot stall a whole import pass or every authenticated request.
package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// CircuitBreaker trips after a run of consecutive failures and lets a
// bounded number of probe requests through once the open timeout elapses.
type CircuitBreaker struct {
	mu sync.Mutex

	cfg   CircuitBreakerConfig
	clock func() time.Time

	state     State
	failures  int
	openedAt  time.Time
	probes    int
	probeWins int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		clock: time.Now,
		state: StateClosed,
	}
}

// Allow reports whether a request may go out. In the half-open state it
// also claims one of the probe slots, so callers must follow up with
// RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.clock().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probes = 0
		b.probeWins = 0
	}

	if b.state == StateHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.probeWins++
		if b.probeWins >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.reset()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case StateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.trip()
	case StateOpen:
		// A failure while open restarts the cool-down.
		b.openedAt = b.clock()
	}
}

// State reports the effective state, treating an expired open window as
// half-open even before the next Allow call observes it.
func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.clock().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) trip() {
	b.state = StateOpen
	b.openedAt = b.clock()
	b.probes = 0
	b.probeWins = 0
}

func (b *CircuitBreaker) reset() {
	b.state = StateClosed
	b.failures = 0
	b.probes = 0
	b.probeWins = 0
	b.openedAt = time.Time{}
}
