package engineerr

import (
	"sync"
	"time"
)

// CircuitBreaker trips quarantine for a single path after its retry cap is
// exhausted, per §4.6: "after the cap the file is quarantined and reported
// via observability but does not block the pipeline". One breaker instance
// guards one path; the ingest pipeline keeps a map of these keyed by path.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu          sync.RWMutex
	open        bool
	failures    int
	lastFailure time.Time
}

// NewCircuitBreaker creates a breaker that opens after maxFailures
// consecutive failures and attempts recovery after resetTimeout.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{maxFailures: maxFailures, resetTimeout: resetTimeout}
}

// Allow reports whether a new attempt should proceed. A breaker that has
// been open for longer than resetTimeout allows one probe attempt through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	if !cb.open {
		return true
	}
	return time.Since(cb.lastFailure) > cb.resetTimeout
}

// RecordFailure records a failed attempt, opening the breaker once
// maxFailures is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	cb.lastFailure = time.Now()
	if cb.failures >= cb.maxFailures {
		cb.open = true
	}
}

// RecordSuccess closes the breaker and resets the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.open = false
}

// Quarantined reports whether the breaker is currently open and not yet
// eligible for a probe attempt.
func (cb *CircuitBreaker) Quarantined() bool {
	return !cb.Allow()
}
