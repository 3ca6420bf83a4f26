package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, 2, time.Minute)

	assert.Equal(t, CircuitClosed, cb.GetState())
	assert.NoError(t, cb.Allow())

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.GetState())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.GetState())
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen)
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, cb.Allow(), "open timeout elapsed, probe allowed")
	assert.Equal(t, CircuitHalfOpen, cb.GetState())

	cb.RecordSuccess()
	assert.Equal(t, CircuitHalfOpen, cb.GetState(), "needs two successes to close")
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.GetState())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.GetState())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.GetState())
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(2, 1, time.Minute)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.GetState(), "success resets the failure streak")
}

func TestIsRetriableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retriable bool
	}{
		{name: "nil", err: nil, retriable: false},
		{name: "rate limit status", err: errors.New("API returned 429"), retriable: true},
		{name: "rate limit text", err: errors.New("rate limit exceeded"), retriable: true},
		{name: "server error", err: errors.New("500 internal server error"), retriable: true},
		{name: "bad gateway", err: errors.New("502 bad gateway"), retriable: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), retriable: true},
		{name: "deadline", err: context.DeadlineExceeded, retriable: true},
		{name: "auth failure", err: errors.New("401 unauthorized"), retriable: false},
		{name: "bad request", err: errors.New("400 invalid request body"), retriable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retriable, isRetriableError(tt.err))
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.True(t, cfg.CircuitBreakerEnabled)
	assert.Equal(t, 3, cfg.MaxConcurrentCalls)
}
