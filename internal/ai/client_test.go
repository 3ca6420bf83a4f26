package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheckReflectsCircuitState(t *testing.T) {
	c := &Client{
		retry:          DefaultRetryConfig(),
		circuitBreaker: NewCircuitBreaker(1, 1, time.Minute),
	}

	assert.NoError(t, c.HealthCheck(context.Background()))

	c.circuitBreaker.RecordFailure()
	assert.ErrorIs(t, c.HealthCheck(context.Background()), ErrCircuitOpen)
}

func TestHealthCheckWithoutBreaker(t *testing.T) {
	c := &Client{retry: DefaultRetryConfig()}
	assert.NoError(t, c.HealthCheck(context.Background()))
}
