package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_Transiciones(t *testing.T) {
	ahora := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return ahora }
	falla := errors.New("redis caido")

	assert.ErrorIs(t, cb.Execute(func() error { return falla }), falla)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return falla }), falla)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)

	ahora = ahora.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return falla }), falla)
	assert.Equal(t, CBOpen, cb.State(), "a failed half-open call reopens")

	ahora = ahora.Add(time.Minute)
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_ExitoReiniciaFallos(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})
	falla := errors.New("x")

	_ = cb.Execute(func() error { return falla })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return falla })
	assert.Equal(t, CBClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}
