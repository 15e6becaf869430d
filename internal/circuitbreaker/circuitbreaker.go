// Package circuitbreaker wraps sony/gobreaker with project defaults.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/musks-suburbs/zk-fee-profiler/internal/apperror"
)

// Config holds circuit breaker tuning parameters.
type Config struct {
	Name        string
	MaxRequests uint32        // requests allowed in half-open state
	Interval    time.Duration // cyclic period for clearing counts in closed state
	Timeout     time.Duration // how long the breaker stays open
	MinRequests uint32        // minimum requests before the failure ratio trips
	FailureRate float64       // failure ratio that trips the breaker
}

// DefaultConfig returns conservative defaults for RPC-facing breakers.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailureRate: 0.6,
	}
}

// CircuitBreaker is a typed circuit breaker for operations returning T.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a circuit breaker from cfg.
func New[T any](cfg Config) *CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRate >= cfg.FailureRate
		},
	}

	return &CircuitBreaker[T]{
		cb: gobreaker.NewCircuitBreaker[T](settings),
	}
}

// Execute runs fn through the breaker. When the breaker is open the call is
// rejected with CodeCircuitOpen without invoking fn.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			var zero T
			return zero, apperror.New(apperror.CodeCircuitOpen,
				apperror.WithCause(err),
				apperror.WithContext(c.cb.Name()))
		}
		return result, err
	}
	return result, nil
}

// State returns the current breaker state string (closed, half-open, open).
func (c *CircuitBreaker[T]) State() string {
	return c.cb.State().String()
}
