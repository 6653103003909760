package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("language model request timed out")
	// ErrNotConfigured is returned when no provider is available.
	ErrNotConfigured = errors.New("language model not configured")
)

// Request is a single-turn prompt.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
	// Timeout bounds the whole call, including any wait on the rate limiter.
	Timeout time.Duration
}

// Completer sends one prompt to a language model and returns its text.
// Calls are deterministic-leaning: temperature is always zero.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

// newLimiter converts a per-minute budget into a limiter. Zero or negative
// means unlimited.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
}

// guard applies the request timeout and rate limit around fn and maps
// deadline errors to ErrTimeout.
func guard(ctx context.Context, limiter *rate.Limiter, timeout time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return "", classify(ctx, fmt.Errorf("limiter wait: %w", err))
		}
	}

	text, err := fn(ctx)
	if err != nil {
		return "", classify(ctx, err)
	}
	return text, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
