package editor

import (
	"context"
	"errors"
	"time"
)

// Poll defaults
const (
	DefaultPollInterval = 20 * time.Millisecond
	DefaultPollTimeout  = 2 * time.Second
)

// ErrPollTimeout is returned by Poll when fn never reported a value.
var ErrPollTimeout = errors.New("timed out waiting for value")

// Poll calls fn every interval until it reports ok, the timeout elapses or
// ctx is canceled. fn is called once immediately.
func Poll[T any](ctx context.Context, interval, timeout time.Duration, fn func() (T, bool)) (T, error) {
	if v, ok := fn(); ok {
		return v, nil
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var zero T
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return zero, ErrPollTimeout
			}
			return zero, ctx.Err()
		case <-ticker.C:
			if v, ok := fn(); ok {
				return v, nil
			}
		}
	}
}
