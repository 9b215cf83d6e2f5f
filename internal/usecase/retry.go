package usecase

import (
	"context"
	"errors"
	"time"

	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/domain/user"
)

var readRetryDelay = 50 * time.Millisecond

// retryRead runs an idempotent read and repeats it once on a transient
// failure. Writes must never go through here.
func retryRead[T any](ctx context.Context, read func(context.Context) (T, error)) (T, error) {
	v, err := read(ctx)
	if err == nil || !transient(err) {
		return v, err
	}

	t := time.NewTimer(readRetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return v, err
	case <-t.C:
	}
	return read(ctx)
}

func transient(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, user.ErrNotFound), errors.Is(err, exchange.ErrNotFound):
		return false
	default:
		return true
	}
}
