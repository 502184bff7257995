// Package retry decorates a model.Backend with exponential backoff for
// transient failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

var _ model.Backend = (*RetryBackend)(nil)

// RetryBackend retries transient failures with exponential backoff and
// jitter before giving up and returning the last error.
type RetryBackend struct {
	inner      model.Backend
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryBackend wraps a Backend with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryBackend(inner model.Backend, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryBackend {
	return &RetryBackend{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (b *RetryBackend) SearchJobs(ctx context.Context, q model.Query) (model.PageResult, error) {
	return do(ctx, b, "search jobs", func() (model.PageResult, error) {
		return b.inner.SearchJobs(ctx, q)
	})
}

func (b *RetryBackend) GetJob(ctx context.Context, id string) (model.Job, error) {
	return do(ctx, b, "get job", func() (model.Job, error) {
		return b.inner.GetJob(ctx, id)
	})
}

func (b *RetryBackend) SuggestTitles(ctx context.Context, q string) ([]string, error) {
	return do(ctx, b, "suggest titles", func() ([]string, error) {
		return b.inner.SuggestTitles(ctx, q)
	})
}

func (b *RetryBackend) SearchLocations(ctx context.Context, q string, k int) ([]model.LocationMatch, error) {
	return do(ctx, b, "search locations", func() ([]model.LocationMatch, error) {
		return b.inner.SearchLocations(ctx, q, k)
	})
}

func (b *RetryBackend) FilterOptions(ctx context.Context) (model.FilterOptions, error) {
	return do(ctx, b, "filter options", func() (model.FilterOptions, error) {
		return b.inner.FilterOptions(ctx)
	})
}

// do runs fn, retrying on transient errors.
func do[T any](ctx context.Context, b *RetryBackend, op string, fn func() (T, error)) (T, error) {
	var zero T
	v, err := fn()
	if err == nil {
		return v, nil
	}
	if !isRetryable(err) {
		return zero, err
	}

	lastErr := err
	for attempt := 1; attempt <= b.maxRetries; attempt++ {
		delay := b.backoffDelay(attempt, lastErr)

		b.logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"max_retries", b.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		v, err = fn()
		if err == nil {
			return v, nil
		}
		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After duration (HTTP 429) takes precedence.
func (b *RetryBackend) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := b.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A missing job or a malformed filter will not fix itself.
	var nf *model.NotFoundError
	var ve *model.ValidationError
	if errors.As(err, &nf) || errors.As(err, &ve) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		return false
	}

	// Transport errors (connection refused, DNS, reset) are retryable.
	return true
}
