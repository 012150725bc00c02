package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// RetryProvider is a decorator that retries transient failures with
// exponential backoff and jitter before delegating to the wrapped provider.
type RetryProvider struct {
	inner      model.Provider
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryProvider wraps a provider with retry logic. maxRetries is the
// number of additional attempts after the first failure, baseDelay the delay
// before the first retry, doubled on each subsequent retry.
func NewRetryProvider(inner model.Provider, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryProvider {
	return &RetryProvider{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (p *RetryProvider) ID() string { return p.inner.ID() }

// Search attempts the wrapped search, retrying on transient errors.
func (p *RetryProvider) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	records, err := p.inner.Search(ctx, c)
	if err == nil {
		return records, nil
	}

	if !isRetryable(err) {
		return nil, err
	}

	lastErr := err
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		p.logger.Warn("retrying after transient error",
			"provider", p.inner.ID(),
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		records, err = p.inner.Search(ctx, c)
		if err == nil {
			return records, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (p *RetryProvider) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	// Apply ±30% jitter
	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth
// retrying. Criteria errors and client errors are permanent; rate limits,
// server errors, and network failures are not.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var criteriaErr *model.CriteriaError
	if errors.As(err, &criteriaErr) {
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

	var provErr *model.ProviderError
	if errors.As(err, &provErr) && provErr.Kind == model.ProviderParseError {
		// A response that parsed wrong will parse wrong again.
		return false
	}

	// Non-HTTP errors (network, DNS, etc.) are worth another attempt.
	return true
}
