package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// ProviderRateLimiter enforces a minimum delay between consecutive searches
// against the same provider. Watch mode shares one limiter across cycles so
// a short interval cannot hammer a provider.
type ProviderRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: provider id
	delayFor func(provider string) time.Duration
}

// NewProviderRateLimiter creates a limiter whose per-provider delay is
// answered by delayFor.
func NewProviderRateLimiter(delayFor func(provider string) time.Duration) *ProviderRateLimiter {
	return &ProviderRateLimiter{
		lastCall: make(map[string]time.Time),
		delayFor: delayFor,
	}
}

// Wait blocks until enough time has passed since the last search against the
// given provider. Returns an error if the context is cancelled while waiting.
func (r *ProviderRateLimiter) Wait(ctx context.Context, provider string) error {
	minDelay := r.delayFor(provider)

	r.mu.Lock()
	last, ok := r.lastCall[provider]
	now := time.Now()

	if !ok || now.Sub(last) >= minDelay {
		r.lastCall[provider] = now
		r.mu.Unlock()
		return nil
	}

	remaining := minDelay - now.Sub(last)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", provider, ctx.Err())
	case <-time.After(remaining):
	}

	r.mu.Lock()
	r.lastCall[provider] = time.Now()
	r.mu.Unlock()

	return nil
}

// LimitedProvider is a decorator that enforces provider-level rate limiting
// before delegating to the wrapped provider.
type LimitedProvider struct {
	inner   model.Provider
	limiter *ProviderRateLimiter
}

// NewLimitedProvider wraps a provider with rate limiting. All decorated
// providers should share the same limiter instance.
func NewLimitedProvider(inner model.Provider, limiter *ProviderRateLimiter) *LimitedProvider {
	return &LimitedProvider{inner: inner, limiter: limiter}
}

func (p *LimitedProvider) ID() string { return p.inner.ID() }

// Search waits for the rate limiter to allow a request, then delegates to
// the wrapped provider.
func (p *LimitedProvider) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	if err := p.limiter.Wait(ctx, p.inner.ID()); err != nil {
		return nil, err
	}
	return p.inner.Search(ctx, c)
}
