package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

func fixedDelay(d time.Duration) func(string) time.Duration {
	return func(string) time.Duration { return d }
}

func TestWaitSameProviderEnforcesMinDelay(t *testing.T) {
	limiter := NewProviderRateLimiter(fixedDelay(100 * time.Millisecond))
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "remotive"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "remotive"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWaitDifferentProvidersNoCrossBlocking(t *testing.T) {
	limiter := NewProviderRateLimiter(fixedDelay(200 * time.Millisecond))
	ctx := context.Background()

	if err := limiter.Wait(ctx, "remotive"); err != nil {
		t.Fatalf("remotive wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "jobicy"); err != nil {
		t.Fatalf("jobicy wait: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed > 50*time.Millisecond {
		t.Errorf("expected jobicy wait to be near-instant, got %v", elapsed)
	}
}

func TestWaitContextCancellation(t *testing.T) {
	limiter := NewProviderRateLimiter(fixedDelay(5 * time.Second))

	// First call to seed the last-call time.
	if err := limiter.Wait(context.Background(), "remotive"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, "remotive"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

type recordingProvider struct {
	called bool
}

func (p *recordingProvider) ID() string { return "remotive" }

func (p *recordingProvider) Search(_ context.Context, _ model.SearchCriteria) ([]model.JobRecord, error) {
	p.called = true
	return nil, nil
}

func TestLimitedProviderWaitsBeforeDelegating(t *testing.T) {
	limiter := NewProviderRateLimiter(fixedDelay(100 * time.Millisecond))
	inner := &recordingProvider{}
	limited := NewLimitedProvider(inner, limiter)
	ctx := context.Background()

	if _, err := limited.Search(ctx, model.SearchCriteria{}); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if !inner.called {
		t.Fatal("inner provider was not called on first search")
	}

	inner.called = false

	start := time.Now()
	if _, err := limited.Search(ctx, model.SearchCriteria{}); err != nil {
		t.Fatalf("second search: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner provider was not called on second search")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second search, got %v", elapsed)
	}
}
