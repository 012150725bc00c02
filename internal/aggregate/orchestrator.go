package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/registry"
)

// Orchestrator fans one search out to every selected provider, isolates
// per-provider failures, merges the results in completion order, and runs
// the dedup/normalize pass. It holds no state across calls.
type Orchestrator struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New creates an orchestrator over the given provider registry.
func New(reg *registry.Registry, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{registry: reg, logger: logger}
}

// outcome is one provider branch's terminal state.
type outcome struct {
	id      string
	records []model.JobRecord
	err     error
}

// Aggregate validates criteria, runs one concurrent search per selected
// provider, and returns the deduplicated merge plus a message per failed
// provider. Provider failures never fail the call: an aggregate where every
// provider failed still returns successfully with empty records and a fully
// populated error map. Only invalid criteria fail the call, synchronously,
// before any network activity.
func (o *Orchestrator) Aggregate(ctx context.Context, c model.SearchCriteria, existing map[string]struct{}) (model.AggregateResult, error) {
	if err := registry.ValidateCriteria(c); err != nil {
		return model.AggregateResult{}, err
	}
	providers, err := o.registry.Resolve(c.Providers)
	if err != nil {
		return model.AggregateResult{}, err
	}

	results := make(chan outcome, len(providers))
	var wg sync.WaitGroup
	for _, p := range providers {
		wg.Add(1)
		go func(p model.Provider) {
			defer wg.Done()
			results <- searchOne(ctx, p, c)
		}(p)
	}
	wg.Wait()
	close(results)

	// The buffered channel preserves send order, so merged inter-provider
	// ordering reflects completion order. Within one provider, extraction
	// order is preserved as encountered.
	var merged []model.JobRecord
	providerErrors := make(map[string]string)
	for out := range results {
		if out.err != nil {
			// A branch cancelled by the caller's deadline contributes
			// neither records nor an error entry.
			if errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded) {
				o.logger.Debug("provider search cancelled", "provider", out.id)
				continue
			}
			o.logger.Error("provider search failed", "provider", out.id, "error", out.err)
			providerErrors[out.id] = out.err.Error()
			continue
		}
		o.logger.Info("provider search complete", "provider", out.id, "records", len(out.records))
		merged = append(merged, out.records...)
	}

	return model.AggregateResult{
		Records:        Dedup(merged, existing),
		ProviderErrors: providerErrors,
	}, nil
}

// searchOne runs one provider branch, converting a panic into an ordinary
// provider failure so one misbehaving adapter cannot take down the join.
func searchOne(ctx context.Context, p model.Provider, c model.SearchCriteria) (out outcome) {
	out.id = p.ID()
	defer func() {
		if r := recover(); r != nil {
			out.records = nil
			out.err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	out.records, out.err = p.Search(ctx, c)
	return out
}

// ListProviders exposes the registry's descriptor table.
func (o *Orchestrator) ListProviders() []registry.Descriptor {
	return o.registry.List()
}
