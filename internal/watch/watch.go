package watch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobscout/jobscout/internal/aggregate"
	"github.com/jobscout/jobscout/internal/model"
)

// Watcher owns one repeated-search pipeline: load seen URLs, aggregate,
// notify on whatever is new, and mark it seen.
type Watcher struct {
	engine   *aggregate.Orchestrator
	criteria model.SearchCriteria
	store    model.SeenStore
	notifier model.Notifier
	logger   *slog.Logger
}

// New creates a watcher wired with all its dependencies.
func New(
	engine *aggregate.Orchestrator,
	criteria model.SearchCriteria,
	store model.SeenStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *Watcher {
	return &Watcher{
		engine:   engine,
		criteria: criteria,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes one watch cycle. Provider failures inside the aggregation do
// not fail the cycle; they are passed to the notifier alongside new records.
func (w *Watcher) Run(ctx context.Context) error {
	known, err := w.store.Known()
	if err != nil {
		return fmt.Errorf("watch cycle: loading seen listings: %w", err)
	}

	result, err := w.engine.Aggregate(ctx, w.criteria, known)
	if err != nil {
		return fmt.Errorf("watch cycle: %w", err)
	}

	if len(result.Records) > 0 || len(result.ProviderErrors) > 0 {
		if err := w.notifier.Notify(result.Records, result.ProviderErrors); err != nil {
			return fmt.Errorf("watch cycle: notifying: %w", err)
		}
	}

	for _, r := range result.Records {
		if err := w.store.MarkSeen(r.URL); err != nil {
			return fmt.Errorf("watch cycle: marking seen: %w", err)
		}
	}

	w.logger.Info("watch cycle complete",
		"new", len(result.Records),
		"failed_providers", len(result.ProviderErrors),
	)

	return nil
}
