package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/aggregate"
	"github.com/jobscout/jobscout/internal/config"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/ratelimit"
	"github.com/jobscout/jobscout/internal/registry"
	"github.com/jobscout/jobscout/internal/retry"
	"github.com/jobscout/jobscout/internal/scheduler"
	"github.com/jobscout/jobscout/internal/scrape"
	"github.com/jobscout/jobscout/internal/store"
	"github.com/jobscout/jobscout/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Repeat the search on an interval and alert on new listings",
	Long:  "Run the aggregated search on a fixed interval, notify on listings not seen before, and remember them; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	addSearchFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

// buildWatchEngine wires the provider set with the retry and rate-limit
// decorators that only make sense for a long-running loop.
func buildWatchEngine(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (*aggregate.Orchestrator, error) {
	limiter := ratelimit.NewProviderRateLimiter(cfg.RateLimit.MinDelayFor)

	descriptors := registry.DefaultDescriptors(cfg.ScrapeDelay)
	base, err := registry.BuildDefault(registry.Options{
		HTTPClient:  httpClient,
		UserAgent:   cfg.UserAgent,
		Sessions:    scrape.NewChromeSessionFactory(cfg.UserAgent),
		ScrapeDelay: cfg.ScrapeDelay,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	providers := make([]model.Provider, 0, len(descriptors))
	for _, d := range descriptors {
		p, _ := base.Provider(d.ID)
		p = retry.NewRetryProvider(p, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
		p = ratelimit.NewLimitedProvider(p, limiter)
		providers = append(providers, p)
	}

	reg, err := registry.New(descriptors, providers)
	if err != nil {
		return nil, err
	}
	return aggregate.New(reg, logger), nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.Watch.Interval.String(),
		"store", cfg.StorePath,
	)

	sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	if err := sqlStore.Cleanup(cfg.Watch.SeenTTL); err != nil {
		logger.Warn("seen-listing cleanup failed", "error", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	engine, err := buildWatchEngine(cfg, httpClient, logger)
	if err != nil {
		logger.Error("failed to build providers", "error", err)
		os.Exit(1)
	}

	n := setupNotifier(cfg, httpClient, logger)
	criteria := buildCriteria(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(engine, criteria, sqlStore, n, logger)
	sched := scheduler.New(watcher, cfg.Watch.Interval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("watch loop error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
