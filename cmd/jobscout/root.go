package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/aggregate"
	"github.com/jobscout/jobscout/internal/config"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/notifier"
	"github.com/jobscout/jobscout/internal/registry"
	"github.com/jobscout/jobscout/internal/scrape"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job listing aggregator across boards and search engines",
	Long:  "jobscout fans one search out to job boards and search engines, merges the results, and drops listings you have already seen.",
	// Default to `search` so that `jobscout -k golang` works without a subcommand.
	RunE: runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addSearchFlags(rootCmd)
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml".
// A missing default config file is not an error; built-in defaults apply.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildEngine wires the full provider set into an aggregation engine.
func buildEngine(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (*aggregate.Orchestrator, *registry.Registry, error) {
	reg, err := registry.BuildDefault(registry.Options{
		HTTPClient:  httpClient,
		UserAgent:   cfg.UserAgent,
		Sessions:    scrape.NewChromeSessionFactory(cfg.UserAgent),
		ScrapeDelay: cfg.ScrapeDelay,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return aggregate.New(reg, logger), reg, nil
}

// detailFetchers returns the on-demand detail fetchers for providers that
// support them, keyed by provider id.
func detailFetchers(cfg *config.Config, logger *slog.Logger) map[string]model.DetailProvider {
	sessions := scrape.NewChromeSessionFactory(cfg.UserAgent)
	return map[string]model.DetailProvider{
		"linkedin": scrape.NewLinkedIn(sessions, cfg.ScrapeDelay, logger),
		"indeed":   scrape.NewIndeed(sessions, cfg.ScrapeDelay, logger),
	}
}
