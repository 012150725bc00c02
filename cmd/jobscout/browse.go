package main

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/browse"
	"github.com/jobscout/jobscout/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Run one aggregated search and browse the results interactively",
	RunE:  runBrowse,
}

func init() {
	addSearchFlags(browseCmd)
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	engine, _, err := buildEngine(cfg, httpClient, logger)
	if err != nil {
		logger.Error("failed to build providers", "error", err)
		os.Exit(1)
	}

	criteria := buildCriteria(cmd, cfg)

	result, err := browse.RunLoader(len(criteria.Providers), func(ctx context.Context) (model.AggregateResult, error) {
		return engine.Aggregate(ctx, criteria, nil)
	})
	if err != nil {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}

	return browse.RunBrowser(result, detailFetchers(cfg, logger))
}
