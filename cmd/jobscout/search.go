package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/config"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/store"
)

var (
	flagKeywords     string
	flagCountry      string
	flagCity         string
	flagLocation     string
	flagJobType      string
	flagWorkMode     string
	flagExperience   string
	flagPostedWithin string
	flagSponsorship  bool
	flagLimit        int
	flagProviders    []string
	flagSave         bool
	flagJSON         bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one aggregated search and print the results",
	RunE:  runSearch,
}

func init() {
	addSearchFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagKeywords, "keywords", "k", "", "search keywords (required unless set in config)")
	cmd.Flags().StringVar(&flagCountry, "country", "", "country to search in")
	cmd.Flags().StringVar(&flagCity, "city", "", "city to search in")
	cmd.Flags().StringVar(&flagLocation, "location", "", "free-form location, overrides country/city")
	cmd.Flags().StringVar(&flagJobType, "job-type", "", "full_time, part_time, contract, or internship")
	cmd.Flags().StringVar(&flagWorkMode, "work-mode", "", "remote, hybrid, or onsite")
	cmd.Flags().StringVar(&flagExperience, "experience", "", "entry, mid, senior, or lead")
	cmd.Flags().StringVar(&flagPostedWithin, "posted-within", "", "24h, 48h, 1week, or 1month")
	cmd.Flags().BoolVar(&flagSponsorship, "sponsorship", false, "only listings that mention visa sponsorship")
	cmd.Flags().IntVar(&flagLimit, "limit", 0, "max listings per provider")
	cmd.Flags().StringSliceVarP(&flagProviders, "providers", "p", nil, "provider ids to search (default: all)")
	cmd.Flags().BoolVar(&flagSave, "save", false, "remember returned listings so later runs skip them")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "print results as JSON")
}

// buildCriteria overlays command-line flags on the configured defaults.
func buildCriteria(cmd *cobra.Command, cfg *config.Config) model.SearchCriteria {
	c := cfg.Search.Criteria()
	if cmd.Flags().Changed("keywords") {
		c.Keywords = flagKeywords
	}
	if cmd.Flags().Changed("country") {
		c.Country = flagCountry
	}
	if cmd.Flags().Changed("city") {
		c.City = flagCity
	}
	if cmd.Flags().Changed("location") {
		c.Location = flagLocation
	}
	if cmd.Flags().Changed("job-type") {
		c.JobType = model.JobType(flagJobType)
	}
	if cmd.Flags().Changed("work-mode") {
		c.WorkMode = model.WorkMode(flagWorkMode)
	}
	if cmd.Flags().Changed("experience") {
		c.Experience = model.ExperienceLevel(flagExperience)
	}
	if cmd.Flags().Changed("posted-within") {
		c.PostedWithin = model.PostedWithin(flagPostedWithin)
	}
	if cmd.Flags().Changed("sponsorship") {
		c.RequireSponsorship = flagSponsorship
	}
	if cmd.Flags().Changed("limit") {
		c.Limit = flagLimit
	}
	if cmd.Flags().Changed("providers") {
		c.Providers = flagProviders
	}
	return c
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	var seenStore model.SeenStore = store.NewNopStore()
	if flagSave {
		sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		seenStore = sqlStore
	}

	known, err := seenStore.Known()
	if err != nil {
		logger.Error("failed to load seen listings", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := engine.Aggregate(ctx, criteria, known)
	if err != nil {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}

	if flagSave {
		for _, r := range result.Records {
			if err := seenStore.MarkSeen(r.URL); err != nil {
				logger.Error("failed to mark listing seen", "url", r.URL, "error", err)
				os.Exit(1)
			}
		}
	}

	if flagJSON {
		return printJSON(result)
	}
	printResult(result)
	return nil
}

func printJSON(result model.AggregateResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printResult(result model.AggregateResult) {
	for _, r := range result.Records {
		fmt.Printf("%s - %s\n", r.Company, r.Title)
		fmt.Printf("  %s | %s\n", r.Location, r.Source)
		if r.SalaryRange != "" {
			fmt.Printf("  %s\n", r.SalaryRange)
		}
		fmt.Printf("  %s\n\n", r.URL)
	}

	fmt.Printf("%d listings\n", len(result.Records))

	if len(result.ProviderErrors) > 0 {
		providers := make([]string, 0, len(result.ProviderErrors))
		for p := range result.ProviderErrors {
			providers = append(providers, p)
		}
		sort.Strings(providers)
		fmt.Printf("%d providers failed:\n", len(providers))
		for _, p := range providers {
			fmt.Printf("  %s: %s\n", p, result.ProviderErrors[p])
		}
	}
}
