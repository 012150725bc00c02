package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/registry"
)

// Config is the root configuration for the jobscout aggregator.
type Config struct {
	UserAgent    string
	HTTPTimeout  time.Duration
	ScrapeDelay  time.Duration
	StorePath    string
	Search       SearchConfig
	RateLimit    RateLimitConfig
	Retry        RetryConfig
	Notification NotificationConfig
	Watch        WatchConfig
}

// SearchConfig holds default search criteria, applied when the corresponding
// command-line flag is not given.
type SearchConfig struct {
	Keywords           string
	Country            string
	City               string
	Location           string
	JobType            string
	WorkMode           string
	Experience         string
	PostedWithin       string
	RequireSponsorship bool
	Limit              int
	Providers          []string
}

// Criteria converts the configured defaults into search criteria. Providers
// defaults to every built-in provider.
func (s SearchConfig) Criteria() model.SearchCriteria {
	providers := s.Providers
	if len(providers) == 0 {
		providers = registry.DefaultIDs()
	}
	limit := s.Limit
	if limit <= 0 {
		limit = 25
	}
	return model.SearchCriteria{
		Keywords:           s.Keywords,
		Country:            s.Country,
		City:               s.City,
		Location:           s.Location,
		JobType:            model.JobType(s.JobType),
		WorkMode:           model.WorkMode(s.WorkMode),
		Experience:         model.ExperienceLevel(s.Experience),
		PostedWithin:       model.PostedWithin(s.PostedWithin),
		RequireSponsorship: s.RequireSponsorship,
		Limit:              limit,
		Providers:          providers,
	}
}

// RateLimitConfig controls provider-level rate limiting in watch mode.
type RateLimitConfig struct {
	MinDelay  time.Duration            // minimum gap between calls to the same provider
	Overrides map[string]time.Duration // per-provider overrides, keyed by provider id
}

// MinDelayFor returns the configured delay for the given provider, falling
// back to MinDelay.
func (r RateLimitConfig) MinDelayFor(provider string) time.Duration {
	if d, ok := r.Overrides[provider]; ok {
		return d
	}
	return r.MinDelay
}

// RetryConfig controls the retry decorator applied in watch mode.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// WatchConfig controls the periodic watch loop.
type WatchConfig struct {
	Interval time.Duration
	// SeenTTL bounds how long a seen URL is remembered before cleanup.
	SeenTTL time.Duration
}

const (
	defaultUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	defaultHTTPTimeout = 30 * time.Second
	defaultScrapeDelay = 2 * time.Second
	defaultStorePath   = "jobscout.db"
	defaultInterval    = 30 * time.Minute
	defaultSeenTTL     = 30 * 24 * time.Hour
	defaultBaseDelay   = 5 * time.Second
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	UserAgent    string             `yaml:"user_agent"`
	HTTPTimeout  string             `yaml:"http_timeout"`
	ScrapeDelay  string             `yaml:"scrape_delay"`
	StorePath    string             `yaml:"store_path"`
	Search       rawSearchConfig    `yaml:"search"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Retry        rawRetryConfig     `yaml:"retry"`
	Notification NotificationConfig `yaml:"notification"`
	Watch        rawWatchConfig     `yaml:"watch"`
}

type rawSearchConfig struct {
	Keywords           string   `yaml:"keywords"`
	Country            string   `yaml:"country"`
	City               string   `yaml:"city"`
	Location           string   `yaml:"location"`
	JobType            string   `yaml:"job_type"`
	WorkMode           string   `yaml:"work_mode"`
	Experience         string   `yaml:"experience"`
	PostedWithin       string   `yaml:"posted_within"`
	RequireSponsorship bool     `yaml:"require_sponsorship"`
	Limit              int      `yaml:"limit"`
	Providers          []string `yaml:"providers"`
}

type rawRateLimitConfig struct {
	MinDelay  string            `yaml:"min_delay"`
	Overrides map[string]string `yaml:"overrides"`
}

type rawRetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
	SeenTTL  string `yaml:"seen_ttl"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		UserAgent:   defaultUserAgent,
		HTTPTimeout: defaultHTTPTimeout,
		ScrapeDelay: defaultScrapeDelay,
		StorePath:   defaultStorePath,
		Search:      SearchConfig{Limit: 25},
		RateLimit:   RateLimitConfig{MinDelay: 0, Overrides: map[string]time.Duration{}},
		Retry:       RetryConfig{MaxRetries: 2, BaseDelay: defaultBaseDelay},
		Notification: NotificationConfig{
			Type: "log",
		},
		Watch: WatchConfig{Interval: defaultInterval, SeenTTL: defaultSeenTTL},
	}
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variable references in the file are expanded
// before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.UserAgent != "" {
		cfg.UserAgent = raw.UserAgent
	}
	if raw.StorePath != "" {
		cfg.StorePath = raw.StorePath
	}
	if cfg.HTTPTimeout, err = parseDuration(raw.HTTPTimeout, "http_timeout", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.ScrapeDelay, err = parseDuration(raw.ScrapeDelay, "scrape_delay", cfg.ScrapeDelay); err != nil {
		return nil, err
	}

	cfg.Search = SearchConfig(raw.Search)
	if cfg.Search.Limit <= 0 {
		cfg.Search.Limit = 25
	}

	if cfg.RateLimit.MinDelay, err = parseDuration(raw.RateLimit.MinDelay, "rate_limit.min_delay", cfg.RateLimit.MinDelay); err != nil {
		return nil, err
	}
	for provider, rawDelay := range raw.RateLimit.Overrides {
		d, err := time.ParseDuration(rawDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.overrides[%q]: %w", provider, err)
		}
		cfg.RateLimit.Overrides[provider] = d
	}

	if raw.Retry.MaxRetries > 0 {
		cfg.Retry.MaxRetries = raw.Retry.MaxRetries
	}
	if cfg.Retry.BaseDelay, err = parseDuration(raw.Retry.BaseDelay, "retry.base_delay", cfg.Retry.BaseDelay); err != nil {
		return nil, err
	}

	if raw.Notification.Type != "" {
		cfg.Notification = raw.Notification
	}

	if cfg.Watch.Interval, err = parseDuration(raw.Watch.Interval, "watch.interval", cfg.Watch.Interval); err != nil {
		return nil, err
	}
	if cfg.Watch.SeenTTL, err = parseDuration(raw.Watch.SeenTTL, "watch.seen_ttl", cfg.Watch.SeenTTL); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(raw, field string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %v", cfg.HTTPTimeout)
	}
	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", cfg.Watch.Interval)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	for _, id := range cfg.Search.Providers {
		known := false
		for _, d := range registry.DefaultDescriptors(0) {
			if d.ID == id {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("search.providers contains unknown provider %q", id)
		}
	}

	return nil
}
