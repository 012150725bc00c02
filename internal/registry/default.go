package registry

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jobscout/jobscout/internal/adapter"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/scrape"
)

// Options carries the shared dependencies every provider is built from.
type Options struct {
	// HTTPClient serves all static providers. Required.
	HTTPClient *http.Client
	// UserAgent is sent on every static request and rendered session.
	UserAgent string
	// Sessions opens rendered browsing sessions for the interactive
	// providers. Required when any interactive provider is wanted.
	Sessions scrape.SessionFactory
	// ScrapeDelay is the courtesy pause after each interactive search.
	ScrapeDelay time.Duration
	// Logger receives per-provider progress. Required.
	Logger *slog.Logger
}

// DefaultDescriptors returns the descriptor table for every built-in
// provider, interactive first.
func DefaultDescriptors(scrapeDelay time.Duration) []Descriptor {
	return []Descriptor{
		{ID: "linkedin", Name: "LinkedIn", Category: CategoryInteractive, Delay: scrapeDelay},
		{ID: "indeed", Name: "Indeed", Category: CategoryInteractive, Delay: scrapeDelay},
		{ID: "remotive", Name: "Remotive", Category: CategoryStatic},
		{ID: "remoteok", Name: "RemoteOK", Category: CategoryStatic},
		{ID: "weworkremotely", Name: "We Work Remotely", Category: CategoryStatic},
		{ID: "arbeitnow", Name: "Arbeitnow", Category: CategoryStatic},
		{ID: "jobicy", Name: "Jobicy", Category: CategoryStatic},
		{ID: "himalayas", Name: "Himalayas", Category: CategoryStatic},
		{ID: "nodesk", Name: "NoDesk", Category: CategoryStatic},
		{ID: "findwork", Name: "Findwork", Category: CategoryStatic, NativeKeywordFilter: true},
	}
}

// DefaultIDs returns the ids of every built-in provider.
func DefaultIDs() []string {
	descriptors := DefaultDescriptors(0)
	ids := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		ids = append(ids, d.ID)
	}
	return ids
}

// BuildDefault constructs the registry holding all ten built-in providers.
func BuildDefault(opts Options) (*Registry, error) {
	providers := []model.Provider{
		scrape.NewLinkedIn(opts.Sessions, opts.ScrapeDelay, opts.Logger),
		scrape.NewIndeed(opts.Sessions, opts.ScrapeDelay, opts.Logger),
		adapter.NewRemotive(opts.HTTPClient, opts.UserAgent),
		adapter.NewRemoteOK(opts.HTTPClient, opts.UserAgent),
		adapter.NewWeWorkRemotely(opts.HTTPClient, opts.UserAgent),
		adapter.NewArbeitnow(opts.HTTPClient, opts.UserAgent),
		adapter.NewJobicy(opts.HTTPClient, opts.UserAgent),
		adapter.NewHimalayas(opts.HTTPClient, opts.UserAgent),
		adapter.NewNoDesk(opts.HTTPClient, opts.UserAgent),
		adapter.NewFindwork(opts.HTTPClient, opts.UserAgent),
	}
	return New(DefaultDescriptors(opts.ScrapeDelay), providers)
}
