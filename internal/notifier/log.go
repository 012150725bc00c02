package notifier

import (
	"log/slog"

	"github.com/jobscout/jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new listings and provider failures to the given logger
// as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each listing via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each listing with company, title, location, URL, and source,
// then one warning per failed provider. Returns nil (logging does not fail).
func (n *LogNotifier) Notify(records []model.JobRecord, providerErrors map[string]string) error {
	for _, r := range records {
		args := []any{"company", r.Company, "title", r.Title, "location", r.Location, "url", r.URL, "source", r.Source}
		if r.PostedAt != "" {
			args = append(args, "posted_at", r.PostedAt)
		}
		if r.HasSponsorship {
			args = append(args, "sponsorship", true)
		}
		n.logger.Info("new listing", args...)
	}
	for provider, msg := range providerErrors {
		n.logger.Warn("provider failed", "provider", provider, "error", msg)
	}
	return nil
}
