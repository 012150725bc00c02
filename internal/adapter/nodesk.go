package adapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

const nodeskFeedURL = "https://nodesk.co/remote-jobs/feed/"

// NoDesk fetches listings from the NoDesk RSS feed. The feed carries no
// company field, so records are attributed to the board itself.
type NoDesk struct {
	client    *http.Client
	userAgent string
	feedURL   string
}

// NewNoDesk creates an adapter for the NoDesk feed.
func NewNoDesk(client *http.Client, userAgent string) *NoDesk {
	return &NoDesk{client: client, userAgent: userAgent, feedURL: nodeskFeedURL}
}

func (a *NoDesk) ID() string { return "nodesk" }

// Search fetches the feed and filters item titles client-side by keyword.
func (a *NoDesk) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	feed, err := fetchFeed(ctx, a.client, a.userAgent, a.feedURL)
	if err != nil {
		return nil, searchErr(a.ID(), err)
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, item := range feed.Items {
		if len(records) >= c.Limit {
			break
		}
		if item.Title == "" {
			continue
		}
		if !filter.KeywordMatch(c.Keywords, item.Title, "", nil) {
			continue
		}

		records = append(records, model.JobRecord{
			Title:       strings.TrimSpace(item.Title),
			Company:     "Via NoDesk",
			Location:    "Remote",
			URL:         item.Link,
			Description: model.TruncateDescription(extractText(item.Description)),
			PostedAt:    item.Published,
			Source:      a.ID(),
			SourceJobID: nodeskNativeID(item.Link),
			IsRemote:    true, // remote-only board
		})
	}
	return records, nil
}

// nodeskNativeID extracts the trailing path segment of a listing URL (the
// slug), tolerating the feed's trailing slash.
func nodeskNativeID(link string) string {
	parts := strings.Split(strings.TrimSuffix(link, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
