package adapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

const weworkremotelyFeedURL = "https://weworkremotely.com/remote-jobs.rss"

// WeWorkRemotely fetches listings from the We Work Remotely RSS feed.
// Feed item titles are "Company: Job Title".
type WeWorkRemotely struct {
	client    *http.Client
	userAgent string
	feedURL   string
}

// NewWeWorkRemotely creates an adapter for the We Work Remotely feed.
func NewWeWorkRemotely(client *http.Client, userAgent string) *WeWorkRemotely {
	return &WeWorkRemotely{client: client, userAgent: userAgent, feedURL: weworkremotelyFeedURL}
}

func (a *WeWorkRemotely) ID() string { return "weworkremotely" }

// Search fetches the feed, splits company and title out of each item title,
// and filters client-side by keyword.
func (a *WeWorkRemotely) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	feed, err := fetchFeed(ctx, a.client, a.userAgent, a.feedURL)
	if err != nil {
		return nil, searchErr(a.ID(), err)
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, item := range feed.Items {
		if len(records) >= c.Limit {
			break
		}

		company, title := splitFeedTitle(item.Title)
		if title == "" || company == "" {
			continue
		}
		if !filter.KeywordMatch(c.Keywords, title, company, nil) {
			continue
		}

		var nativeID string
		if i := strings.LastIndex(item.Link, "/"); i >= 0 {
			nativeID = item.Link[i+1:]
		}

		records = append(records, model.JobRecord{
			Title:       title,
			Company:     company,
			Location:    "Remote",
			URL:         item.Link,
			Description: model.TruncateDescription(extractText(item.Description)),
			PostedAt:    item.Published,
			Source:      a.ID(),
			SourceJobID: nativeID,
			IsRemote:    true, // remote-only board
		})
	}
	return records, nil
}

// splitFeedTitle splits an item title of the form "Company: Job Title" on the
// first ": ". When no separator exists the whole string is the title and the
// company is empty.
func splitFeedTitle(raw string) (company, title string) {
	if i := strings.Index(raw, ": "); i >= 0 {
		return strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+2:])
	}
	return "", strings.TrimSpace(raw)
}
