package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"
)

// fetchFeed retrieves and parses a syndication feed through the adapter's own
// HTTP client (so tests can point it at a fixture server).
func fetchFeed(ctx context.Context, client *http.Client, userAgent, url string) (*gofeed.Feed, error) {
	resp, err := get(ctx, client, userAgent, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return feed, nil
}
