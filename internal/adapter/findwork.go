package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jobscout/jobscout/internal/model"
)

const findworkBaseURL = "https://findwork.dev/api/jobs/"

// findworkJob represents a single job in the Findwork API response.
type findworkJob struct {
	ID         int64    `json:"id"`
	Role       string   `json:"role"`
	Company    string   `json:"company_name"`
	Location   string   `json:"location"`
	URL        string   `json:"url"`
	Text       string   `json:"text"`
	Keywords   []string `json:"keywords"`
	DatePosted string   `json:"date_posted"`
	Remote     bool     `json:"remote"`
}

// findworkResponse is the top-level Findwork API response.
type findworkResponse struct {
	Results []findworkJob `json:"results"`
}

// Findwork fetches listings from the Findwork developer-jobs API. It is the
// one static provider with a native keyword search: the keyword string is
// sent as the search parameter and no client-side narrowing is applied.
type Findwork struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

// NewFindwork creates an adapter for the Findwork API.
func NewFindwork(client *http.Client, userAgent string) *Findwork {
	return &Findwork{client: client, userAgent: userAgent, baseURL: findworkBaseURL}
}

func (a *Findwork) ID() string { return "findwork" }

// Search sends the keywords to the provider's own search parameter and maps
// the results as returned, bounded by the requested limit.
func (a *Findwork) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	endpoint := a.baseURL
	if c.Keywords != "" {
		q := url.Values{}
		q.Set("search", c.Keywords)
		endpoint += "?" + q.Encode()
	}

	var resp findworkResponse
	if err := getJSON(ctx, a.client, a.userAgent, endpoint, &resp); err != nil {
		return nil, searchErr(a.ID(), err)
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, fj := range resp.Results {
		if len(records) >= c.Limit {
			break
		}
		if fj.Role == "" || fj.Company == "" {
			continue
		}

		location := fj.Location
		if location == "" {
			location = "Remote"
		}

		records = append(records, model.JobRecord{
			Title:       fj.Role,
			Company:     fj.Company,
			Location:    location,
			URL:         fj.URL,
			Description: model.TruncateDescription(extractText(fj.Text)),
			Tags:        fj.Keywords,
			PostedAt:    fj.DatePosted,
			Source:      a.ID(),
			SourceJobID: strconv.FormatInt(fj.ID, 10),
			IsRemote:    fj.Remote,
		})
	}
	return records, nil
}
