package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

const remoteokBaseURL = "https://remoteok.com/api"

// remoteokJob represents a single entry in the RemoteOK API response. The
// response is a bare JSON array whose first element is legal/metadata, not a
// listing; entries without a position are skipped.
type remoteokJob struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug"`
	Position  string   `json:"position"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	Tags      []string `json:"tags"`
	Desc      string   `json:"description"`
	Date      string   `json:"date"`
	SalaryMin int      `json:"salary_min"`
	SalaryMax int      `json:"salary_max"`
}

// RemoteOK fetches listings from the RemoteOK API.
type RemoteOK struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

// NewRemoteOK creates an adapter for the RemoteOK API.
func NewRemoteOK(client *http.Client, userAgent string) *RemoteOK {
	return &RemoteOK{client: client, userAgent: userAgent, baseURL: remoteokBaseURL}
}

func (a *RemoteOK) ID() string { return "remoteok" }

// Search fetches the full RemoteOK listing feed (the endpoint takes no count
// hint), filters it client-side by keyword, and normalizes the result.
func (a *RemoteOK) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	var entries []remoteokJob
	if err := getJSON(ctx, a.client, a.userAgent, a.baseURL, &entries); err != nil {
		return nil, searchErr(a.ID(), err)
	}

	// The first array element is API metadata, not a listing.
	if len(entries) > 0 {
		entries = entries[1:]
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, rj := range entries {
		if len(records) >= c.Limit {
			break
		}
		if rj.Position == "" || rj.Company == "" {
			continue
		}
		if !filter.KeywordMatch(c.Keywords, rj.Position, rj.Company, rj.Tags) {
			continue
		}

		var jobURL string
		if rj.Slug != "" {
			jobURL = "https://remoteok.com/remote-jobs/" + rj.Slug
		}

		var salary string
		if rj.SalaryMin > 0 {
			salary = fmt.Sprintf("$%d-$%d", rj.SalaryMin, rj.SalaryMax)
		}

		location := rj.Location
		if location == "" {
			location = "Remote"
		}

		records = append(records, model.JobRecord{
			Title:       rj.Position,
			Company:     rj.Company,
			Location:    location,
			URL:         jobURL,
			Description: model.TruncateDescription(extractText(rj.Desc)),
			SalaryRange: salary,
			Tags:        rj.Tags,
			PostedAt:    rj.Date,
			Source:      a.ID(),
			SourceJobID: rj.ID,
			IsRemote:    true, // remote-only board
		})
	}
	return records, nil
}
