package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

const (
	himalayasBaseURL  = "https://himalayas.app/jobs/api"
	himalayasMaxCount = 50
)

// himalayasJob represents a single job in the Himalayas API response.
type himalayasJob struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	CompanyName    string   `json:"companyName"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	PubDate        string   `json:"pubDate"`
	MinSalary      int      `json:"minSalary"`
	SalaryCurrency string   `json:"salaryCurrency"`
	Locations      []string `json:"locationRestrictions"`
	Categories     []string `json:"categories"`
}

// himalayasResponse is the top-level Himalayas API response.
type himalayasResponse struct {
	Jobs []himalayasJob `json:"jobs"`
}

// Himalayas fetches listings from the Himalayas remote-jobs API.
type Himalayas struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

// NewHimalayas creates an adapter for the Himalayas API.
func NewHimalayas(client *http.Client, userAgent string) *Himalayas {
	return &Himalayas{client: client, userAgent: userAgent, baseURL: himalayasBaseURL}
}

func (a *Himalayas) ID() string { return "himalayas" }

// Search fetches listings with a count hint, filters client-side by keyword,
// and normalizes. Listing URLs are built from the slug.
func (a *Himalayas) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(requestCount(c.Limit, himalayasMaxCount)))

	var resp himalayasResponse
	if err := getJSON(ctx, a.client, a.userAgent, a.baseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, searchErr(a.ID(), err)
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, hj := range resp.Jobs {
		if len(records) >= c.Limit {
			break
		}
		if hj.Title == "" || hj.CompanyName == "" {
			continue
		}
		if !filter.KeywordMatch(c.Keywords, hj.Title, hj.CompanyName, hj.Categories) {
			continue
		}

		location := "Remote"
		if len(hj.Locations) > 0 {
			location = hj.Locations[0]
		}

		var salary string
		if hj.MinSalary > 0 {
			salary = hj.SalaryCurrency + " " + strconv.Itoa(hj.MinSalary)
		}

		var jobURL string
		if hj.Slug != "" {
			jobURL = "https://himalayas.app/jobs/" + hj.Slug
		}

		records = append(records, model.JobRecord{
			Title:       hj.Title,
			Company:     hj.CompanyName,
			Location:    location,
			URL:         jobURL,
			Description: model.TruncateDescription(extractText(hj.Description)),
			SalaryRange: salary,
			Tags:        hj.Categories,
			PostedAt:    hj.PubDate,
			Source:      a.ID(),
			SourceJobID: strconv.FormatInt(hj.ID, 10),
			IsRemote:    true, // remote-only board
		})
	}
	return records, nil
}
