package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

const (
	jobicyBaseURL  = "https://jobicy.com/api/v2/remote-jobs"
	jobicyMaxCount = 50
)

// jobicyJob represents a single job in the Jobicy API response.
type jobicyJob struct {
	ID        int64  `json:"id"`
	JobTitle  string `json:"jobTitle"`
	Company   string `json:"companyName"`
	Geo       string `json:"jobGeo"`
	URL       string `json:"url"`
	Excerpt   string `json:"jobExcerpt"`
	JobType   string `json:"jobType"`
	PubDate   string `json:"pubDate"`
	SalaryMin int    `json:"annualSalaryMin"`
	SalaryMax int    `json:"annualSalaryMax"`
}

// jobicyResponse is the top-level Jobicy API response.
type jobicyResponse struct {
	Jobs []jobicyJob `json:"jobs"`
}

// Jobicy fetches listings from the Jobicy remote-jobs API.
type Jobicy struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

// NewJobicy creates an adapter for the Jobicy API.
func NewJobicy(client *http.Client, userAgent string) *Jobicy {
	return &Jobicy{client: client, userAgent: userAgent, baseURL: jobicyBaseURL}
}

func (a *Jobicy) ID() string { return "jobicy" }

// Search fetches listings with a count hint, filters client-side by keyword,
// and normalizes.
func (a *Jobicy) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(requestCount(c.Limit, jobicyMaxCount)))

	var resp jobicyResponse
	if err := getJSON(ctx, a.client, a.userAgent, a.baseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, searchErr(a.ID(), err)
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, jj := range resp.Jobs {
		if len(records) >= c.Limit {
			break
		}
		if jj.JobTitle == "" || jj.Company == "" {
			continue
		}
		if !filter.KeywordMatch(c.Keywords, jj.JobTitle, jj.Company, nil) {
			continue
		}

		var salary string
		if jj.SalaryMin > 0 {
			salary = fmt.Sprintf("$%d-$%d", jj.SalaryMin, jj.SalaryMax)
		}

		location := jj.Geo
		if location == "" {
			location = "Remote"
		}

		records = append(records, model.JobRecord{
			Title:       jj.JobTitle,
			Company:     jj.Company,
			Location:    location,
			URL:         jj.URL,
			Description: model.TruncateDescription(extractText(jj.Excerpt)),
			SalaryRange: salary,
			PostedAt:    jj.PubDate,
			Source:      a.ID(),
			SourceJobID: strconv.FormatInt(jj.ID, 10),
			IsRemote:    true, // remote-only board
		})
	}
	return records, nil
}
