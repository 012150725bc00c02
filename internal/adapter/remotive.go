package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

const (
	remotiveBaseURL  = "https://remotive.com/api/remote-jobs"
	remotiveMaxCount = 100
)

// remotiveCategories maps common keyword fragments to Remotive's category
// slugs, so a keyword search can narrow the upstream request.
var remotiveCategories = []struct {
	fragment string
	category string
}{
	{"software", "software-dev"},
	{"developer", "software-dev"},
	{"frontend", "software-dev"},
	{"backend", "software-dev"},
	{"fullstack", "software-dev"},
	{"devops", "devops"},
	{"data", "data"},
	{"design", "design"},
	{"marketing", "marketing"},
	{"sales", "sales"},
	{"customer", "customer-support"},
	{"product", "product"},
	{"qa", "qa"},
}

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"candidate_required_location"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Salary      string   `json:"salary"`
	JobType     string   `json:"job_type"`
	PublishedAt string   `json:"publication_date"`
	Tags        []string `json:"tags"`
}

// remotiveResponse is the top-level Remotive jobs API response.
type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// Remotive fetches listings from the Remotive remote-jobs API.
type Remotive struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

// NewRemotive creates an adapter for the Remotive API.
func NewRemotive(client *http.Client, userAgent string) *Remotive {
	return &Remotive{client: client, userAgent: userAgent, baseURL: remotiveBaseURL}
}

func (a *Remotive) ID() string { return "remotive" }

// Search fetches remote listings, narrows them client-side by keyword, and
// normalizes them into the canonical record shape.
func (a *Remotive) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(requestCount(c.Limit, remotiveMaxCount)))
	if cat := detectRemotiveCategory(c.Keywords); cat != "" {
		q.Set("category", cat)
	}

	var resp remotiveResponse
	if err := getJSON(ctx, a.client, a.userAgent, a.baseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, searchErr(a.ID(), err)
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, rj := range resp.Jobs {
		if len(records) >= c.Limit {
			break
		}
		if rj.Title == "" || rj.CompanyName == "" {
			continue
		}
		if !filter.KeywordMatch(c.Keywords, rj.Title, rj.CompanyName, rj.Tags) {
			continue
		}

		location := rj.Location
		if location == "" {
			location = "Remote"
		}

		records = append(records, model.JobRecord{
			Title:       rj.Title,
			Company:     rj.CompanyName,
			Location:    location,
			URL:         rj.URL,
			Description: model.TruncateDescription(extractText(rj.Description)),
			SalaryRange: rj.Salary,
			Tags:        rj.Tags,
			PostedAt:    rj.PublishedAt,
			Source:      a.ID(),
			SourceJobID: strconv.FormatInt(rj.ID, 10),
			IsRemote:    true, // remote-only board
		})
	}
	return records, nil
}

// detectRemotiveCategory returns the first category whose fragment appears in
// the keyword string, or "" when none match.
func detectRemotiveCategory(keywords string) string {
	lower := strings.ToLower(keywords)
	for _, m := range remotiveCategories {
		if strings.Contains(lower, m.fragment) {
			return m.category
		}
	}
	return ""
}
