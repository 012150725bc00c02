package adapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

const arbeitnowBaseURL = "https://www.arbeitnow.com/api/job-board-api"

// arbeitnowJob represents a single job in the Arbeitnow API response.
type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Remote      bool     `json:"remote"`
	// created_at is a unix timestamp; kept as provider-native text.
	CreatedAt json.Number `json:"created_at"`
}

// arbeitnowResponse is the top-level Arbeitnow API response.
type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

// Arbeitnow fetches listings from the Arbeitnow job-board API (EU focused).
type Arbeitnow struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

// NewArbeitnow creates an adapter for the Arbeitnow API.
func NewArbeitnow(client *http.Client, userAgent string) *Arbeitnow {
	return &Arbeitnow{client: client, userAgent: userAgent, baseURL: arbeitnowBaseURL}
}

func (a *Arbeitnow) ID() string { return "arbeitnow" }

// Search fetches the board, filters client-side by keyword, and normalizes.
// Unlike the remote-only boards, Arbeitnow declares remoteness per listing.
func (a *Arbeitnow) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	var resp arbeitnowResponse
	if err := getJSON(ctx, a.client, a.userAgent, a.baseURL, &resp); err != nil {
		return nil, searchErr(a.ID(), err)
	}

	records := make([]model.JobRecord, 0, c.Limit)
	for _, aj := range resp.Data {
		if len(records) >= c.Limit {
			break
		}
		if aj.Title == "" || aj.CompanyName == "" {
			continue
		}
		if !filter.KeywordMatch(c.Keywords, aj.Title, aj.CompanyName, aj.Tags) {
			continue
		}

		records = append(records, model.JobRecord{
			Title:       aj.Title,
			Company:     aj.CompanyName,
			Location:    aj.Location,
			URL:         aj.URL,
			Description: model.TruncateDescription(extractText(aj.Description)),
			Tags:        aj.Tags,
			PostedAt:    aj.CreatedAt.String(),
			Source:      a.ID(),
			SourceJobID: aj.Slug,
			IsRemote:    aj.Remote,
		})
	}
	return records, nil
}
