package scrape

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

// indeedDomains maps lowercase country names to country-specific Indeed
// hosts. Unknown countries fall back to the default.
var indeedDomains = map[string]string{
	"usa":       "www.indeed.com",
	"canada":    "ca.indeed.com",
	"uk":        "uk.indeed.com",
	"australia": "au.indeed.com",
	"india":     "www.indeed.co.in",
	"germany":   "de.indeed.com",
	"pakistan":  "pk.indeed.com",
	"uae":       "www.indeed.ae",
}

const indeedDefaultDomain = "www.indeed.com"

var (
	indeedTimeFilters = map[model.PostedWithin]string{
		model.Posted24h:    "1",
		model.Posted48h:    "2",
		model.Posted1Week:  "7",
		model.Posted1Month: "30",
	}

	indeedJobTypeFilters = map[model.JobType]string{
		model.JobTypeFullTime:   "fulltime",
		model.JobTypePartTime:   "parttime",
		model.JobTypeContract:   "contract",
		model.JobTypeInternship: "internship",
	}
)

// Indeed searches Indeed's job listings via a rendered session. Indeed has no
// experience-level parameter, so that axis is not translated.
type Indeed struct {
	sessions SessionFactory
	delay    time.Duration
	logger   *slog.Logger
}

// NewIndeed creates the Indeed adapter.
func NewIndeed(sessions SessionFactory, delay time.Duration, logger *slog.Logger) *Indeed {
	return &Indeed{
		sessions: sessions,
		delay:    delay,
		logger:   logger,
	}
}

func (a *Indeed) ID() string { return "indeed" }

// domain picks the country-specific Indeed host.
func (a *Indeed) domain(country string) string {
	if d, ok := indeedDomains[strings.ToLower(country)]; ok {
		return d
	}
	return indeedDefaultDomain
}

// searchURL translates canonical criteria into Indeed's query encoding.
// work_mode=remote appends the literal token "remote" to the keyword string
// and sets the remotejob flag; Indeed has no structured work-mode filter.
func (a *Indeed) searchURL(c model.SearchCriteria) string {
	keywords := c.Keywords
	if c.WorkMode == model.WorkModeRemote {
		keywords += " remote"
	}
	if c.RequireSponsorship {
		keywords += " " + sponsorshipMarker
	}

	// Indeed takes a city over a combined "city, country" string.
	loc := c.Location
	if c.City != "" {
		loc = c.City
	} else if loc == "" {
		loc = c.Country
	}

	q := url.Values{}
	q.Set("q", keywords)
	if loc != "" {
		q.Set("l", loc)
	}
	q.Set("sort", "date")
	if v, ok := indeedTimeFilters[c.PostedWithin]; ok {
		q.Set("fromage", v)
	}
	if v, ok := indeedJobTypeFilters[c.JobType]; ok {
		q.Set("jt", v)
	}
	if c.WorkMode == model.WorkModeRemote {
		q.Set("remotejob", "1")
	}

	return "https://" + a.domain(c.Country) + "/jobs?" + q.Encode()
}

// Search acquires a session, submits the translated query, and extracts
// listings with layered selectors for Indeed's several card layouts.
// Mid-flight failures yield whatever was extracted before the failure.
func (a *Indeed) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	sess, err := a.sessions(ctx)
	if err != nil {
		return nil, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderUnavailable, Err: err}
	}
	defer sess.Close()

	records, err := a.collect(sess, c)
	a.pause(ctx)
	if err != nil {
		a.logger.Warn("indeed search incomplete",
			"extracted", len(records),
			"error", err,
		)
	}
	return records, nil
}

func (a *Indeed) collect(sess Session, c model.SearchCriteria) ([]model.JobRecord, error) {
	if err := sess.Navigate(a.searchURL(c), pageSettle); err != nil {
		return nil, err
	}

	html, err := sess.HTML()
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderParseError, Err: err}
	}

	var records []model.JobRecord
	doc.Find(".job_seen_beacon, .jobsearch-ResultsList > li").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(records) >= c.Limit {
			return false
		}

		title := firstText(card, ".jobTitle span", "[data-testid='job-title']", ".jcs-JobTitle")
		company := firstText(card, "[data-testid='company-name']", ".companyName", ".company")
		if title == "" || company == "" {
			return true
		}

		cardText := card.Text()
		hasSponsorship := filter.MentionsSponsorship(cardText)
		if c.RequireSponsorship && !hasSponsorship {
			return true
		}

		var nativeID, jobURL string
		link := card.Find("a.jcs-JobTitle, a[data-jk]").First()
		if link.Length() > 0 {
			nativeID, _ = link.Attr("data-jk")
			href, _ := link.Attr("href")
			if strings.HasPrefix(href, "/") {
				jobURL = "https://" + a.domain(c.Country) + href
			} else {
				jobURL = href
			}
		}

		isRemote := filter.MentionsRemote(cardText)
		records = append(records, model.JobRecord{
			Title:          title,
			Company:        company,
			Location:       firstText(card, "[data-testid='text-location']", ".companyLocation", ".location"),
			URL:            jobURL,
			PostedAt:       firstText(card, ".date", "[data-testid='myJobsStateDate']"),
			Source:         a.ID(),
			SourceJobID:    nativeID,
			IsRemote:       isRemote,
			HasSponsorship: hasSponsorship,
		})
		return true
	})

	return records, nil
}

// FetchDetail loads one listing page and extracts the full description and
// salary line.
func (a *Indeed) FetchDetail(ctx context.Context, jobURL string) (model.JobRecord, error) {
	sess, err := a.sessions(ctx)
	if err != nil {
		return model.JobRecord{}, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderUnavailable, Err: err}
	}
	defer sess.Close()

	rec, err := a.collectDetail(sess, jobURL)
	a.pause(ctx)
	return rec, err
}

func (a *Indeed) collectDetail(sess Session, jobURL string) (model.JobRecord, error) {
	if err := sess.Navigate(jobURL, pageSettle); err != nil {
		return model.JobRecord{}, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderUnavailable, Err: err}
	}

	html, err := sess.HTML()
	if err != nil {
		return model.JobRecord{}, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderUnavailable, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.JobRecord{}, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderParseError, Err: err}
	}

	root := doc.Selection
	description := firstText(root, "#jobDescriptionText", ".jobsearch-jobDescriptionText")

	return model.JobRecord{
		Title:          firstText(root, "[data-testid='jobsearch-JobInfoHeader-title']", ".jobsearch-JobInfoHeader-title"),
		Company:        firstText(root, "[data-testid='inlineHeader-companyName']", ".jobsearch-InlineCompanyRating-companyHeader"),
		Location:       firstText(root, "[data-testid='inlineHeader-companyLocation']", ".jobsearch-JobInfoHeader-subtitle"),
		URL:            jobURL,
		Description:    model.TruncateDescription(description),
		SalaryRange:    firstText(root, "#salaryInfoAndJobType", "[data-testid='attribute_snippet_testid']"),
		Source:         a.ID(),
		IsRemote:       filter.MentionsRemote(description),
		HasSponsorship: filter.MentionsSponsorship(description),
	}, nil
}

func (a *Indeed) pause(ctx context.Context) {
	if a.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(a.delay):
	}
}
