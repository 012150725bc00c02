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

const linkedinBaseURL = "https://www.linkedin.com/jobs/search"

// Filter translation tables, one per axis. "any" and unset values have no
// entry and the parameter is omitted from the outgoing query.
var (
	linkedinTimeFilters = map[model.PostedWithin]string{
		model.Posted24h:    "r86400",
		model.Posted48h:    "r172800",
		model.Posted1Week:  "r604800",
		model.Posted1Month: "r2592000",
	}

	linkedinWorkModeFilters = map[model.WorkMode]string{
		model.WorkModeOnsite: "1",
		model.WorkModeRemote: "2",
		model.WorkModeHybrid: "3",
	}

	linkedinJobTypeFilters = map[model.JobType]string{
		model.JobTypeFullTime:   "F",
		model.JobTypePartTime:   "P",
		model.JobTypeContract:   "C",
		model.JobTypeInternship: "I",
	}

	linkedinExperienceFilters = map[model.ExperienceLevel]string{
		model.ExperienceEntry:  "2",
		model.ExperienceMid:    "3",
		model.ExperienceSenior: "4",
		model.ExperienceLead:   "5",
	}
)

// LinkedIn searches LinkedIn's public job search via a rendered session.
type LinkedIn struct {
	sessions SessionFactory
	delay    time.Duration
	logger   *slog.Logger
	baseURL  string
}

// NewLinkedIn creates the LinkedIn adapter. delay is the fixed courtesy pause
// applied once per call after network activity completes.
func NewLinkedIn(sessions SessionFactory, delay time.Duration, logger *slog.Logger) *LinkedIn {
	return &LinkedIn{
		sessions: sessions,
		delay:    delay,
		logger:   logger,
		baseURL:  linkedinBaseURL,
	}
}

func (a *LinkedIn) ID() string { return "linkedin" }

// searchURL translates canonical criteria into LinkedIn's query encoding.
// url.Values.Encode sorts keys, so identical criteria always produce an
// identical URL.
func (a *LinkedIn) searchURL(c model.SearchCriteria) string {
	keywords := c.Keywords
	if c.RequireSponsorship {
		keywords += " " + sponsorshipMarker
	}

	q := url.Values{}
	q.Set("keywords", keywords)
	if loc := c.LocationString(); loc != "" {
		q.Set("location", loc)
	}
	if v, ok := linkedinTimeFilters[c.PostedWithin]; ok {
		q.Set("f_TPR", v)
	}
	if v, ok := linkedinWorkModeFilters[c.WorkMode]; ok {
		q.Set("f_WT", v)
	}
	if v, ok := linkedinJobTypeFilters[c.JobType]; ok {
		q.Set("f_JT", v)
	}
	if v, ok := linkedinExperienceFilters[c.Experience]; ok {
		q.Set("f_E", v)
	}
	// Most recent first.
	q.Set("sortBy", "DD")

	return a.baseURL + "?" + q.Encode()
}

// Search acquires a session, submits the translated query, scrolls to load
// more cards, and extracts listings with layered selectors. Mid-flight
// failures yield whatever was extracted before the failure; only session
// acquisition is fatal.
func (a *LinkedIn) Search(ctx context.Context, c model.SearchCriteria) ([]model.JobRecord, error) {
	sess, err := a.sessions(ctx)
	if err != nil {
		return nil, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderUnavailable, Err: err}
	}
	defer sess.Close()

	records, err := a.collect(sess, c)
	a.pause(ctx)
	if err != nil {
		a.logger.Warn("linkedin search incomplete",
			"extracted", len(records),
			"error", err,
		)
	}
	return records, nil
}

func (a *LinkedIn) collect(sess Session, c model.SearchCriteria) ([]model.JobRecord, error) {
	if err := sess.Navigate(a.searchURL(c), pageSettle); err != nil {
		return nil, err
	}

	for i := 0; i < scrollPasses(c.Limit); i++ {
		if err := sess.Scroll(scrollPause); err != nil {
			break
		}
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
	doc.Find(".base-card, .job-search-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(records) >= c.Limit {
			return false
		}

		title := firstText(card, ".base-search-card__title", ".job-search-card__title")
		company := firstText(card, ".base-search-card__subtitle", ".job-search-card__subtitle")
		if title == "" || company == "" {
			return true
		}

		cardText := card.Text()
		hasSponsorship := filter.MentionsSponsorship(cardText)
		if c.RequireSponsorship && !hasSponsorship {
			return true
		}

		records = append(records, model.JobRecord{
			Title:          title,
			Company:        company,
			Location:       firstText(card, ".job-search-card__location"),
			URL:            firstAttr(card, "href", "a.base-card__full-link", "a.job-search-card__link"),
			PostedAt:       firstAttr(card, "datetime", "time"),
			Source:         a.ID(),
			IsRemote:       filter.MentionsRemote(cardText),
			HasSponsorship: hasSponsorship,
		})
		return true
	})

	return records, nil
}

// FetchDetail loads one listing page and extracts the full description.
func (a *LinkedIn) FetchDetail(ctx context.Context, jobURL string) (model.JobRecord, error) {
	sess, err := a.sessions(ctx)
	if err != nil {
		return model.JobRecord{}, &model.ProviderError{Provider: a.ID(), Kind: model.ProviderUnavailable, Err: err}
	}
	defer sess.Close()

	rec, err := a.collectDetail(sess, jobURL)
	a.pause(ctx)
	return rec, err
}

func (a *LinkedIn) collectDetail(sess Session, jobURL string) (model.JobRecord, error) {
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
	description := firstText(root, ".description__text", ".show-more-less-html__markup")

	return model.JobRecord{
		Title:          firstText(root, ".top-card-layout__title", ".topcard__title"),
		Company:        firstText(root, ".topcard__org-name-link", ".topcard__flavor--black-link"),
		Location:       firstText(root, ".topcard__flavor--bullet"),
		URL:            jobURL,
		Description:    model.TruncateDescription(description),
		Source:         a.ID(),
		IsRemote:       filter.MentionsRemote(description),
		HasSponsorship: filter.MentionsSponsorship(description),
	}, nil
}

// pause is the per-call courtesy delay. It is local to this call, not a
// cross-call throttle.
func (a *LinkedIn) pause(ctx context.Context) {
	if a.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(a.delay):
	}
}
