package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends listing alerts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each new listing to Slack
// via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends each listing as a separate Slack message, then a single
// summary message for any provider failures. Returns an error only if ALL
// listing messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(records []model.JobRecord, providerErrors map[string]string) error {
	failures := 0
	for i, r := range records {
		if i > 0 {
			time.Sleep(500 * time.Millisecond)
		}
		if err := s.send(buildPayload(r)); err != nil {
			s.logger.Error("slack notification failed", "company", r.Company, "title", r.Title, "error", err)
			failures++
		}
	}

	if len(providerErrors) > 0 {
		if err := s.send(buildErrorPayload(providerErrors)); err != nil {
			s.logger.Error("slack provider-error summary failed", "error", err)
		}
	}

	if len(records) == 0 {
		return nil
	}
	sent := len(records) - failures
	if failures == len(records) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) send(payload slackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

func buildPayload(r model.JobRecord) slackPayload {
	location := r.Location
	if r.IsRemote && !strings.Contains(strings.ToLower(location), "remote") {
		location += " (remote)"
	}

	posted := r.PostedAt
	if posted == "" {
		posted = "Just found"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: r.Company + ": " + r.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Location:*\n" + location},
				{Type: "mrkdwn", Text: "*Source:*\n" + r.Source},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Posted:*\n" + posted},
				{Type: "mrkdwn", Text: "*Sponsorship:*\n" + yesNo(r.HasSponsorship)},
			},
		},
	}

	if r.SalaryRange != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Salary:* " + r.SalaryRange},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "View Listing"},
					URL:   r.URL,
					Style: "primary",
				},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}

func buildErrorPayload(providerErrors map[string]string) slackPayload {
	providers := make([]string, 0, len(providerErrors))
	for p := range providerErrors {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	var b strings.Builder
	for _, p := range providers {
		fmt.Fprintf(&b, "• *%s*: %s\n", p, providerErrors[p])
	}

	return slackPayload{Blocks: []slackBlock{
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "Some providers failed this cycle:\n" + b.String()},
		},
	}}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "Not mentioned"
}
