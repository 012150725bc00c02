package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func TestHimalayasSearch(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 501,
				"title": "Senior Golang Developer",
				"companyName": "Acme",
				"slug": "senior-golang-developer-acme-501",
				"description": "<p>Go and Kubernetes.</p>",
				"pubDate": "2026-08-23",
				"minSalary": 110000,
				"salaryCurrency": "USD",
				"locationRestrictions": ["United States", "Canada"],
				"categories": ["golang", "devops"]
			},
			{
				"id": 502,
				"title": "Golang Engineer",
				"companyName": "Beta",
				"slug": "golang-engineer-beta-502",
				"locationRestrictions": [],
				"categories": ["golang"]
			}
		]
	}`
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewHimalayas(srv.Client(), "test-agent")
	a.baseURL = srv.URL

	records, err := a.Search(context.Background(), model.SearchCriteria{Keywords: "golang", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != "20" {
		t.Errorf("limit param = %q, want double the limit", gotLimit)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	r := records[0]
	if r.URL != "https://himalayas.app/jobs/senior-golang-developer-acme-501" {
		t.Errorf("url not built from slug: %q", r.URL)
	}
	if r.Location != "United States" {
		t.Errorf("location = %q, want the first restriction", r.Location)
	}
	if r.SalaryRange != "USD 110000" {
		t.Errorf("salary = %q", r.SalaryRange)
	}
	if r.SourceJobID != "501" {
		t.Errorf("source job id = %q", r.SourceJobID)
	}
	if len(r.Tags) != 2 || r.Tags[0] != "golang" {
		t.Errorf("tags = %v, want the categories", r.Tags)
	}
	if !r.IsRemote {
		t.Error("expected remote flag set")
	}
	if records[1].Location != "Remote" {
		t.Errorf("empty restrictions must fall back to Remote, got %q", records[1].Location)
	}
}
