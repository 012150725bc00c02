package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func TestJobicySearch(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 9001,
				"jobTitle": "Golang Backend Engineer",
				"companyName": "Acme",
				"jobGeo": "Europe",
				"url": "https://jobicy.com/jobs/9001-golang-backend-engineer",
				"jobExcerpt": "<p>Own our Go services.</p>",
				"jobType": "full-time",
				"pubDate": "2026-08-22 08:00:00",
				"annualSalaryMin": 90000,
				"annualSalaryMax": 120000
			},
			{
				"id": 9002,
				"jobTitle": "Golang Engineer",
				"companyName": "Beta",
				"jobGeo": "",
				"url": "https://jobicy.com/jobs/9002-golang-engineer",
				"pubDate": "2026-08-21 08:00:00"
			}
		]
	}`
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("count")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewJobicy(srv.Client(), "test-agent")
	a.baseURL = srv.URL

	records, err := a.Search(context.Background(), model.SearchCriteria{Keywords: "golang", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "20" {
		t.Errorf("count param = %q, want double the limit", gotQuery)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	r := records[0]
	if r.Location != "Europe" {
		t.Errorf("location = %q", r.Location)
	}
	if r.SalaryRange != "$90000-$120000" {
		t.Errorf("salary = %q", r.SalaryRange)
	}
	if r.SourceJobID != "9001" {
		t.Errorf("source job id = %q", r.SourceJobID)
	}
	if r.Description != "Own our Go services." {
		t.Errorf("description not stripped of markup: %q", r.Description)
	}
	if !r.IsRemote {
		t.Error("expected remote flag set")
	}
	if records[1].Location != "Remote" {
		t.Errorf("blank geo must fall back to Remote, got %q", records[1].Location)
	}
	if records[1].SalaryRange != "" {
		t.Errorf("zero salary must stay empty, got %q", records[1].SalaryRange)
	}
}

func TestJobicyRequestCountCapped(t *testing.T) {
	var gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCount = r.URL.Query().Get("count")
		w.Write([]byte(`{"jobs": []}`))
	}))
	defer srv.Close()

	a := NewJobicy(srv.Client(), "test-agent")
	a.baseURL = srv.URL

	if _, err := a.Search(context.Background(), model.SearchCriteria{Limit: 40}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCount != "50" {
		t.Errorf("count param = %q, want the endpoint cap", gotCount)
	}
}
