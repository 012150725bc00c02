package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func TestFindworkSendsKeywordsUpstream(t *testing.T) {
	payload := `{
		"results": [
			{
				"id": 501,
				"role": "Go Engineer",
				"company_name": "Acme",
				"location": "London",
				"url": "https://findwork.dev/501/go-engineer-at-acme",
				"text": "Write Go.",
				"keywords": ["golang"],
				"date_posted": "2026-08-24T08:00:00Z",
				"remote": true
			},
			{
				"id": 502,
				"role": "Accountant",
				"company_name": "Beta",
				"url": "https://findwork.dev/502/accountant-at-beta",
				"remote": false
			}
		]
	}`
	var gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewFindwork(srv.Client(), "test-agent")
	a.baseURL = srv.URL

	records, err := a.Search(context.Background(), model.SearchCriteria{Keywords: "golang backend", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotSearch != "golang backend" {
		t.Errorf("search param = %q, want the raw keyword string", gotSearch)
	}

	// The provider filters server-side, so every returned result is kept,
	// including ones that would fail a client-side keyword check.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Title != "Accountant" {
		t.Errorf("expected server results passed through unfiltered, got %q", records[1].Title)
	}

	r := records[0]
	if r.SourceJobID != "501" {
		t.Errorf("source job id = %q", r.SourceJobID)
	}
	if !r.IsRemote {
		t.Error("expected remote flag from provider field")
	}
	if records[1].IsRemote {
		t.Error("expected non-remote listing to keep its provider flag")
	}
}

func TestFindworkOmitsSearchParamWithoutKeywords(t *testing.T) {
	var hadSearch bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hadSearch = r.URL.Query().Has("search")
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	a := NewFindwork(srv.Client(), "test-agent")
	a.baseURL = srv.URL

	if _, err := a.Search(context.Background(), model.SearchCriteria{Limit: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hadSearch {
		t.Error("expected no search param when keywords are empty")
	}
}
