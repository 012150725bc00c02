package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

const nodeskFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>NoDesk Remote Jobs</title>
    <item>
      <title>Senior Golang Engineer at Acme</title>
      <link>https://nodesk.co/remote-jobs/senior-golang-engineer-acme/</link>
      <description>&lt;p&gt;Build Go services.&lt;/p&gt;</description>
      <pubDate>Sun, 23 Aug 2026 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Content Writer at Beta</title>
      <link>https://nodesk.co/remote-jobs/content-writer-beta/</link>
      <pubDate>Sat, 22 Aug 2026 10:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestNoDeskSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(nodeskFeed))
	}))
	defer srv.Close()

	a := NewNoDesk(srv.Client(), "test-agent")
	a.feedURL = srv.URL

	records, err := a.Search(context.Background(), model.SearchCriteria{Keywords: "golang", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 keyword-matched record, got %d", len(records))
	}

	r := records[0]
	if r.Title != "Senior Golang Engineer at Acme" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Company != "Via NoDesk" {
		t.Errorf("company = %q, want the board attribution", r.Company)
	}
	if r.Location != "Remote" {
		t.Errorf("location = %q", r.Location)
	}
	if r.SourceJobID != "senior-golang-engineer-acme" {
		t.Errorf("source job id = %q, want the trailing slug", r.SourceJobID)
	}
	if r.Description != "Build Go services." {
		t.Errorf("description not stripped of markup: %q", r.Description)
	}
	if !r.IsRemote {
		t.Error("expected remote flag set")
	}
}

func TestNoDeskMalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a feed"))
	}))
	defer srv.Close()

	a := NewNoDesk(srv.Client(), "test-agent")
	a.feedURL = srv.URL

	_, err := a.Search(context.Background(), model.SearchCriteria{Limit: 10})
	var provErr *model.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Kind != model.ProviderParseError {
		t.Errorf("kind = %v, want parse error", provErr.Kind)
	}
}
