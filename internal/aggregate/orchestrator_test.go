package aggregate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/registry"
)

type fakeProvider struct {
	id      string
	records []model.JobRecord
	err     error
	delay   time.Duration
	panics  bool
}

func (f *fakeProvider) ID() string { return f.id }

func (f *fakeProvider) Search(ctx context.Context, _ model.SearchCriteria) ([]model.JobRecord, error) {
	if f.panics {
		panic("adapter bug")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestOrchestrator(t *testing.T, providers ...*fakeProvider) *Orchestrator {
	t.Helper()
	descriptors := make([]registry.Descriptor, 0, len(providers))
	impls := make([]model.Provider, 0, len(providers))
	for _, p := range providers {
		descriptors = append(descriptors, registry.Descriptor{ID: p.id, Name: p.id, Category: registry.CategoryStatic})
		impls = append(impls, p)
	}
	reg, err := registry.New(descriptors, impls)
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	return New(reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func criteria(providers ...string) model.SearchCriteria {
	return model.SearchCriteria{
		Keywords:  "golang",
		Limit:     25,
		Providers: providers,
	}
}

func record(url string) model.JobRecord {
	return model.JobRecord{Title: "Engineer", Company: "Acme", URL: url, Tags: []string{}}
}

func TestAggregateMergesAllProviders(t *testing.T) {
	o := newTestOrchestrator(t,
		&fakeProvider{id: "a", records: []model.JobRecord{record("https://a.example/1"), record("https://a.example/2")}},
		&fakeProvider{id: "b", records: []model.JobRecord{record("https://b.example/1")}},
	)

	result, err := o.Aggregate(context.Background(), criteria("a", "b"), nil)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}
	if len(result.ProviderErrors) != 0 {
		t.Fatalf("expected no provider errors, got %v", result.ProviderErrors)
	}
}

func TestAggregatePartialFailure(t *testing.T) {
	o := newTestOrchestrator(t,
		&fakeProvider{id: "good", records: []model.JobRecord{record("https://good.example/1")}},
		&fakeProvider{id: "bad", err: &model.ProviderError{
			Provider: "bad",
			Kind:     model.ProviderUnavailable,
			Err:      errors.New("connection refused"),
		}},
	)

	result, err := o.Aggregate(context.Background(), criteria("good", "bad"), nil)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	msg, ok := result.ProviderErrors["bad"]
	if !ok {
		t.Fatal("expected an error entry for provider bad")
	}
	if msg == "" {
		t.Fatal("expected a non-empty error message")
	}
	if _, ok := result.ProviderErrors["good"]; ok {
		t.Fatal("healthy provider must not appear in the error map")
	}
}

func TestAggregateAllProvidersFailed(t *testing.T) {
	o := newTestOrchestrator(t,
		&fakeProvider{id: "a", err: errors.New("down")},
		&fakeProvider{id: "b", err: errors.New("also down")},
	)

	result, err := o.Aggregate(context.Background(), criteria("a", "b"), nil)
	if err != nil {
		t.Fatalf("all-failed aggregate must still succeed, got %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(result.Records))
	}
	if len(result.ProviderErrors) != 2 {
		t.Fatalf("expected 2 provider errors, got %v", result.ProviderErrors)
	}
}

func TestAggregateInvalidCriteria(t *testing.T) {
	slow := &fakeProvider{id: "slow", delay: time.Second}
	o := newTestOrchestrator(t, slow)

	c := criteria("slow")
	c.Keywords = "   "
	start := time.Now()
	_, err := o.Aggregate(context.Background(), c, nil)
	var ce *model.CriteriaError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CriteriaError, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("criteria validation must fail before provider work, took %v", elapsed)
	}
}

func TestAggregateUnknownProvider(t *testing.T) {
	o := newTestOrchestrator(t, &fakeProvider{id: "a"})

	_, err := o.Aggregate(context.Background(), criteria("a", "nope"), nil)
	var ce *model.CriteriaError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CriteriaError for unknown provider, got %v", err)
	}
}

func TestAggregateRecoversProviderPanic(t *testing.T) {
	o := newTestOrchestrator(t,
		&fakeProvider{id: "steady", records: []model.JobRecord{record("https://steady.example/1")}},
		&fakeProvider{id: "flaky", panics: true},
	)

	result, err := o.Aggregate(context.Background(), criteria("steady", "flaky"), nil)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if _, ok := result.ProviderErrors["flaky"]; !ok {
		t.Fatal("expected panicking provider to surface as a provider error")
	}
}

func TestAggregateCancelledBranchesAreSilent(t *testing.T) {
	o := newTestOrchestrator(t,
		&fakeProvider{id: "fast", records: []model.JobRecord{record("https://fast.example/1")}},
		&fakeProvider{id: "slow", delay: 5 * time.Second},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := o.Aggregate(ctx, criteria("fast", "slow"), nil)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected only the fast provider's record, got %d", len(result.Records))
	}
	if _, ok := result.ProviderErrors["slow"]; ok {
		t.Fatal("a cancelled branch must not appear in the error map")
	}
}

func TestDedupFirstSeenWins(t *testing.T) {
	dup := record("https://x.example/1")
	dup.Company = "First"
	later := record("https://x.example/1")
	later.Company = "Second"

	out := Dedup([]model.JobRecord{dup, later, record("https://x.example/2")}, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Company != "First" {
		t.Fatalf("first occurrence must win, got company %q", out[0].Company)
	}
	if out[1].URL != "https://x.example/2" {
		t.Fatalf("survivor order must be preserved, got %q", out[1].URL)
	}
}

func TestDedupDropsKnownAndEmpty(t *testing.T) {
	existing := map[string]struct{}{"https://x.example/seen": {}}
	out := Dedup([]model.JobRecord{
		record(""),
		record("https://x.example/seen"),
		record("https://x.example/new"),
	}, existing)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].URL != "https://x.example/new" {
		t.Fatalf("unexpected survivor %q", out[0].URL)
	}
}

func TestDedupIdempotent(t *testing.T) {
	in := []model.JobRecord{
		record("https://x.example/1"),
		record("https://x.example/2"),
		record("https://x.example/1"),
	}
	once := Dedup(in, nil)
	twice := Dedup(once, nil)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedup must be idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestNormalizeUpgradesFlags(t *testing.T) {
	r := model.JobRecord{
		Title:       "Remote Backend Engineer",
		Company:     "Acme",
		URL:         "https://x.example/1",
		Description: "We offer visa sponsorship for the right candidate.",
	}
	out := Dedup([]model.JobRecord{r}, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if !out[0].IsRemote {
		t.Fatal("expected remote flag upgraded from title text")
	}
	if !out[0].HasSponsorship {
		t.Fatal("expected sponsorship flag upgraded from description text")
	}
	if out[0].Tags == nil {
		t.Fatal("tags must never be nil after normalization")
	}
}

func TestNormalizeUpgradesFlagsFromTags(t *testing.T) {
	r := model.JobRecord{
		Title:   "Backend Engineer",
		Company: "Acme",
		URL:     "https://x.example/1",
		Tags:    []string{"remote", "visa sponsorship"},
	}
	out := Dedup([]model.JobRecord{r}, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if !out[0].IsRemote {
		t.Fatal("expected remote flag upgraded from tag")
	}
	if !out[0].HasSponsorship {
		t.Fatal("expected sponsorship flag upgraded from tag")
	}
}
