package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/aggregate"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/registry"
)

type fakeProvider struct {
	id      string
	records []model.JobRecord
	err     error
}

func (f *fakeProvider) ID() string { return f.id }

func (f *fakeProvider) Search(_ context.Context, _ model.SearchCriteria) ([]model.JobRecord, error) {
	return f.records, f.err
}

type memoryStore struct {
	seen    map[string]struct{}
	knowErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{seen: make(map[string]struct{})}
}

func (s *memoryStore) Known() (map[string]struct{}, error) {
	if s.knowErr != nil {
		return nil, s.knowErr
	}
	out := make(map[string]struct{}, len(s.seen))
	for k := range s.seen {
		out[k] = struct{}{}
	}
	return out, nil
}

func (s *memoryStore) MarkSeen(url string) error {
	s.seen[url] = struct{}{}
	return nil
}

func (s *memoryStore) Cleanup(time.Duration) error { return nil }

type recordingNotifier struct {
	calls   int
	records []model.JobRecord
	errs    map[string]string
}

func (n *recordingNotifier) Notify(records []model.JobRecord, providerErrors map[string]string) error {
	n.calls++
	n.records = records
	n.errs = providerErrors
	return nil
}

func newWatcher(t *testing.T, store model.SeenStore, notifier model.Notifier, providers ...*fakeProvider) *Watcher {
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
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := aggregate.New(reg, logger)

	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.id)
	}
	criteria := model.SearchCriteria{Keywords: "golang", Limit: 25, Providers: ids}
	return New(engine, criteria, store, notifier, logger)
}

func TestRunNotifiesAndMarksNewListings(t *testing.T) {
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	w := newWatcher(t, store, notifier, &fakeProvider{
		id: "a",
		records: []model.JobRecord{
			{Title: "Engineer", Company: "Acme", URL: "https://a.example/1"},
		},
	})

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if notifier.calls != 1 || len(notifier.records) != 1 {
		t.Fatalf("expected 1 notification with 1 record, got %d calls, %d records", notifier.calls, len(notifier.records))
	}
	if _, ok := store.seen["https://a.example/1"]; !ok {
		t.Error("expected new listing to be marked seen")
	}
}

func TestRunSkipsAlreadySeen(t *testing.T) {
	store := newMemoryStore()
	store.seen["https://a.example/1"] = struct{}{}
	notifier := &recordingNotifier{}
	w := newWatcher(t, store, notifier, &fakeProvider{
		id: "a",
		records: []model.JobRecord{
			{Title: "Engineer", Company: "Acme", URL: "https://a.example/1"},
		},
	})

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if notifier.calls != 0 {
		t.Errorf("expected no notification for already-seen listing, got %d calls", notifier.calls)
	}
}

func TestRunSurfacesProviderFailures(t *testing.T) {
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	w := newWatcher(t, store, notifier,
		&fakeProvider{id: "good", records: []model.JobRecord{{Title: "Engineer", Company: "Acme", URL: "https://g.example/1"}}},
		&fakeProvider{id: "bad", err: errors.New("down")},
	)

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := notifier.errs["bad"]; !ok {
		t.Error("expected failed provider surfaced to notifier")
	}
	if len(notifier.records) != 1 {
		t.Errorf("expected healthy provider's record, got %d", len(notifier.records))
	}
}

func TestRunFailsWhenStoreUnavailable(t *testing.T) {
	store := newMemoryStore()
	store.knowErr = errors.New("disk gone")
	w := newWatcher(t, store, &recordingNotifier{}, &fakeProvider{id: "a"})

	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error when seen store fails")
	}
}
