package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// Category says how a provider obtains its listings.
type Category string

const (
	// CategoryInteractive providers need a rendered browsing session.
	CategoryInteractive Category = "interactive"
	// CategoryStatic providers answer a direct JSON or feed request.
	CategoryStatic Category = "static"
)

// Descriptor declares a provider's identity and capabilities.
type Descriptor struct {
	ID   string
	Name string
	// Category is interactive or static.
	Category Category
	// NativeKeywordFilter is true when the provider's own endpoint accepts
	// the keyword string, so no client-side narrowing is applied. Exactly one
	// static provider (findwork) declares this; the asymmetry is deliberate.
	NativeKeywordFilter bool
	// Delay is the per-call courtesy pause applied after the provider's
	// network activity completes. Zero for providers that need none.
	Delay time.Duration
}

// Registry maps provider ids to adapter implementations and capability
// descriptors. It is built once at startup and immutable afterwards.
type Registry struct {
	descriptors map[string]Descriptor
	providers   map[string]model.Provider
	order       []string
}

// New builds a registry from matching descriptor and provider sets. Every
// descriptor must have a provider with the same id and vice versa.
func New(descriptors []Descriptor, providers []model.Provider) (*Registry, error) {
	r := &Registry{
		descriptors: make(map[string]Descriptor, len(descriptors)),
		providers:   make(map[string]model.Provider, len(providers)),
	}

	for _, d := range descriptors {
		if _, dup := r.descriptors[d.ID]; dup {
			return nil, fmt.Errorf("duplicate provider descriptor %q", d.ID)
		}
		r.descriptors[d.ID] = d
		r.order = append(r.order, d.ID)
	}

	for _, p := range providers {
		id := p.ID()
		if _, ok := r.descriptors[id]; !ok {
			return nil, fmt.Errorf("provider %q has no descriptor", id)
		}
		if _, dup := r.providers[id]; dup {
			return nil, fmt.Errorf("duplicate provider %q", id)
		}
		r.providers[id] = p
	}

	for id := range r.descriptors {
		if _, ok := r.providers[id]; !ok {
			return nil, fmt.Errorf("descriptor %q has no provider", id)
		}
	}

	return r, nil
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.descriptors[id])
	}
	return out
}

// Descriptor returns the descriptor for id.
func (r *Registry) Descriptor(id string) (Descriptor, bool) {
	d, ok := r.descriptors[id]
	return d, ok
}

// Provider returns the provider for id.
func (r *Registry) Provider(id string) (model.Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Resolve maps requested ids to their providers. It fails with a
// model.CriteriaError if the set is empty or any id is unknown.
func (r *Registry) Resolve(ids []string) ([]model.Provider, error) {
	if len(ids) == 0 {
		return nil, &model.CriteriaError{Reason: "no providers requested"}
	}

	var unknown []string
	providers := make([]model.Provider, 0, len(ids))
	for _, id := range ids {
		p, ok := r.providers[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		providers = append(providers, p)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &model.CriteriaError{
			Reason: "unknown providers: " + strings.Join(unknown, ", "),
		}
	}
	return providers, nil
}

// ValidateCriteria checks everything that must fail fast, before any network
// activity: blank keywords, empty provider set, non-positive limit, and
// unknown enum values.
func ValidateCriteria(c model.SearchCriteria) error {
	if strings.TrimSpace(c.Keywords) == "" {
		return &model.CriteriaError{Reason: "keywords must not be empty"}
	}
	if len(c.Providers) == 0 {
		return &model.CriteriaError{Reason: "no providers requested"}
	}
	if c.Limit <= 0 {
		return &model.CriteriaError{Reason: "limit must be positive"}
	}
	if !c.JobType.Valid() {
		return &model.CriteriaError{Reason: fmt.Sprintf("unknown job type %q", c.JobType)}
	}
	if !c.WorkMode.Valid() {
		return &model.CriteriaError{Reason: fmt.Sprintf("unknown work mode %q", c.WorkMode)}
	}
	if !c.Experience.Valid() {
		return &model.CriteriaError{Reason: fmt.Sprintf("unknown experience level %q", c.Experience)}
	}
	if !c.PostedWithin.Valid() {
		return &model.CriteriaError{Reason: fmt.Sprintf("unknown posted-within window %q", c.PostedWithin)}
	}
	return nil
}
