package model

import (
	"context"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLen bounds the description snippet carried on a record.
// Longer provider text is truncated before the record leaves the engine.
const MaxDescriptionLen = 500

// JobType is the canonical employment-type axis.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeAny        JobType = "any"
)

// WorkMode is the canonical remote/onsite axis.
type WorkMode string

const (
	WorkModeRemote WorkMode = "remote"
	WorkModeOnsite WorkMode = "onsite"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeAny    WorkMode = "any"
)

// ExperienceLevel is the canonical seniority axis.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
	ExperienceAny    ExperienceLevel = "any"
)

// PostedWithin is the canonical freshness axis.
type PostedWithin string

const (
	Posted24h    PostedWithin = "24h"
	Posted48h    PostedWithin = "48h"
	Posted1Week  PostedWithin = "1week"
	Posted1Month PostedWithin = "1month"
	PostedAny    PostedWithin = "any"
)

// Valid reports whether t is a known job type. The zero value counts as "any".
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeAny, "":
		return true
	}
	return false
}

func (m WorkMode) Valid() bool {
	switch m {
	case WorkModeRemote, WorkModeOnsite, WorkModeHybrid, WorkModeAny, "":
		return true
	}
	return false
}

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead, ExperienceAny, "":
		return true
	}
	return false
}

func (p PostedWithin) Valid() bool {
	switch p {
	case Posted24h, Posted48h, Posted1Week, Posted1Month, PostedAny, "":
		return true
	}
	return false
}

// SearchCriteria is the canonical search request handed to every provider.
// It is constructed per aggregation call and never mutated afterwards.
type SearchCriteria struct {
	Keywords           string
	Country            string
	City               string
	Location           string // free-text override; derived from City/Country when empty
	JobType            JobType
	WorkMode           WorkMode
	Experience         ExperienceLevel
	PostedWithin       PostedWithin
	RequireSponsorship bool
	Limit              int      // max results per provider
	Providers          []string // provider ids, must all exist in the registry
}

// LocationString returns the effective location: the explicit Location if set,
// otherwise "city, country" / "country" / "city", whichever parts exist.
func (c SearchCriteria) LocationString() string {
	if c.Location != "" {
		return c.Location
	}
	switch {
	case c.City != "" && c.Country != "":
		return c.City + ", " + c.Country
	case c.Country != "":
		return c.Country
	default:
		return c.City
	}
}

// JobRecord is the normalized listing shape all providers are mapped into.
// URL is the identity key; records without one are dropped before dedup.
type JobRecord struct {
	Title          string
	Company        string
	Location       string
	URL            string
	Description    string
	SalaryRange    string
	Tags           []string
	PostedAt       string // provider-native format, preserved as text
	Source         string // provider id
	SourceJobID    string // provider's own listing id, if any
	IsRemote       bool
	HasSponsorship bool
}

// AggregateResult is what one aggregation call returns: the deduplicated
// records plus a human-readable message per failed provider.
type AggregateResult struct {
	Records        []JobRecord
	ProviderErrors map[string]string
}

// Provider searches one external job source.
type Provider interface {
	ID() string
	Search(ctx context.Context, criteria SearchCriteria) ([]JobRecord, error)
}

// DetailProvider fetches an enriched record for a single listing URL.
// Only the interactive providers implement this.
type DetailProvider interface {
	FetchDetail(ctx context.Context, jobURL string) (JobRecord, error)
}

// SeenStore is the caller-side persistence collaborator: it remembers which
// listing URLs have been handed out so the next aggregation can skip them.
// The engine itself holds no state across calls.
type SeenStore interface {
	Known() (map[string]struct{}, error)
	MarkSeen(url string) error
	Cleanup(olderThan time.Duration) error
}

// Notifier surfaces new records and provider failures to a human.
type Notifier interface {
	Notify(records []JobRecord, providerErrors map[string]string) error
}

// TruncateDescription bounds s to MaxDescriptionLen, cutting on a rune
// boundary so multi-byte text is never split mid-character.
func TruncateDescription(s string) string {
	if len(s) <= MaxDescriptionLen {
		return s
	}
	cut := s[:MaxDescriptionLen]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
