package aggregate

import (
	"strings"

	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
)

// Dedup drops records whose URL is empty, already present in existing, or
// already emitted earlier in this batch. The first occurrence of a URL wins
// and survivors keep their relative order. Survivors are normalized in place.
func Dedup(records []model.JobRecord, existing map[string]struct{}) []model.JobRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.JobRecord, 0, len(records))
	for _, r := range records {
		url := strings.TrimSpace(r.URL)
		if url == "" {
			continue
		}
		if _, ok := existing[url]; ok {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		r.URL = url
		out = append(out, normalize(r))
	}
	return out
}

// normalize enforces the record shape every consumer can rely on: tags are
// never nil, descriptions are bounded, and remote/sponsorship flags are
// upgraded from text evidence when the provider did not set them. Flags are
// only ever raised here, never cleared.
func normalize(r model.JobRecord) model.JobRecord {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	r.Description = model.TruncateDescription(r.Description)
	tags := strings.Join(r.Tags, " ")
	if !r.IsRemote {
		r.IsRemote = filter.MentionsRemote(r.Title) ||
			filter.MentionsRemote(r.Location) ||
			filter.MentionsRemote(r.Description) ||
			filter.MentionsRemote(tags)
	}
	if !r.HasSponsorship {
		r.HasSponsorship = filter.MentionsSponsorship(r.Title) ||
			filter.MentionsSponsorship(r.Description) ||
			filter.MentionsSponsorship(tags)
	}
	return r
}
