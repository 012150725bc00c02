package filter

import "strings"

// sponsorshipKeywords are the phrases that count as a visa-sponsorship signal
// in free-form listing text.
var sponsorshipKeywords = []string{
	"visa sponsor",
	"sponsorship",
	"sponsor visa",
	"work permit",
	"work authorization",
	"immigration support",
}

// KeywordMatch reports whether any whitespace-separated token of keywords
// appears (case-insensitive substring) in the title, the company, or any tag.
// Empty keywords match everything.
func KeywordMatch(keywords, title, company string, tags []string) bool {
	tokens := Tokens(keywords)
	if len(tokens) == 0 {
		return true
	}

	titleLower := strings.ToLower(title)
	companyLower := strings.ToLower(company)
	tagsLower := strings.ToLower(strings.Join(tags, " "))

	for _, tok := range tokens {
		if strings.Contains(titleLower, tok) ||
			strings.Contains(companyLower, tok) ||
			strings.Contains(tagsLower, tok) {
			return true
		}
	}
	return false
}

// Tokens splits keywords on whitespace and lowercases each token.
func Tokens(keywords string) []string {
	fields := strings.Fields(keywords)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = strings.ToLower(f)
	}
	return tokens
}

// MentionsSponsorship reports whether text contains any sponsorship phrase.
// Matching is case-insensitive.
func MentionsSponsorship(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range sponsorshipKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MentionsRemote reports whether text mentions remote work.
func MentionsRemote(text string) bool {
	return strings.Contains(strings.ToLower(text), "remote")
}
