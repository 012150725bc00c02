package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Timings for rendered-page retrieval. One settle after navigation and one
// pause per scroll cycle; the courtesy delay after each call comes from
// configuration.
const (
	pageSettle     = 3 * time.Second
	scrollPause    = 1500 * time.Millisecond
	maxScrollPages = 5
)

// sponsorshipMarker is appended to the keyword string when the caller asks
// for sponsored roles; neither interactive source has a structured filter.
const sponsorshipMarker = "visa sponsorship"

// firstText returns the trimmed text of the first selector that matches
// within s. Selectors are tried in order; the first match wins, which is how
// layout variants are tolerated.
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		found := s.Find(sel).First()
		if found.Length() > 0 {
			if text := strings.TrimSpace(found.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstAttr returns the named attribute of the first selector that matches
// within s and carries it.
func firstAttr(s *goquery.Selection, attr string, selectors ...string) string {
	for _, sel := range selectors {
		found := s.Find(sel).First()
		if v, ok := found.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}

// scrollPasses bounds scroll-and-wait pagination by the requested result
// count: one pass per ten results, capped.
func scrollPasses(limit int) int {
	passes := limit/10 + 1
	if passes > maxScrollPages {
		return maxScrollPages
	}
	return passes
}
