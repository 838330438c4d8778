package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector cascades: third-party markup drifts, so extraction tries an
// ordered list of candidate selectors and stops at the first one that
// yields any match. Missing everything returns an empty result, never an
// error.

// firstMatch returns the selection for the first candidate selector with
// at least one match, or nil when none match.
func firstMatch(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// firstText returns the trimmed text of the first candidate sub-selector
// matching within s, or "".
func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			if text := strings.TrimSpace(found.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstAttr returns the named attribute of the first candidate
// sub-selector matching within s, or "".
func firstAttr(s *goquery.Selection, selectors []string, attr string) string {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			if val, ok := found.First().Attr(attr); ok && strings.TrimSpace(val) != "" {
				return strings.TrimSpace(val)
			}
		}
	}
	return ""
}
