package classifier

import (
	"regexp"
	"strings"
)

// nonWordPattern matches everything that is not a letter, digit or
// whitespace. \p{L} keeps accented Latin letters, so Vietnamese text
// survives preprocessing intact.
var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// Preprocess lower-cases text, strips punctuation and collapses runs of
// whitespace to single spaces.
func Preprocess(text string) string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// firstLine returns the first non-empty line of text, used for title-only
// heuristics.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
