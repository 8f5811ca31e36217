// Package mention finds curly-quoted section mentions in markdown text.
package mention

import (
	"strings"

	"github.com/hyperifyio/booklinks/internal/heading"
)

const (
	openQuote  = "“"
	closeQuote = "”"
)

// Candidate is a quoted span that may refer to a heading.
type Candidate struct {
	// Raw is the span as written, quotes included.
	Raw string
	// Key is Raw normalized like a heading, with the quotes stripped.
	Key string
	// Start and End are byte offsets of Raw in the scanned text.
	Start int
	End   int
}

// Scan returns every “...” span in text, left to right. A span whose opening
// quote directly follows '[' or whose closing quote is directly followed by
// ']' is already link text and is skipped. Spans may cross line breaks.
func Scan(text string) []Candidate {
	var out []Candidate
	pos := 0
	for pos < len(text) {
		i := strings.Index(text[pos:], openQuote)
		if i < 0 {
			break
		}
		start := pos + i
		bodyStart := start + len(openQuote)
		// next attempt starts one quote later, even if this one is rejected
		pos = bodyStart
		if start > 0 && text[start-1] == '[' {
			continue
		}
		j := strings.Index(text[bodyStart:], closeQuote)
		if j <= 0 {
			// no closing quote, or an empty “”
			continue
		}
		end := bodyStart + j + len(closeQuote)
		if end < len(text) && text[end] == ']' {
			continue
		}
		raw := text[start:end]
		out = append(out, Candidate{Raw: raw, Key: Key(raw), Start: start, End: end})
		pos = end
	}
	return out
}

// Key normalizes a quoted mention for index lookup.
func Key(raw string) string {
	return strings.Trim(heading.Normalize(raw), openQuote+closeQuote)
}
