package heading

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// spaceRunRe matches a whitespace run, swallowing a blockquote marker when the
// run starts on a wrapped "\n>" continuation.
var spaceRunRe = regexp.MustCompile(`(?:\n>)?[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

// Normalize is the single normalization shared by heading indexing and
// mention matching. It NFC-composes the text and collapses blockquote
// continuations and whitespace runs (including embedded newlines) into one
// space. Leading and trailing spaces are collapsed, not trimmed.
func Normalize(s string) string {
	return spaceRunRe.ReplaceAllString(norm.NFC.String(s), " ")
}
