package anchor

import (
	"strings"
	"unicode"
)

// Slug converts a heading into the fragment id an mdBook-rendered page gives
// it: whitespace runs become single hyphens, every rune that is not a letter,
// number, underscore or hyphen is dropped, and the result is lowercased.
//
// Hyphens are never trimmed, so a heading ending in a standalone symbol token
// keeps its trailing hyphen ("Specify multiple traits with +" ->
// "specify-multiple-traits-with-").
func Slug(title string) string {
	joined := strings.Join(strings.Fields(title), "-")
	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		if isWordRune(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
