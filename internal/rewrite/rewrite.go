// Package rewrite turns resolved mentions into markdown links and appends the
// reference-style link definitions a page needs.
package rewrite

import (
	"strings"

	"github.com/hyperifyio/booklinks/internal/mention"
	"github.com/hyperifyio/booklinks/internal/resolve"
)

// Mode selects between rewriting text and only previewing replacements.
type Mode int

const (
	Apply Mode = iota
	DryRun
)

// Preview is one proposed replacement, recorded in DryRun mode.
type Preview struct {
	Original    string
	Replacement string
}

// Result describes what Page did to one document.
type Result struct {
	DocumentID string
	// Changed is false when no mention became a link or in DryRun mode; Text
	// is then the input unchanged.
	Changed bool
	Text    string
	// Links counts rewritten spans, or proposed ones in DryRun mode.
	Links    int
	Previews []Preview
	// Dead holds the normalized text of every unresolved mention, in order of
	// appearance.
	Dead []string
}

// Page resolves every candidate mention of one document and rewrites it.
// replaced carries the literal mentions already linked; a mention found there
// reuses its recorded resolution instead of being resolved again, so every
// unbracketed occurrence of it is linked the same way. The footer is rebuilt
// from those resolutions, so replaced may be shared across documents.
func Page(docID, text string, r *resolve.Resolver, mode Mode, replaced resolve.Replaced) Result {
	if replaced == nil {
		replaced = resolve.Replaced{}
	}
	res := Result{DocumentID: docID, Text: text}
	bank := LinkBank{}

	var b strings.Builder
	last := 0
	for _, c := range mention.Scan(text) {
		rs, seen := replaced.Lookup(c.Raw)
		if !seen {
			rs = r.Resolve(c, docID)
			switch rs.Kind {
			case resolve.Dead:
				res.Dead = append(res.Dead, c.Key)
				continue
			case resolve.Excluded:
				continue
			}
			replaced.Add(c.Raw, rs)
		} else {
			rs = rs.From(docID)
		}
		repl := linkFor(c.Raw, rs)
		if rs.Kind == resolve.CrossDocument {
			bank.Add(rs.AnchorID, rs.DocumentID)
		}
		if mode == DryRun && !seen {
			res.Previews = append(res.Previews, Preview{Original: c.Raw, Replacement: repl})
		}
		res.Links++
		if mode == DryRun {
			continue
		}
		b.WriteString(text[last:c.Start])
		b.WriteString(repl)
		last = c.End
	}

	if mode == DryRun || res.Links == 0 {
		return res
	}
	b.WriteString(text[last:])
	res.Text = bank.AppendTo(b.String())
	res.Changed = true
	return res
}

func linkFor(raw string, rs resolve.Resolution) string {
	if rs.Kind == resolve.SameDocument {
		return "[" + raw + "](#" + rs.AnchorID + ")"
	}
	return "[" + raw + "][" + rs.AnchorID + "]"
}
