package app

import (
	"fmt"
	"io"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/booklinks/internal/heading"
	"github.com/hyperifyio/booklinks/internal/rewrite"
)

const bannerWidth = 60

// writePreview prints the proposed replacements of one document.
func writePreview(w io.Writer, docID string, previews []rewrite.Preview) {
	if len(previews) == 0 {
		return
	}
	filler := bannerWidth - len(docID)
	if filler < 0 {
		filler = -filler
	}
	fmt.Fprintln(w, docID+strings.Repeat("=#", filler/2))
	for _, p := range previews {
		fmt.Fprintln(w, p.Original)
		fmt.Fprintln(w, strings.Repeat(" |", 20))
		fmt.Fprintln(w, strings.Repeat(" v", 20))
		fmt.Fprintln(w, p.Replacement)
		fmt.Fprintln(w)
	}
}

// writeDeadLinks prints the run's sorted dead references.
func writeDeadLinks(w io.Writer, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintln(w, "dead links:")
	for _, k := range keys {
		fmt.Fprintf(w, "[“%s”] is possibly a dead link\n", k)
	}
}

// writeIndex dumps the heading index as YAML keyed by normalized title.
func writeIndex(w io.Writer, ix *heading.Index) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ix); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return enc.Close()
}
