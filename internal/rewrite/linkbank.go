package rewrite

import (
	"sort"
	"strings"
)

// LinkBankEntry is one footer definition: [AnchorID]: <DocumentID>.html#<AnchorID>.
type LinkBankEntry struct {
	AnchorID   string
	DocumentID string
}

func (e LinkBankEntry) String() string {
	return "[" + e.AnchorID + "]: " + e.DocumentID + ".html#" + e.AnchorID
}

// LinkBank is the deduplicated set of definitions a page references.
type LinkBank map[LinkBankEntry]struct{}

func (lb LinkBank) Add(anchorID, documentID string) {
	lb[LinkBankEntry{AnchorID: anchorID, DocumentID: documentID}] = struct{}{}
}

// Lines returns the serialized definitions in sorted order.
func (lb LinkBank) Lines() []string {
	out := make([]string, 0, len(lb))
	for e := range lb {
		out = append(out, e.String())
	}
	sort.Strings(out)
	return out
}

// AppendTo appends the definitions body does not already contain, separated
// from the body by a blank line.
func (lb LinkBank) AppendTo(body string) string {
	var missing []string
	for _, line := range lb.Lines() {
		if strings.HasPrefix(body, line+"\n") || strings.Contains(body, "\n"+line+"\n") || strings.HasSuffix(body, "\n"+line) {
			continue
		}
		missing = append(missing, line)
	}
	if len(missing) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, line := range missing {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
