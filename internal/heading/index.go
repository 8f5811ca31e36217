package heading

import (
	"sort"
)

// Entry is one indexed heading.
type Entry struct {
	Title      string `yaml:"-"`
	DocumentID string `yaml:"document"`
	AnchorID   string `yaml:"anchor"`
}

// Index maps normalized heading titles to their entry. It is read-only once
// returned by Builder.Index and safe for concurrent lookups.
type Index struct {
	entries map[string]Entry
}

// Lookup returns the entry for a normalized title.
func (ix *Index) Lookup(title string) (Entry, bool) {
	if ix == nil {
		return Entry{}, false
	}
	e, ok := ix.entries[title]
	return e, ok
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Entries returns all entries ordered by title.
func (ix *Index) Entries() []Entry {
	if ix == nil {
		return nil
	}
	out := make([]Entry, 0, len(ix.entries))
	for _, e := range ix.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// MarshalYAML renders the index as a title-keyed mapping for the
// --references dump.
func (ix *Index) MarshalYAML() (interface{}, error) {
	m := make(map[string]Entry, ix.Len())
	for _, e := range ix.Entries() {
		m[e.Title] = e
	}
	return m, nil
}
