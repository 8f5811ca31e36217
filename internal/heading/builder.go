package heading

import (
	"maps"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/booklinks/internal/anchor"
)

// headingRe matches ATX headings of level 1-4. An "Appendix X: " label is not
// part of the captured title.
var headingRe = regexp.MustCompile(`^#{1,4} (?:Appendix [A-Z]: )?(.+)$`)

// DefaultReserved lists titles that recur in every chapter and would only
// collide in the index.
var DefaultReserved = []string{"Summary"}

// fence tracks whether a scan is inside a ``` fenced block.
type fence int

const (
	outsideFence fence = iota
	insideFence
)

func (f fence) toggle() fence {
	if f == insideFence {
		return outsideFence
	}
	return insideFence
}

// Collision records a heading title that was indexed more than once. The
// later document wins.
type Collision struct {
	Title    string
	Previous string
	Winner   string
}

// Builder accumulates headings across a corpus. Documents must be added in
// corpus order: when two headings normalize to the same title the one added
// last is kept.
type Builder struct {
	reserved   map[string]struct{}
	entries    map[string]Entry
	collisions []Collision
}

// NewBuilder returns a builder that drops headings whose normalized title is
// in reserved. A nil reserved slice means DefaultReserved.
func NewBuilder(reserved []string) *Builder {
	if reserved == nil {
		reserved = DefaultReserved
	}
	b := &Builder{
		reserved: make(map[string]struct{}, len(reserved)),
		entries:  make(map[string]Entry, 256),
	}
	for _, r := range reserved {
		b.reserved[Normalize(r)] = struct{}{}
	}
	return b
}

// AddDocument scans one document's text for headings outside fenced blocks.
func (b *Builder) AddDocument(docID, text string) {
	state := outsideFence
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(line, "> ")
		if strings.HasPrefix(line, "```") {
			state = state.toggle()
		}
		if state == insideFence {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		b.add(docID, m[1])
	}
}

func (b *Builder) add(docID, raw string) {
	title := Normalize(raw)
	if _, ok := b.reserved[title]; ok {
		return
	}
	e := Entry{Title: title, DocumentID: docID, AnchorID: anchor.Slug(raw)}
	if prev, ok := b.entries[title]; ok {
		b.collisions = append(b.collisions, Collision{Title: title, Previous: prev.DocumentID, Winner: docID})
		log.Debug().Str("title", title).Str("previous", prev.DocumentID).Str("document", docID).Msg("duplicate heading; later document wins")
	}
	b.entries[title] = e
}

// Collisions returns every overwrite seen so far, in scan order.
func (b *Builder) Collisions() []Collision {
	return append([]Collision(nil), b.collisions...)
}

// Index returns a snapshot of the headings gathered so far. Later calls to
// AddDocument do not affect a returned Index.
func (b *Builder) Index() *Index {
	return &Index{entries: maps.Clone(b.entries)}
}
