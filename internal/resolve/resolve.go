// Package resolve classifies quoted mentions against the heading index.
package resolve

import (
	"unicode"
	"unicode/utf8"

	"github.com/hyperifyio/booklinks/internal/heading"
	"github.com/hyperifyio/booklinks/internal/mention"
)

// Kind tags a Resolution.
type Kind int

const (
	Excluded Kind = iota
	Dead
	SameDocument
	CrossDocument
)

func (k Kind) String() string {
	switch k {
	case Excluded:
		return "excluded"
	case Dead:
		return "dead"
	case SameDocument:
		return "same-document"
	case CrossDocument:
		return "cross-document"
	}
	return "unknown"
}

// Resolution is the outcome for one mention. DocumentID and AnchorID are set
// only for SameDocument and CrossDocument.
type Resolution struct {
	Kind       Kind
	DocumentID string
	AnchorID   string
}

// IsLink reports whether the mention should be rewritten into a link.
func (r Resolution) IsLink() bool {
	return r.Kind == SameDocument || r.Kind == CrossDocument
}

// Resolver looks mentions up in a finished index. It holds no mutable state
// and may be shared across goroutines.
type Resolver struct {
	Index     *heading.Index
	Whitelist map[string]struct{}
}

// New returns a resolver. whitelist entries are normalized with
// heading.Normalize.
func New(ix *heading.Index, whitelist []string) *Resolver {
	r := &Resolver{Index: ix}
	if len(whitelist) > 0 {
		r.Whitelist = make(map[string]struct{}, len(whitelist))
		for _, w := range whitelist {
			r.Whitelist[heading.Normalize(w)] = struct{}{}
		}
	}
	return r
}

// Resolve classifies c as found in document docID.
func (r *Resolver) Resolve(c mention.Candidate, docID string) Resolution {
	key := c.Key
	first, _ := utf8.DecodeRuneInString(key)
	// lowercase-initial quotes are ordinary prose
	if key == "" || unicode.IsLower(first) {
		return Resolution{Kind: Excluded}
	}
	if _, ok := r.Whitelist[key]; ok {
		return Resolution{Kind: Excluded}
	}
	e, ok := r.Index.Lookup(key)
	if !ok {
		return Resolution{Kind: Dead}
	}
	if e.DocumentID == docID {
		return Resolution{Kind: SameDocument, DocumentID: e.DocumentID, AnchorID: e.AnchorID}
	}
	return Resolution{Kind: CrossDocument, DocumentID: e.DocumentID, AnchorID: e.AnchorID}
}

// From returns r as seen from document docID: a link into docID itself is
// same-document, any other is cross-document.
func (r Resolution) From(docID string) Resolution {
	if !r.IsLink() {
		return r
	}
	if r.DocumentID == docID {
		r.Kind = SameDocument
	} else {
		r.Kind = CrossDocument
	}
	return r
}

// Replaced records the literal mentions already turned into links, mapping
// the raw text to the resolution it was linked with. A raw mention present
// here is not resolved again. The link text and any footer definition are
// derived from the stored resolution on every use, so a record shared by
// several documents still yields a complete page each time.
type Replaced map[string]Resolution

// Lookup returns the resolution recorded for raw.
func (rp Replaced) Lookup(raw string) (Resolution, bool) {
	rs, ok := rp[raw]
	return rs, ok
}

// Add records raw as linked through rs.
func (rp Replaced) Add(raw string, rs Resolution) {
	rp[raw] = rs
}
