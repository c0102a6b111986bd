package codegen

import (
	"sort"

	"github.com/blimu-dev/salad-gen/pkg/ir"
)

// Vocabulary maps short enum, field and record names to their IRIs. Short
// names are not required to be unique; the last IRI added for a short name
// wins, and the inverse table is derived from the forward one.
type Vocabulary struct {
	terms map[string]string
}

// NewVocabulary creates an empty vocabulary
func NewVocabulary() *Vocabulary {
	return &Vocabulary{terms: make(map[string]string)}
}

// Add records short -> iri
func (v *Vocabulary) Add(short, iri string) {
	v.terms[short] = iri
}

// Lookup returns the IRI of a short name
func (v *Vocabulary) Lookup(short string) (string, bool) {
	iri, ok := v.terms[short]
	return iri, ok
}

// Len returns the number of terms
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Entries returns the forward table sorted by short name
func (v *Vocabulary) Entries() []ir.VocabEntry {
	keys := make([]string, 0, len(v.terms))
	for k := range v.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]ir.VocabEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, ir.VocabEntry{Short: k, IRI: v.terms[k]})
	}
	return out
}

// Reverse returns the inverse table (IRI -> short), in the same order as
// Entries. Two short names sharing an IRI both appear; consumers building a
// map keep the last one.
func (v *Vocabulary) Reverse() []ir.VocabEntry {
	return v.Entries()
}
