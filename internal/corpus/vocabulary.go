// Package corpus builds the closed vocabulary and document-frequency statistics
// of a document collection.
package corpus

import (
	"sort"

	"github.com/gcbaptista/go-retrieval-engine/model"
)

// Vocabulary is the closed term set of a corpus snapshot together with the
// document frequency of every term. Terms are kept in ascending order and each
// term's position is its dimension index in sparse vectors.
// A Vocabulary is immutable once built.
type Vocabulary struct {
	terms   []string
	index   map[string]int
	df      []int
	numDocs int
}

// Build computes the vocabulary of the given documents. Each document adds at
// most one to a term's document frequency, regardless of the raw count.
func Build(docs []model.Document) *Vocabulary {
	counts := make(map[string]int)
	for _, doc := range docs {
		for term, frequency := range doc.Frequencies {
			if frequency <= 0 {
				continue
			}
			counts[term]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := &Vocabulary{
		terms:   terms,
		index:   make(map[string]int, len(terms)),
		df:      make([]int, len(terms)),
		numDocs: len(docs),
	}
	for i, term := range terms {
		vocab.index[term] = i
		vocab.df[i] = counts[term]
	}
	return vocab
}

// Len returns the number of distinct terms, which is also the dimensionality
// of every sparse vector built over this vocabulary.
func (v *Vocabulary) Len() int { return len(v.terms) }

// NumDocuments returns the number of documents the vocabulary was built from.
func (v *Vocabulary) NumDocuments() int { return v.numDocs }

// Terms returns a copy of the vocabulary terms in index order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Index returns the dimension index of a term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Contains reports whether the term belongs to the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.index[term]
	return ok
}

// DocumentFrequency returns the number of documents containing the term, or 0
// when the term is outside the vocabulary.
func (v *Vocabulary) DocumentFrequency(term string) int {
	i, ok := v.index[term]
	if !ok {
		return 0
	}
	return v.df[i]
}

// DocumentFrequencyAt returns the document frequency of the term at index i.
func (v *Vocabulary) DocumentFrequencyAt(i int) int { return v.df[i] }
