// Package embeddings holds a precomputed term embedding table in memory.
package embeddings

import (
	"fmt"
	"math"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
)

// Table maps terms to fixed-width vectors. All vectors share one dimension.
// A Table is read-only after construction and safe for concurrent use.
type Table struct {
	dimension int
	vectors   map[string][]float64
}

// NewTable builds a table from a term to vector mapping. The first vector
// fixes the dimension; any vector of another width is rejected.
func NewTable(vectors map[string][]float64) (*Table, error) {
	t := &Table{vectors: make(map[string][]float64, len(vectors))}
	first := true
	for term, vec := range vectors {
		if first {
			t.dimension = len(vec)
			first = false
		}
		if err := t.add(term, vec); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewEmptyTable creates an empty table with a fixed dimension, to be filled with Add.
func NewEmptyTable(dimension int) *Table {
	return &Table{dimension: dimension, vectors: make(map[string][]float64)}
}

// Add inserts one term vector. It is meant for loaders filling a table before
// it is shared; it must not be called once the table is in use.
func (t *Table) Add(term string, vec []float64) error {
	if len(t.vectors) == 0 && t.dimension == 0 {
		t.dimension = len(vec)
	}
	return t.add(term, vec)
}

func (t *Table) add(term string, vec []float64) error {
	if len(vec) != t.dimension {
		return internalErrors.NewDimensionMismatchError(term, t.dimension, len(vec))
	}
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return internalErrors.NewValidationError(term, fmt.Sprintf("component %d is not a finite number", i))
		}
	}
	stored := make([]float64, len(vec))
	copy(stored, vec)
	t.vectors[term] = stored
	return nil
}

// Dimension returns the width shared by every vector of the table.
func (t *Table) Dimension() int { return t.dimension }

// Len returns the number of terms in the table.
func (t *Table) Len() int { return len(t.vectors) }

// Lookup returns the vector of a term. The returned slice must not be modified.
func (t *Table) Lookup(term string) ([]float64, bool) {
	vec, ok := t.vectors[term]
	return vec, ok
}
