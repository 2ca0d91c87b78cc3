// Package feedback implements Rocchio relevance feedback.
package feedback

import (
	"fmt"
	"math"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/vector"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// Params are the Rocchio weights of the original query, the relevant
// centroid and the irrelevant centroid. They need not sum to 1.
type Params struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// DefaultParams returns the customary 1, 0.75, 0.25 weights.
func DefaultParams() Params {
	return Params{Alpha: 1, Beta: 0.75, Gamma: 0.25}
}

// Validate checks that every weight is a finite, non-negative number.
func (p Params) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"alpha", p.Alpha},
		{"beta", p.Beta},
		{"gamma", p.Gamma},
	} {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			return internalErrors.NewValidationError(w.name, "must be a finite number")
		}
		if w.value < 0 {
			return internalErrors.NewValidationError(w.name, "must be non-negative")
		}
	}
	return nil
}

// Lookup resolves a document ID to its vector.
type Lookup[V any] func(id string) (V, bool)

// Reformulate computes
//
//	alpha*query + beta*mean(relevant) - gamma*mean(irrelevant)
//
// Both ID lists are treated as sets and must be non-empty. Neither the query
// nor the looked-up document vectors are modified.
func Reformulate[V vector.Algebra[V]](query V, lookup Lookup[V], relevant, irrelevant []string, p Params) (V, error) {
	if err := p.Validate(); err != nil {
		return query, err
	}

	relevantCentroid, err := centroid(lookup, relevant, "relevant_ids")
	if err != nil {
		return query, err
	}
	irrelevantCentroid, err := centroid(lookup, irrelevant, "irrelevant_ids")
	if err != nil {
		return query, err
	}

	return query.Scale(p.Alpha).
		Add(relevantCentroid.Scale(p.Beta)).
		Sub(irrelevantCentroid.Scale(p.Gamma)), nil
}

func centroid[V vector.Algebra[V]](lookup Lookup[V], ids []string, field string) (V, error) {
	var zero V
	set := uniqueSorted(ids)
	if len(set) == 0 {
		return zero, internalErrors.NewValidationError(field, "must contain at least one document id")
	}

	sum, ok := lookup(set[0])
	if !ok {
		return zero, fmt.Errorf("%s: %w", field, internalErrors.NewDocumentNotFoundError(set[0]))
	}
	for _, id := range set[1:] {
		vec, ok := lookup(id)
		if !ok {
			return zero, fmt.Errorf("%s: %w", field, internalErrors.NewDocumentNotFoundError(id))
		}
		sum = sum.Add(vec)
	}
	return sum.Div(float64(len(set))), nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	model.SortIDs(out)
	return out
}
