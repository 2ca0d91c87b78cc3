package model

import (
	"sort"
	"strings"
)

// Document is a preprocessed corpus item: an opaque identifier plus the raw
// frequency of every term it contains. Queries share the same shape.
// Example: Document{ID: "12", Frequencies: map[string]int{"soviet": 2, "treati": 1}}
type Document struct {
	ID          string         `json:"id"`
	Frequencies map[string]int `json:"frequencies"`
}

// Size returns the sum of the document's raw term frequencies.
func (d Document) Size() int {
	size := 0
	for _, frequency := range d.Frequencies {
		size += frequency
	}
	return size
}

// Contains reports whether the term occurs in the document with a positive count.
func (d Document) Contains(term string) bool {
	return d.Frequencies[term] > 0
}

// Terms returns the document's present terms in ascending order.
func (d Document) Terms() []string {
	terms := make([]string, 0, len(d.Frequencies))
	for term, frequency := range d.Frequencies {
		if frequency > 0 {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	return terms
}

// CompareIDs orders document identifiers. Two purely decimal identifiers are
// compared numerically so that "2" sorts before "10"; anything else falls back
// to plain string comparison.
func CompareIDs(a, b string) int {
	if a == b {
		return 0
	}
	if isDecimal(a) && isDecimal(b) {
		ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(ta) != len(tb) {
			if len(ta) < len(tb) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(ta, tb); c != 0 {
			return c
		}
		// Same numeric value, different zero padding.
		return strings.Compare(a, b)
	}
	return strings.Compare(a, b)
}

// SortIDs sorts identifiers in place using CompareIDs.
func SortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return CompareIDs(ids[i], ids[j]) < 0 })
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
