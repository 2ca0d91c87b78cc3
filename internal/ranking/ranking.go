// Package ranking scores candidate vectors against a query by cosine
// similarity and selects the best results.
package ranking

import (
	"container/heap"
	"iter"
	"slices"

	"github.com/gcbaptista/go-retrieval-engine/internal/vector"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// Candidate is a document vector paired with its document ID.
type Candidate[V any] struct {
	ID     string
	Vector V
}

// Rank returns a lazy stream of hits for every candidate whose cosine
// similarity with query is strictly positive, in candidate order.
// The sequence can be ranged over any number of times.
func Rank[V vector.Vector[V]](query V, candidates []Candidate[V]) iter.Seq[model.Hit] {
	return func(yield func(model.Hit) bool) {
		if query.Norm() == 0 {
			return
		}
		for _, c := range candidates {
			score := vector.Cosine(query, c.Vector)
			// NaN fails every comparison.
			if !(score > 0) {
				continue
			}
			if !yield(model.Hit{DocumentID: c.ID, Score: score}) {
				return
			}
		}
	}
}

// Sorted drains the sequence and orders it by score descending, ties by
// ascending document ID.
func Sorted(seq iter.Seq[model.Hit]) []model.Hit {
	hits := slices.Collect(seq)
	slices.SortFunc(hits, model.CompareHits)
	return hits
}

// TopK returns the k best hits of the sequence in ranking order. k <= 0
// returns every hit. Only k hits are held in memory at once.
func TopK(seq iter.Seq[model.Hit], k int) []model.Hit {
	if k <= 0 {
		return Sorted(seq)
	}

	h := &minHeap{}
	for hit := range seq {
		if h.Len() < k {
			heap.Push(h, hit)
			continue
		}
		// (*h)[0] is the worst kept hit.
		if model.CompareHits(hit, (*h)[0]) < 0 {
			(*h)[0] = hit
			heap.Fix(h, 0)
		}
	}

	hits := []model.Hit(*h)
	slices.SortFunc(hits, model.CompareHits)
	return hits
}

// minHeap keeps the worst hit at the root.
type minHeap []model.Hit

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return model.CompareHits(h[i], h[j]) > 0 }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(model.Hit)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
