package vectorize

import (
	"github.com/gcbaptista/go-retrieval-engine/internal/corpus"
	"github.com/gcbaptista/go-retrieval-engine/internal/embeddings"
	"github.com/gcbaptista/go-retrieval-engine/internal/vector"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// EmbeddingAverage represents an item by the mean embedding of its terms.
type EmbeddingAverage struct {
	table *embeddings.Table
	vocab *corpus.Vocabulary
}

// NewEmbeddingAverage creates the strategy. When vocab is non-nil, query terms
// outside it are ignored.
func NewEmbeddingAverage(table *embeddings.Table, vocab *corpus.Vocabulary) *EmbeddingAverage {
	return &EmbeddingAverage{table: table, vocab: vocab}
}

func (e *EmbeddingAverage) Name() string { return StrategyEmbedding }

func (e *EmbeddingAverage) Dimension() int { return e.table.Dimension() }

func (e *EmbeddingAverage) VectorizeDocuments(docs []model.Document) []vector.Dense {
	out := make([]vector.Dense, len(docs))
	for i, doc := range docs {
		out[i] = e.average(doc.Terms(), nil)
	}
	return out
}

func (e *EmbeddingAverage) VectorizeQuery(query model.Document) vector.Dense {
	return e.average(query.Terms(), e.vocab)
}

// average sums in ascending term order, so equal inputs give equal bits.
func (e *EmbeddingAverage) average(terms []string, vocab *corpus.Vocabulary) vector.Dense {
	sum := vector.Zeros(e.table.Dimension())
	matched := 0
	for _, term := range terms {
		if vocab != nil && !vocab.Contains(term) {
			continue
		}
		vec, ok := e.table.Lookup(term)
		if !ok {
			continue
		}
		for i, v := range vec {
			sum[i] += v
		}
		matched++
	}
	if matched == 0 {
		return sum
	}
	return sum.Div(float64(matched))
}
