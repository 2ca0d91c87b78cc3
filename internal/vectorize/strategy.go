// Package vectorize turns term-frequency documents into vectors.
//
// Two strategies share the Strategy contract: TFIDF produces sparse vectors
// over the closed vocabulary, EmbeddingAverage produces dense vectors from an
// external embedding table. Ranking and feedback only see the contract.
package vectorize

import "github.com/gcbaptista/go-retrieval-engine/model"

// Strategy names.
const (
	StrategyTFIDF     = "tfidf"
	StrategyEmbedding = "embedding"
)

// Strategy vectorizes a corpus once and every query against it.
type Strategy[V any] interface {
	// Name identifies the strategy, e.g. "tfidf".
	Name() string
	// Dimension is the width of the produced vectors.
	Dimension() int
	// VectorizeDocuments returns one vector per document, in input order.
	VectorizeDocuments(docs []model.Document) []V
	// VectorizeQuery returns the vector of a single query.
	VectorizeQuery(query model.Document) V
}
