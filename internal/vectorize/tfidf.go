package vectorize

import (
	"math"

	"github.com/gcbaptista/go-retrieval-engine/internal/corpus"
	"github.com/gcbaptista/go-retrieval-engine/internal/vector"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// TFIDF weights documents by normalized term frequency times inverse
// document frequency, and queries by binary term presence.
type TFIDF struct {
	vocab *corpus.Vocabulary
	idf   []float64
}

// NewTFIDF precomputes the idf of every vocabulary term.
func NewTFIDF(vocab *corpus.Vocabulary) *TFIDF {
	n := float64(vocab.NumDocuments())
	idf := make([]float64, vocab.Len())
	for i := range idf {
		idf[i] = math.Log(n / float64(1+vocab.DocumentFrequencyAt(i)))
	}
	return &TFIDF{vocab: vocab, idf: idf}
}

func (t *TFIDF) Name() string { return StrategyTFIDF }

func (t *TFIDF) Dimension() int { return t.vocab.Len() }

// IDF returns ln(N / (1 + df(term))). Terms outside the vocabulary have df 0.
func (t *TFIDF) IDF(term string) float64 {
	if i, ok := t.vocab.Index(term); ok {
		return t.idf[i]
	}
	return math.Log(float64(t.vocab.NumDocuments()))
}

func (t *TFIDF) VectorizeDocuments(docs []model.Document) []vector.Sparse {
	out := make([]vector.Sparse, len(docs))
	for i, doc := range docs {
		out[i] = t.vectorizeDocument(doc)
	}
	return out
}

func (t *TFIDF) vectorizeDocument(doc model.Document) vector.Sparse {
	size := doc.Size()
	if size <= 0 {
		return vector.Sparse{}
	}
	weights := make(map[int]float64, len(doc.Frequencies))
	for term, count := range doc.Frequencies {
		if count <= 0 {
			continue
		}
		i, ok := t.vocab.Index(term)
		if !ok {
			continue
		}
		tf := float64(count) / float64(size)
		weights[i] = tf * t.idf[i]
	}
	return vector.NewSparse(weights)
}

// VectorizeQuery sets 1 for every vocabulary term the query contains.
func (t *TFIDF) VectorizeQuery(query model.Document) vector.Sparse {
	weights := make(map[int]float64, len(query.Frequencies))
	for term, count := range query.Frequencies {
		if count <= 0 {
			continue
		}
		if i, ok := t.vocab.Index(term); ok {
			weights[i] = 1
		}
	}
	return vector.NewSparse(weights)
}
