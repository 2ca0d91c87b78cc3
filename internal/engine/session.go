package engine

import (
	"fmt"
	"iter"
	"time"

	"github.com/gcbaptista/go-retrieval-engine/internal/corpus"
	"github.com/gcbaptista/go-retrieval-engine/internal/embeddings"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/internal/ranking"
	"github.com/gcbaptista/go-retrieval-engine/internal/vector"
	"github.com/gcbaptista/go-retrieval-engine/internal/vectorize"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// Session is an immutable retrieval session over one corpus snapshot: the
// closed vocabulary, the chosen strategy and every document vector, computed
// once. All methods are safe for concurrent use.
type Session[V vector.Algebra[V]] struct {
	name       string
	vocab      *corpus.Vocabulary
	strategy   vectorize.Strategy[V]
	candidates []ranking.Candidate[V]
	positions  map[string]int
}

// NewSession vectorizes docs with strategy. Document IDs must be non-empty and unique.
func NewSession[V vector.Algebra[V]](name string, docs []model.Document, vocab *corpus.Vocabulary, strategy vectorize.Strategy[V]) (*Session[V], error) {
	positions := make(map[string]int, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return nil, internalErrors.NewValidationError("documents", fmt.Sprintf("document at position %d has an empty id", i))
		}
		if _, dup := positions[doc.ID]; dup {
			return nil, internalErrors.NewValidationError("documents", fmt.Sprintf("duplicate document id '%s'", doc.ID))
		}
		positions[doc.ID] = i
	}

	vectors := strategy.VectorizeDocuments(docs)
	candidates := make([]ranking.Candidate[V], len(docs))
	for i, doc := range docs {
		candidates[i] = ranking.Candidate[V]{ID: doc.ID, Vector: vectors[i]}
	}

	return &Session[V]{
		name:       name,
		vocab:      vocab,
		strategy:   strategy,
		candidates: candidates,
		positions:  positions,
	}, nil
}

// NewTFIDFSession builds a sparse TF-IDF session.
func NewTFIDFSession(name string, docs []model.Document) (*Session[vector.Sparse], error) {
	vocab := corpus.Build(docs)
	return NewSession[vector.Sparse](name, docs, vocab, vectorize.NewTFIDF(vocab))
}

// NewEmbeddingSession builds a dense embedding-average session.
func NewEmbeddingSession(name string, docs []model.Document, table *embeddings.Table) (*Session[vector.Dense], error) {
	if table == nil {
		return nil, internalErrors.NewValidationError("embeddings", "an embedding table is required")
	}
	vocab := corpus.Build(docs)
	return NewSession[vector.Dense](name, docs, vocab, vectorize.NewEmbeddingAverage(table, vocab))
}

// Name returns the session name.
func (s *Session[V]) Name() string { return s.name }

// Vocabulary returns the closed vocabulary of the corpus.
func (s *Session[V]) Vocabulary() *corpus.Vocabulary { return s.vocab }

// Stats describes the session.
func (s *Session[V]) Stats() model.CorpusStats {
	return model.CorpusStats{
		Name:           s.name,
		Strategy:       s.strategy.Name(),
		DocumentCount:  len(s.candidates),
		VocabularySize: s.vocab.Len(),
		Dimension:      s.strategy.Dimension(),
	}
}

// VectorizeQuery returns the vector of a query.
func (s *Session[V]) VectorizeQuery(query model.Document) V {
	return s.strategy.VectorizeQuery(query)
}

// DocumentVector returns the vector of a corpus document.
func (s *Session[V]) DocumentVector(id string) (V, bool) {
	i, ok := s.positions[id]
	if !ok {
		var zero V
		return zero, false
	}
	return s.candidates[i].Vector, true
}

// Rank streams every document with a positive score against qv, in corpus order.
func (s *Session[V]) Rank(qv V) iter.Seq[model.Hit] {
	return ranking.Rank(qv, s.candidates)
}

// SearchVector returns the topK best documents for qv. topK <= 0 returns all.
func (s *Session[V]) SearchVector(qv V, topK int) []model.Hit {
	return ranking.TopK(s.Rank(qv), topK)
}

// Search vectorizes query and returns its topK best documents.
func (s *Session[V]) Search(query model.Document, topK int) []model.Hit {
	defer s.observe("plain", time.Now())
	return s.SearchVector(s.VectorizeQuery(query), topK)
}

// Reformulate applies one Rocchio round to qv using corpus document vectors.
func (s *Session[V]) Reformulate(qv V, relevant, irrelevant []string, params feedback.Params) (V, error) {
	next, err := feedback.Reformulate(qv, s.DocumentVector, relevant, irrelevant, params)
	if err != nil {
		return qv, err
	}
	metrics.FeedbackRoundsTotal.WithLabelValues(s.strategy.Name()).Inc()
	return next, nil
}

// SearchWithFeedback reformulates the query once with the given documents and
// returns the topK best documents for the new query vector.
func (s *Session[V]) SearchWithFeedback(query model.Document, relevant, irrelevant []string, params feedback.Params, topK int) ([]model.Hit, error) {
	defer s.observe("feedback", time.Now())
	qv, err := s.Reformulate(s.VectorizeQuery(query), relevant, irrelevant, params)
	if err != nil {
		return nil, err
	}
	return s.SearchVector(qv, topK), nil
}

// SearchWithRounds runs up to rounds feedback rounds. Each round lets selector
// pick documents from the full current ranking, reformulates, and ranks again.
// The loop stops early when the selector leaves a side empty. It returns the
// final topK hits and the number of rounds applied.
func (s *Session[V]) SearchWithRounds(query model.Document, topK, rounds int, selector feedback.Selector, params feedback.Params) ([]model.Hit, int, error) {
	defer s.observe("feedback", time.Now())
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}

	qv := s.VectorizeQuery(query)
	applied := 0
	for ; applied < rounds && selector != nil; applied++ {
		relevant, irrelevant := selector.Select(query.ID, ranking.Sorted(s.Rank(qv)))
		if len(relevant) == 0 || len(irrelevant) == 0 {
			break
		}
		next, err := s.Reformulate(qv, relevant, irrelevant, params)
		if err != nil {
			return nil, applied, err
		}
		qv = next
	}
	return s.SearchVector(qv, topK), applied, nil
}

func (s *Session[V]) observe(mode string, start time.Time) {
	strategy := s.strategy.Name()
	metrics.SearchesTotal.WithLabelValues(strategy, mode).Inc()
	metrics.SearchDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
}
