package engine

import (
	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/embeddings"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// IndexInstance holds one named index: its settings, the documents it was
// built from and the session ranking them.
// It implements the services.IndexAccessor interface.
type IndexInstance struct {
	settings  config.IndexSettings
	documents []model.Document
	retriever services.Retriever
}

// NewIndexInstance vectorizes docs according to settings. The embedding
// strategy requires table; tfidf ignores it.
func NewIndexInstance(settings config.IndexSettings, docs []model.Document, table *embeddings.Table) (*IndexInstance, error) {
	var (
		retriever services.Retriever
		err       error
	)
	switch settings.Strategy {
	case config.StrategyEmbedding:
		retriever, err = NewEmbeddingSession(settings.Name, docs, table)
	default:
		retriever, err = NewTFIDFSession(settings.Name, docs)
	}
	if err != nil {
		return nil, err
	}

	return &IndexInstance{
		settings:  settings,
		documents: docs,
		retriever: retriever,
	}, nil
}

// Settings returns the configuration settings for this index.
func (i *IndexInstance) Settings() config.IndexSettings {
	return i.settings
}

// Documents returns the corpus the index was built from.
func (i *IndexInstance) Documents() []model.Document {
	return i.documents
}

func (i *IndexInstance) Stats() model.CorpusStats {
	return i.retriever.Stats()
}

func (i *IndexInstance) Search(query model.Document, topK int) []model.Hit {
	return i.retriever.Search(query, i.topK(topK))
}

func (i *IndexInstance) SearchWithFeedback(query model.Document, relevant, irrelevant []string, params feedback.Params, topK int) ([]model.Hit, error) {
	return i.retriever.SearchWithFeedback(query, relevant, irrelevant, params, i.topK(topK))
}

func (i *IndexInstance) SearchWithRounds(query model.Document, topK, rounds int, selector feedback.Selector, params feedback.Params) ([]model.Hit, int, error) {
	return i.retriever.SearchWithRounds(query, i.topK(topK), rounds, selector, params)
}

// topK maps an unset result size to the index default.
func (i *IndexInstance) topK(topK int) int {
	if topK == 0 {
		return i.settings.DefaultTopK
	}
	return topK
}

