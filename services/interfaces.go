package services

import (
	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/internal/pipeline"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// SearchResult is the response to a single ranking request.
type SearchResult struct {
	Hits    []model.Hit `json:"hits"`
	Total   int         `json:"total"`
	Took    int64       `json:"took"`     // milliseconds
	QueryId string      `json:"query_id"` // unique UUID for this search query
}

// Retriever ranks one fixed corpus snapshot. Implementations hide which
// vector kind they use.
type Retriever interface {
	Stats() model.CorpusStats
	Search(query model.Document, topK int) []model.Hit
	SearchWithFeedback(query model.Document, relevant, irrelevant []string, params feedback.Params, topK int) ([]model.Hit, error)
	SearchWithRounds(query model.Document, topK, rounds int, selector feedback.Selector, params feedback.Params) ([]model.Hit, int, error)
}

// IndexAccessor is a named index: a retriever plus its settings.
type IndexAccessor interface {
	Retriever
	Settings() config.IndexSettings
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings, docs []model.Document) error
	GetIndex(name string) (IndexAccessor, error)
	GetIndexSettings(name string) (config.IndexSettings, error)
	UpdateIndexSettings(name string, settings config.IndexSettings) error
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

// IndexManagerWithAsync extends IndexManager with background index builds and
// evaluation runs. Both return a job ID.
type IndexManagerWithAsync interface {
	IndexManager
	CreateIndexAsync(settings config.IndexSettings, docs []model.Document) (string, error)
	StartEvaluationRun(indexName string, queries []model.Document, judgments model.Judgments, opts pipeline.Options) (string, error)
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(indexName string, status *model.JobStatus) []*model.Job
}
