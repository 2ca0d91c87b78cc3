package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/embeddings"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/jobs"
	"github.com/gcbaptista/go-retrieval-engine/internal/loader"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// Engine manages multiple retrieval indexes.
// It implements the services.IndexManagerWithAsync interface.
type Engine struct {
	mu         sync.RWMutex
	indexes    map[string]*IndexInstance
	dataDir    string // empty keeps every index in memory only
	jobManager *jobs.Manager
	logger     *zap.Logger

	tablesMu sync.Mutex
	tables   map[string]*embeddings.Table // keyed by embeddings path
}

// NewEngine creates an engine persisting under dataDir and loads the indexes
// already stored there. jobWorkers bounds concurrent background jobs.
func NewEngine(dataDir string, log *zap.Logger, jobWorkers int) *Engine {
	log = logger.OrNop(log).Named("engine")
	eng := &Engine{
		indexes:    make(map[string]*IndexInstance),
		dataDir:    dataDir,
		jobManager: jobs.NewManager(jobWorkers, log),
		logger:     log,
		tables:     make(map[string]*embeddings.Table),
	}
	eng.loadIndexesFromDisk()
	eng.jobManager.Start()
	return eng
}

// Close stops the job manager, cancelling running jobs.
func (e *Engine) Close() {
	e.jobManager.Stop()
}

// CreateIndex builds a new index from docs and persists it.
func (e *Engine) CreateIndex(settings config.IndexSettings, docs []model.Document) error {
	instance, err := e.buildInstance(settings, docs)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registerUnsafe(instance)
}

// buildInstance validates settings and vectorizes docs. It takes no engine
// lock, so large corpora do not block readers.
func (e *Engine) buildInstance(settings config.IndexSettings, docs []model.Document) (*IndexInstance, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	e.mu.RLock()
	_, exists := e.indexes[settings.Name]
	e.mu.RUnlock()
	if exists {
		return nil, internalErrors.NewIndexAlreadyExistsError(settings.Name)
	}

	table, err := e.embeddingTable(settings)
	if err != nil {
		return nil, err
	}
	instance, err := NewIndexInstance(settings, docs, table)
	if err != nil {
		return nil, fmt.Errorf("failed to build index '%s': %w", settings.Name, err)
	}
	return instance, nil
}

// registerUnsafe persists instance and adds it to the engine.
// The caller must hold the write lock.
func (e *Engine) registerUnsafe(instance *IndexInstance) error {
	name := instance.settings.Name
	if _, exists := e.indexes[name]; exists {
		return internalErrors.NewIndexAlreadyExistsError(name)
	}
	if err := e.persistIndexUnsafe(instance); err != nil {
		return fmt.Errorf("failed to persist new index '%s': %w", name, err)
	}

	e.indexes[name] = instance
	metrics.IndexesLoaded.Set(float64(len(e.indexes)))
	stats := instance.Stats()
	e.logger.Info("Index created",
		zap.String("index", name),
		zap.String("strategy", stats.Strategy),
		zap.Int("documents", stats.DocumentCount),
		zap.Int("vocabulary", stats.VocabularySize),
	)
	return nil
}

// embeddingTable returns the table an embedding index needs, reading each
// file once.
func (e *Engine) embeddingTable(settings config.IndexSettings) (*embeddings.Table, error) {
	if settings.Strategy != config.StrategyEmbedding {
		return nil, nil
	}

	e.tablesMu.Lock()
	defer e.tablesMu.Unlock()

	if table, ok := e.tables[settings.EmbeddingsPath]; ok {
		return table, nil
	}
	table, err := loader.LoadEmbeddings(settings.EmbeddingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings for index '%s': %w", settings.Name, err)
	}
	e.tables[settings.EmbeddingsPath] = table
	e.logger.Info("Embedding table loaded",
		zap.String("path", settings.EmbeddingsPath),
		zap.Int("terms", table.Len()),
		zap.Int("dimension", table.Dimension()),
	)
	return table, nil
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, internalErrors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings retrieves the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, internalErrors.NewIndexNotFoundError(name)
	}
	return instance.settings, nil
}

// DeleteIndex removes an index by its name from memory and disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return internalErrors.NewIndexNotFoundError(name)
	}
	delete(e.indexes, name)
	metrics.IndexesLoaded.Set(float64(len(e.indexes)))

	if e.dataDir != "" {
		indexPath := filepath.Join(e.dataDir, name)
		if err := os.RemoveAll(indexPath); err != nil {
			return fmt.Errorf("failed to delete index data directory %s: %w", indexPath, err)
		}
	}
	e.logger.Info("Index deleted", zap.String("index", name))
	return nil
}

// ListIndexes returns the names of all loaded indexes, sorted.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetJob returns a copy of a background job.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns jobs, optionally filtered by index and status.
func (e *Engine) ListJobs(indexName string, status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(indexName, status)
}

// GetJobMetrics returns a snapshot of the job metrics.
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}

// GetJobSuccessRate returns the share of finished jobs that completed.
func (e *Engine) GetJobSuccessRate() float64 {
	return e.jobManager.GetJobSuccessRate()
}

// GetCurrentWorkload returns the number of pending or running jobs.
func (e *Engine) GetCurrentWorkload() int64 {
	return e.jobManager.GetCurrentWorkload()
}
