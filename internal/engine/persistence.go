package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/config"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/internal/persistence"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

const (
	dataDirPerm   = 0755
	settingsFile  = "settings.gob"
	documentsFile = "documents.gob"
)

// loadIndexesFromDisk loads all indexes from the data directory. Vectors are
// not stored; each index is vectorized again from its documents.
func (e *Engine) loadIndexesFromDisk() {
	if e.dataDir == "" {
		e.logger.Info("No data directory configured, indexes are kept in memory only")
		return
	}
	log := e.logger.With(zap.String("data_dir", e.dataDir))

	if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
		log.Warn("Could not create data directory, new indexes may fail to persist", zap.Error(err))
	}

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		log.Warn("Failed to read data directory, no indexes loaded", zap.Error(err))
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		instance, err := e.loadIndex(indexName)
		if err != nil {
			log.Warn("Skipping index", zap.String("index", indexName), zap.Error(err))
			continue
		}
		e.indexes[indexName] = instance
		log.Info("Index loaded", zap.String("index", indexName), zap.Int("documents", len(instance.documents)))
	}
	metrics.IndexesLoaded.Set(float64(len(e.indexes)))
}

func (e *Engine) loadIndex(indexName string) (*IndexInstance, error) {
	indexPath := filepath.Join(e.dataDir, indexName)

	var settings config.IndexSettings
	if err := persistence.LoadGob(filepath.Join(indexPath, settingsFile), &settings); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	// Settings name must match the directory name
	if settings.Name != indexName {
		return nil, fmt.Errorf("settings name '%s' does not match directory name", settings.Name)
	}

	var docs []model.Document
	err := persistence.LoadGob(filepath.Join(indexPath, documentsFile), &docs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		e.logger.Info("Documents file not found, loading empty corpus", zap.String("index", indexName))
	case err != nil:
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	table, err := e.embeddingTable(settings)
	if err != nil {
		return nil, err
	}
	return NewIndexInstance(settings, docs, table)
}

// PersistIndexData persists the data for a specific index to disk.
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[indexName]
	if !exists {
		return internalErrors.NewIndexNotFoundError(indexName)
	}
	return e.persistIndexUnsafe(instance)
}

// persistIndexUnsafe writes settings and documents of an index.
// This method assumes the caller has appropriate locking.
func (e *Engine) persistIndexUnsafe(instance *IndexInstance) error {
	if e.dataDir == "" {
		return nil
	}
	if err := e.persistSettingsUnsafe(instance.settings); err != nil {
		return err
	}
	name := instance.settings.Name
	path := filepath.Join(e.dataDir, name, documentsFile)
	if err := persistence.SaveGob(path, instance.documents); err != nil {
		return fmt.Errorf("failed to save documents for index %s: %w", name, err)
	}
	return nil
}

func (e *Engine) persistSettingsUnsafe(settings config.IndexSettings) error {
	if e.dataDir == "" {
		return nil
	}
	indexPath := filepath.Join(e.dataDir, settings.Name)
	if err := os.MkdirAll(indexPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for index %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, settingsFile), settings); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", settings.Name, err)
	}
	return nil
}
