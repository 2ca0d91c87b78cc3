package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/config"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
)

// UpdateIndexSettings replaces the settings of an index. A changed strategy
// or embedding table vectorizes the stored corpus again; other changes only
// affect later requests.
func (e *Engine) UpdateIndexSettings(name string, newSettings config.IndexSettings) error {
	if newSettings.Name != "" && newSettings.Name != name {
		return internalErrors.NewValidationError("name", fmt.Sprintf("cannot change index name from '%s' to '%s'", name, newSettings.Name))
	}
	newSettings.Name = name
	newSettings.ApplyDefaults()
	if problems := newSettings.Validate(); len(problems) > 0 {
		return internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	e.mu.RLock()
	instance, exists := e.indexes[name]
	e.mu.RUnlock()
	if !exists {
		return internalErrors.NewIndexNotFoundError(name)
	}

	// Rebuilding may read a large embedding table; readers keep the old
	// instance until the swap below.
	updated := &IndexInstance{
		settings:  newSettings,
		documents: instance.documents,
		retriever: instance.retriever,
	}
	revectorize := requiresRevectorizing(instance.settings, newSettings)
	if revectorize {
		table, err := e.embeddingTable(newSettings)
		if err != nil {
			return err
		}
		updated, err = NewIndexInstance(newSettings, instance.documents, table)
		if err != nil {
			return fmt.Errorf("failed to rebuild index '%s': %w", name, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, exists := e.indexes[name]
	if !exists {
		return internalErrors.NewIndexNotFoundError(name)
	}
	if current != instance {
		return fmt.Errorf("%w: index '%s' changed during the settings update, retry", errConcurrentUpdate, name)
	}

	if err := e.persistSettingsUnsafe(newSettings); err != nil {
		return err
	}
	e.indexes[name] = updated
	e.logger.Info("Index settings updated", zap.String("index", name), zap.Bool("revectorized", revectorize))
	return nil
}

var errConcurrentUpdate = errors.New("concurrent index update")

// requiresRevectorizing reports whether document vectors depend on a changed setting.
func requiresRevectorizing(oldSettings, newSettings config.IndexSettings) bool {
	return oldSettings.Strategy != newSettings.Strategy ||
		oldSettings.EmbeddingsPath != newSettings.EmbeddingsPath
}
