package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// DocumentRequest is a corpus document given either as term frequencies or
// as raw text to analyze.
type DocumentRequest struct {
	ID    string         `json:"id"`
	Terms map[string]int `json:"terms,omitempty"`
	Text  string         `json:"text,omitempty"`
}

// CreateIndexRequest carries the index settings and its whole corpus.
type CreateIndexRequest struct {
	config.IndexSettings
	Documents []DocumentRequest `json:"documents"`
}

// CreateIndexHandler handles the request to create a new index.
// Request Body: CreateIndexRequest
func (api *API) CreateIndexHandler(c *gin.Context) {
	var req CreateIndexRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result := ValidateIndexSettings(&req.IndexSettings)
	result.merge(ValidateDocuments(req.Documents))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	docs := make([]model.Document, len(req.Documents))
	for i, doc := range req.Documents {
		docs[i] = api.document(doc.ID, doc.Terms, doc.Text)
	}
	settings := req.IndexSettings

	if asyncEngine, ok := api.engine.(services.IndexManagerWithAsync); ok {
		jobID, err := asyncEngine.CreateIndexAsync(settings, docs)
		if err != nil {
			SendEngineError(c, settings.Name, ErrorCodeIndexingFailed, "create index", err)
			return
		}
		logger.FromContext(c.Request.Context()).Info("Index build accepted",
			zap.String("index", settings.Name),
			zap.String("job_id", jobID),
			zap.Int("documents", len(docs)),
		)
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": "Index creation started for '" + settings.Name + "'",
			"job_id":  jobID,
		})
		return
	}

	if err := api.engine.CreateIndex(settings, docs); err != nil {
		SendEngineError(c, settings.Name, ErrorCodeIndexingFailed, "create index", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
}

// ListIndexesHandler lists all available indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler returns the settings and corpus statistics of an index.
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, indexName, ErrorCodeInternalError, "get index", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": indexAccessor.Settings(),
		"stats":    indexAccessor.Stats(),
	})
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if err := api.engine.DeleteIndex(indexName); err != nil {
		SendEngineError(c, indexName, ErrorCodeIndexingFailed, "delete index", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}

// UpdateIndexSettingsHandler replaces the settings of an index. Changing the
// strategy or embedding table vectorizes the corpus again.
// Request Body: config.IndexSettings
func (api *API) UpdateIndexSettingsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	var settings config.IndexSettings
	if result := ValidateJSONBinding(c, &settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.UpdateIndexSettings(indexName, settings); err != nil {
		SendEngineError(c, indexName, ErrorCodeIndexingFailed, "update settings", err)
		return
	}

	updated, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		SendEngineError(c, indexName, ErrorCodeInternalError, "get settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings for index '" + indexName + "' updated",
		"settings": updated,
	})
}

// document turns request terms or text into a term-frequency document.
func (api *API) document(id string, terms map[string]int, text string) model.Document {
	if text != "" {
		return api.analyzer.Document(id, text)
	}
	return model.Document{ID: id, Frequencies: terms}
}
