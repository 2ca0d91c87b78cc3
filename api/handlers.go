package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/internal/tokenizer"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// API holds dependencies for API handlers, primarily the index manager.
type API struct {
	engine   services.IndexManager
	analyzer tokenizer.Analyzer
	logger   *zap.Logger
}

// NewAPI creates a new API handler structure. Free-text queries are analyzed
// with analyzer; use tokenizer.Analyzer{} for no stopword removal.
func NewAPI(engine services.IndexManager, analyzer tokenizer.Analyzer, log *zap.Logger) *API {
	return &API{
		engine:   engine,
		analyzer: analyzer,
		logger:   logger.OrNop(log).Named("api"),
	}
}

// SetupRoutes defines all the API routes for the retrieval engine.
func SetupRoutes(router *gin.Engine, engine services.IndexManager, analyzer tokenizer.Analyzer, log *zap.Logger) {
	apiHandler := NewAPI(engine, analyzer, log)

	metrics.Register()

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stateless evaluation of a ranked list
	router.POST("/evaluate", apiHandler.EvaluateHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
	}

	// Index management routes
	indexRoutes := router.Group("/indexes")
	{
		indexRoutes.POST("", apiHandler.CreateIndexHandler)                              // Create a new index from a corpus
		indexRoutes.GET("", apiHandler.ListIndexesHandler)                               // List all indexes
		indexRoutes.GET("/:indexName", apiHandler.GetIndexHandler)                       // Get settings and corpus statistics
		indexRoutes.DELETE("/:indexName", apiHandler.DeleteIndexHandler)                 // Delete an index
		indexRoutes.PATCH("/:indexName/settings", apiHandler.UpdateIndexSettingsHandler) // Update index settings
		indexRoutes.GET("/:indexName/jobs", apiHandler.ListJobsHandler)                  // List jobs for an index

		indexRoutes.POST("/:indexName/_search", apiHandler.SearchHandler)
		indexRoutes.POST("/:indexName/_feedback", apiHandler.FeedbackHandler)
		indexRoutes.POST("/:indexName/_runs", apiHandler.StartRunHandler)
	}
}

// HealthCheckHandler reports liveness and the number of loaded indexes.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"indexes": len(api.engine.ListIndexes()),
	})
}
