package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/internal/evaluation"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/pipeline"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// EvaluateRequest scores a ranked list against the relevant documents.
type EvaluateRequest struct {
	RelevantIDs  []string `json:"relevant_ids"`
	RetrievedIDs []string `json:"retrieved_ids"`
}

// RunFeedbackRequest enables feedback rounds in a run. Without
// use_judgments, the top relevant hits of each round count as relevant.
type RunFeedbackRequest struct {
	WeightsRequest
	Rounds       int  `json:"rounds"`
	Relevant     int  `json:"relevant"`
	UseJudgments bool `json:"use_judgments"`
}

// RunRequest submits a query batch for ranking and evaluation.
type RunRequest struct {
	Queries   []QueryRequest      `json:"queries"`
	Judgments model.Judgments     `json:"judgments"`
	TopK      int                 `json:"top_k"`
	Workers   int                 `json:"workers"`
	Feedback  *RunFeedbackRequest `json:"feedback,omitempty"`
}

// EvaluateHandler computes precision, recall, F-measure and average
// precision of a ranked list.
// Request Body: EvaluateRequest
func (api *API) EvaluateHandler(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	m, err := evaluation.Evaluate(req.RelevantIDs, req.RetrievedIDs)
	if err != nil {
		SendEngineError(c, "", ErrorCodeInternalError, "evaluate", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// StartRunHandler starts a background evaluation run over an index and
// returns the job tracking it.
// Request Body: RunRequest
func (api *API) StartRunHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	asyncEngine, ok := api.engine.(services.IndexManagerWithAsync)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotImplemented, "Evaluation runs are not supported by this engine")
		return
	}
	indexAccessor, ok := api.lookupIndex(c, indexName)
	if !ok {
		return
	}

	var req RunRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	result := validateRunRequest(req)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	queries := make([]model.Document, len(req.Queries))
	for i, q := range req.Queries {
		queries[i] = api.document(q.QueryID, q.Terms, q.Text)
	}

	opts := pipeline.Options{TopK: req.TopK, Workers: req.Workers}
	if fb := req.Feedback; fb != nil {
		opts.Feedback = pipeline.FeedbackOptions{
			Enabled: true,
			Rounds:  fb.Rounds,
			Params:  feedbackParams(indexAccessor.Settings().Feedback, fb.WeightsRequest),
		}
		switch {
		case fb.UseJudgments:
			opts.Feedback.Selector = feedback.Judged{Judgments: req.Judgments}
		case fb.Relevant > 0:
			opts.Feedback.Selector = feedback.RankSplit{Relevant: fb.Relevant}
		}
	}

	jobID, err := asyncEngine.StartEvaluationRun(indexName, queries, req.Judgments, opts)
	if err != nil {
		SendEngineError(c, indexName, ErrorCodeJobExecutionFailed, "start evaluation run", err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("Evaluation run accepted",
		zap.String("index", indexName),
		zap.String("job_id", jobID),
		zap.Int("queries", len(queries)),
	)
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Evaluation run started on index '" + indexName + "'",
		"job_id":  jobID,
	})
}

func validateRunRequest(req RunRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(req.Queries) == 0 {
		result.AddError("queries", "At least one query is required")
	}
	seen := make(map[string]struct{}, len(req.Queries))
	for i, q := range req.Queries {
		field := fmt.Sprintf("queries[%d]", i)
		if strings.TrimSpace(q.QueryID) == "" {
			result.AddError(field+".query_id", "Query ID is required in a run")
			continue
		}
		if _, dup := seen[q.QueryID]; dup {
			result.AddError(field+".query_id", "Duplicate query ID '"+q.QueryID+"'")
			continue
		}
		seen[q.QueryID] = struct{}{}
		result.merge(ValidateQuery(field, q))
	}

	ValidateTopK(result, req.TopK)
	if req.Workers < 0 {
		result.AddError("workers", "workers cannot be negative")
	}
	if fb := req.Feedback; fb != nil {
		ValidateWeights(result, fb.WeightsRequest)
		if fb.Rounds < 0 {
			result.AddError("feedback.rounds", "rounds cannot be negative")
		}
		if fb.Relevant < 0 {
			result.AddError("feedback.relevant", "relevant cannot be negative")
		}
		if fb.UseJudgments && len(req.Judgments) == 0 {
			result.AddError("feedback.use_judgments", "Judgments are required to select feedback documents")
		}
	}

	return result
}
