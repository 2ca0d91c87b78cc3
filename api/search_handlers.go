package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// defaultPseudoRelevant is the number of top hits treated as relevant by
// pseudo-relevance feedback when the request does not say.
const defaultPseudoRelevant = 3

// QueryRequest is a query given either as term frequencies or as free text.
type QueryRequest struct {
	QueryID string         `json:"query_id,omitempty"`
	Terms   map[string]int `json:"terms,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// SearchRequest defines the structure for ranking requests.
// top_k 0 uses the index default, a negative value is rejected.
type SearchRequest struct {
	QueryRequest
	TopK int `json:"top_k"`
}

// WeightsRequest holds optional Rocchio weights; unset ones take the index defaults.
type WeightsRequest struct {
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
}

// FeedbackRequest re-ranks a query after Rocchio reformulation. With explicit
// relevant_ids and irrelevant_ids one round is applied; otherwise rounds
// pseudo-relevance rounds use the top pseudo_relevant hits as relevant.
type FeedbackRequest struct {
	SearchRequest
	WeightsRequest
	RelevantIDs    []string `json:"relevant_ids,omitempty"`
	IrrelevantIDs  []string `json:"irrelevant_ids,omitempty"`
	Rounds         int      `json:"rounds,omitempty"`
	PseudoRelevant int      `json:"pseudo_relevant,omitempty"`
}

// FeedbackResult is a search result plus the number of rounds applied.
type FeedbackResult struct {
	services.SearchResult
	Rounds int `json:"rounds"`
}

// SearchHandler ranks the corpus of an index against one query.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()
	indexName := c.Param("indexName")

	indexAccessor, ok := api.lookupIndex(c, indexName)
	if !ok {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}
	result := ValidateQuery("query", req.QueryRequest)
	ValidateTopK(result, req.TopK)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	query := api.query(req.QueryRequest)
	hits := indexAccessor.Search(query, req.TopK)

	c.JSON(http.StatusOK, services.SearchResult{
		Hits:    nonNilHits(hits),
		Total:   len(hits),
		Took:    time.Since(startTime).Milliseconds(),
		QueryId: query.ID,
	})
}

// FeedbackHandler ranks the corpus after relevance feedback.
// Request Body: FeedbackRequest
func (api *API) FeedbackHandler(c *gin.Context) {
	startTime := time.Now()
	indexName := c.Param("indexName")

	indexAccessor, ok := api.lookupIndex(c, indexName)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}
	result := ValidateQuery("query", req.QueryRequest)
	ValidateTopK(result, req.TopK)
	ValidateWeights(result, req.WeightsRequest)
	explicit := len(req.RelevantIDs) > 0 || len(req.IrrelevantIDs) > 0
	switch {
	case explicit && (len(req.RelevantIDs) == 0 || len(req.IrrelevantIDs) == 0):
		result.AddError("relevant_ids", "Both relevant_ids and irrelevant_ids are required for explicit feedback")
	case !explicit && req.Rounds <= 0:
		result.AddError("rounds", "Provide relevant_ids and irrelevant_ids, or a positive number of rounds")
	}
	if req.PseudoRelevant < 0 {
		result.AddError("pseudo_relevant", "pseudo_relevant cannot be negative")
	}
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	query := api.query(req.QueryRequest)
	params := feedbackParams(indexAccessor.Settings().Feedback, req.WeightsRequest)

	var (
		hits   []model.Hit
		rounds int
		err    error
	)
	if explicit {
		hits, err = indexAccessor.SearchWithFeedback(query, req.RelevantIDs, req.IrrelevantIDs, params, req.TopK)
		rounds = 1
	} else {
		pseudo := req.PseudoRelevant
		if pseudo == 0 {
			pseudo = defaultPseudoRelevant
		}
		hits, rounds, err = indexAccessor.SearchWithRounds(query, req.TopK, req.Rounds, feedback.RankSplit{Relevant: pseudo}, params)
	}
	if err != nil {
		SendEngineError(c, indexName, ErrorCodeSearchFailed, "apply feedback", err)
		return
	}

	c.JSON(http.StatusOK, FeedbackResult{
		SearchResult: services.SearchResult{
			Hits:    nonNilHits(hits),
			Total:   len(hits),
			Took:    time.Since(startTime).Milliseconds(),
			QueryId: query.ID,
		},
		Rounds: rounds,
	})
}

func (api *API) lookupIndex(c *gin.Context, indexName string) (services.IndexAccessor, bool) {
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return nil, false
	}
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendEngineError(c, indexName, ErrorCodeInternalError, "get index", err)
		return nil, false
	}
	return indexAccessor, true
}

// query builds the query document, assigning a UUID when none is given.
func (api *API) query(req QueryRequest) model.Document {
	id := req.QueryID
	if id == "" {
		id = uuid.New().String()
	}
	return api.document(id, req.Terms, req.Text)
}

// feedbackParams overlays the request weights on the index defaults.
func feedbackParams(defaults config.FeedbackSettings, weights WeightsRequest) feedback.Params {
	params := feedback.Params{Alpha: defaults.Alpha, Beta: defaults.Beta, Gamma: defaults.Gamma}
	if weights.Alpha != nil {
		params.Alpha = *weights.Alpha
	}
	if weights.Beta != nil {
		params.Beta = *weights.Beta
	}
	if weights.Gamma != nil {
		params.Gamma = *weights.Gamma
	}
	return params
}

func nonNilHits(hits []model.Hit) []model.Hit {
	if hits == nil {
		return []model.Hit{}
	}
	return hits
}
