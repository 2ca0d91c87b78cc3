package model

// Hit is a single ranked document with its similarity score.
type Hit struct {
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
}

// CompareHits orders hits by descending score, breaking ties by ascending document ID.
func CompareHits(a, b Hit) int {
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	}
	return CompareIDs(a.DocumentID, b.DocumentID)
}

// HitIDs returns the document IDs of the hits, preserving rank order.
func HitIDs(hits []Hit) []string {
	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.DocumentID
	}
	return ids
}

// Metrics holds the per-query evaluation of a ranked list.
type Metrics struct {
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	FMeasure         float64 `json:"f_measure"`
	AveragePrecision float64 `json:"average_precision"`
	// PrecisionAtK is precision over the run's top-K cut, counting missing
	// ranks as irrelevant. Only batch runs fill it.
	PrecisionAtK float64 `json:"precision_at_k"`
}

// Summary aggregates metrics across the evaluated queries of a run.
type Summary struct {
	Queries              int     `json:"queries"`
	EvaluatedQueries     int     `json:"evaluated_queries"`
	MeanPrecision        float64 `json:"mean_precision"`
	MeanRecall           float64 `json:"mean_recall"`
	MeanFMeasure         float64 `json:"mean_f_measure"`
	MeanAveragePrecision float64 `json:"mean_average_precision"`
	MeanPrecisionAtK     float64 `json:"mean_precision_at_k"`
}

// Judgments maps a query ID to the IDs of the documents judged relevant for it.
type Judgments map[string][]string

// RelevantSet returns the judged relevant documents of a query as a set.
func (j Judgments) RelevantSet(queryID string) map[string]struct{} {
	ids, ok := j[queryID]
	if !ok {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// CorpusStats describes a built corpus session.
type CorpusStats struct {
	Name           string `json:"name"`
	Strategy       string `json:"strategy"`
	DocumentCount  int    `json:"document_count"`
	VocabularySize int    `json:"vocabulary_size"`
	Dimension      int    `json:"dimension"`
}

// QueryResult is the outcome of processing one query in a batch run.
type QueryResult struct {
	QueryID        string  `json:"query_id"`
	Hits           []Hit   `json:"hits"`
	FeedbackRounds int     `json:"feedback_rounds"`
	Evaluated      bool    `json:"evaluated"`
	Metrics        Metrics `json:"metrics"`
}

// RunReport is the full outcome of a batch run.
type RunReport struct {
	RunID    string        `json:"run_id"`
	Index    string        `json:"index"`
	Strategy string        `json:"strategy"`
	TopK     int           `json:"top_k"`
	Results  []QueryResult `json:"results"`
	Summary  Summary       `json:"summary"`
	TookMs   int64         `json:"took_ms"`
}
