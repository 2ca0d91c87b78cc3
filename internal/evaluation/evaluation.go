// Package evaluation measures a ranked list against relevance judgments.
package evaluation

import (
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// Evaluate computes precision, recall, F-measure and average precision of
// retrieved (in rank order) against the relevant documents. Repeated IDs in
// retrieved count once, at their first position.
//
// An empty retrieved list returns an EmptyRetrievedError and an empty
// relevant list a ValidationError; both match ErrInvalidInput.
func Evaluate(relevant, retrieved []string) (model.Metrics, error) {
	if len(relevant) == 0 {
		return model.Metrics{}, internalErrors.NewValidationError("relevant_ids", "must contain at least one document id")
	}
	ranked := dedupe(retrieved)
	if len(ranked) == 0 {
		return model.Metrics{}, internalErrors.NewEmptyRetrievedError()
	}

	truth := toSet(relevant)
	hits := 0
	for _, id := range ranked {
		if _, ok := truth[id]; ok {
			hits++
		}
	}

	m := model.Metrics{
		Precision:        float64(hits) / float64(len(ranked)),
		Recall:           float64(hits) / float64(len(truth)),
		AveragePrecision: averagePrecision(truth, ranked),
	}
	m.FMeasure = FMeasure(m.Precision, m.Recall)
	return m, nil
}

// FMeasure is the harmonic mean of precision and recall, 0 when both are 0.
func FMeasure(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// AveragePrecision averages the precision at every rank holding a relevant
// document. It is 0 when no relevant document was retrieved.
func AveragePrecision(relevant map[string]struct{}, retrieved []string) float64 {
	return averagePrecision(relevant, dedupe(retrieved))
}

func averagePrecision(relevant map[string]struct{}, ranked []string) float64 {
	hits := 0
	sum := 0.0
	for i, id := range ranked {
		if _, ok := relevant[id]; ok {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	if hits == 0 {
		return 0
	}
	return sum / float64(hits)
}

// PrecisionAt returns the fraction of the first k retrieved documents that are
// relevant. A list shorter than k is treated as padded with irrelevant documents.
func PrecisionAt(relevant map[string]struct{}, retrieved []string, k int) float64 {
	if k <= 0 {
		return 0
	}
	ranked := dedupe(retrieved)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	hits := 0
	for _, id := range ranked {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// Summarize macro-averages per-query metrics. MeanAveragePrecision is the MAP
// of the run.
func Summarize(metrics []model.Metrics) model.Summary {
	s := model.Summary{Queries: len(metrics), EvaluatedQueries: len(metrics)}
	if len(metrics) == 0 {
		return s
	}
	for _, m := range metrics {
		s.MeanPrecision += m.Precision
		s.MeanRecall += m.Recall
		s.MeanFMeasure += m.FMeasure
		s.MeanAveragePrecision += m.AveragePrecision
		s.MeanPrecisionAtK += m.PrecisionAtK
	}
	n := float64(len(metrics))
	s.MeanPrecision /= n
	s.MeanRecall /= n
	s.MeanFMeasure /= n
	s.MeanAveragePrecision /= n
	s.MeanPrecisionAtK /= n
	return s
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
