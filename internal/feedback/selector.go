package feedback

import "github.com/gcbaptista/go-retrieval-engine/model"

// Selector picks the relevant and irrelevant documents of a feedback round
// from the current ranking. An empty side means the round is skipped.
type Selector interface {
	Select(queryID string, ranking []model.Hit) (relevant, irrelevant []string)
}

// RankSplit treats the first Relevant hits of the ranking as relevant and
// the remaining hits as irrelevant.
type RankSplit struct {
	Relevant int
}

func (s RankSplit) Select(_ string, ranking []model.Hit) ([]string, []string) {
	n := s.Relevant
	if n < 0 {
		n = 0
	}
	if n > len(ranking) {
		n = len(ranking)
	}
	ids := model.HitIDs(ranking)
	return ids[:n], ids[n:]
}

// Judged uses ground truth: retrieved documents judged relevant for the
// query are relevant, every other retrieved document is irrelevant.
type Judged struct {
	Judgments model.Judgments
}

func (s Judged) Select(queryID string, ranking []model.Hit) ([]string, []string) {
	truth := s.Judgments.RelevantSet(queryID)
	var relevant, irrelevant []string
	for _, hit := range ranking {
		if _, ok := truth[hit.DocumentID]; ok {
			relevant = append(relevant, hit.DocumentID)
		} else {
			irrelevant = append(irrelevant, hit.DocumentID)
		}
	}
	return relevant, irrelevant
}
