// Package pipeline runs batches of queries through a retriever, applies
// feedback rounds and evaluates the results against relevance judgments.
package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-retrieval-engine/internal/evaluation"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// Retriever is the part of a retrieval session a run needs.
type Retriever interface {
	Stats() model.CorpusStats
	Search(query model.Document, topK int) []model.Hit
	SearchWithRounds(query model.Document, topK, rounds int, selector feedback.Selector, params feedback.Params) ([]model.Hit, int, error)
}

// FeedbackOptions configures feedback rounds. A nil Selector uses the top
// three hits of each ranking as relevant. Params are used as given, including
// all-zero weights.
type FeedbackOptions struct {
	Enabled  bool
	Rounds   int
	Selector feedback.Selector
	Params   feedback.Params
}

// Options configures a run.
type Options struct {
	TopK     int
	Workers  int
	Feedback FeedbackOptions
}

// DefaultOptions returns ten hits per query, four workers and no feedback.
func DefaultOptions() Options {
	return Options{
		TopK:    10,
		Workers: 4,
		Feedback: FeedbackOptions{
			Rounds: 1,
			Params: feedback.DefaultParams(),
		},
	}
}

// ProgressFunc is called after each finished query.
type ProgressFunc func(done, total int)

// Runner executes batch runs against one retriever.
type Runner struct {
	retriever Retriever
	opts      Options
	logger    *zap.Logger
	progress  ProgressFunc
}

// NewRunner creates a runner. Zero TopK, Workers and Rounds and a nil
// Selector take the defaults.
func NewRunner(retriever Retriever, opts Options, log *zap.Logger) *Runner {
	defaults := DefaultOptions()
	if opts.TopK <= 0 {
		opts.TopK = defaults.TopK
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.Feedback.Enabled {
		if opts.Feedback.Rounds <= 0 {
			opts.Feedback.Rounds = defaults.Feedback.Rounds
		}
		if opts.Feedback.Selector == nil {
			opts.Feedback.Selector = feedback.RankSplit{Relevant: 3}
		}
	}
	return &Runner{retriever: retriever, opts: opts, logger: logger.OrNop(log)}
}

// WithProgress sets the progress callback.
func (r *Runner) WithProgress(fn ProgressFunc) *Runner {
	r.progress = fn
	return r
}

// Options returns the effective options of the runner.
func (r *Runner) Options() Options { return r.opts }

// Run processes every query, at most Workers at a time. Results keep the
// order of queries. Queries with judgments are evaluated; a query that
// retrieves nothing is reported with zero metrics and Evaluated false.
func (r *Runner) Run(ctx context.Context, queries []model.Document, judgments model.Judgments) (*model.RunReport, error) {
	if r.opts.Feedback.Enabled {
		if err := r.opts.Feedback.Params.Validate(); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	stats := r.retriever.Stats()
	report := &model.RunReport{
		RunID:    uuid.New().String(),
		Index:    stats.Name,
		Strategy: stats.Strategy,
		TopK:     r.opts.TopK,
		Results:  make([]model.QueryResult, len(queries)),
	}
	log := r.logger.With(zap.String("run_id", report.RunID), zap.String("index", stats.Name))
	log.Info("Run started", zap.Int("queries", len(queries)), zap.Bool("feedback", r.opts.Feedback.Enabled))

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, query := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := r.runQuery(query, judgments)
			if err != nil {
				return err
			}
			report.Results[i] = result
			if r.progress != nil {
				r.progress(int(done.Add(1)), len(queries))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("Run aborted", zap.Error(err))
		return nil, err
	}

	evaluated := make([]model.Metrics, 0, len(queries))
	for _, result := range report.Results {
		if result.Evaluated {
			evaluated = append(evaluated, result.Metrics)
		}
	}
	report.Summary = evaluation.Summarize(evaluated)
	report.Summary.Queries = len(queries)
	report.TookMs = time.Since(start).Milliseconds()

	log.Info("Run finished",
		zap.Int("evaluated", report.Summary.EvaluatedQueries),
		zap.Float64("map", report.Summary.MeanAveragePrecision),
		zap.Int64("took_ms", report.TookMs),
	)
	return report, nil
}

func (r *Runner) runQuery(query model.Document, judgments model.Judgments) (model.QueryResult, error) {
	result := model.QueryResult{QueryID: query.ID}

	if r.opts.Feedback.Enabled {
		hits, rounds, err := r.retriever.SearchWithRounds(query, r.opts.TopK, r.opts.Feedback.Rounds, r.opts.Feedback.Selector, r.opts.Feedback.Params)
		if err != nil {
			return result, err
		}
		result.Hits, result.FeedbackRounds = hits, rounds
	} else {
		result.Hits = r.retriever.Search(query, r.opts.TopK)
	}

	relevant := judgments[query.ID]
	if len(relevant) == 0 {
		return result, nil
	}

	m, err := evaluation.Evaluate(relevant, model.HitIDs(result.Hits))
	switch {
	case errors.Is(err, internalErrors.ErrEmptyRetrieved):
		metrics.EvaluationsTotal.WithLabelValues("empty").Inc()
		r.logger.Debug("Query retrieved nothing", zap.String("query_id", query.ID))
		return result, nil
	case err != nil:
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		return result, err
	}
	metrics.EvaluationsTotal.WithLabelValues("ok").Inc()
	m.PrecisionAtK = evaluation.PrecisionAt(judgments.RelevantSet(query.ID), model.HitIDs(result.Hits), r.opts.TopK)
	result.Metrics = m
	result.Evaluated = true
	return result, nil
}
