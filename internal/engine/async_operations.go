package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-retrieval-engine/config"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/pipeline"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// CreateIndexAsync builds a new index in the background and returns the job ID.
// Settings are validated before the job is submitted.
func (e *Engine) CreateIndexAsync(settings config.IndexSettings, docs []model.Document) (string, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return "", internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	e.mu.RLock()
	_, exists := e.indexes[settings.Name]
	e.mu.RUnlock()
	if exists {
		return "", internalErrors.NewIndexAlreadyExistsError(settings.Name)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeBuildIndex, settings.Name, map[string]string{
		"operation": "build_index",
		"strategy":  settings.Strategy,
		"documents": strconv.Itoa(len(docs)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job model.Job) error {
		return e.executeBuildIndexJob(ctx, settings, docs, job.ID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start build index job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeBuildIndexJob(ctx context.Context, settings config.IndexSettings, docs []model.Document, jobID string) error {
	e.jobManager.UpdateJobProgress(jobID, 0, len(docs), "Vectorizing documents")

	instance, err := e.buildInstance(settings, docs)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.registerUnsafe(instance); err != nil {
		return err
	}

	e.jobManager.UpdateJobProgress(jobID, len(docs), len(docs), "Index built")
	return nil
}

// StartEvaluationRun ranks and evaluates a query batch against an index in
// the background. The finished job carries the run report.
func (e *Engine) StartEvaluationRun(indexName string, queries []model.Document, judgments model.Judgments, opts pipeline.Options) (string, error) {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()
	if !exists {
		return "", internalErrors.NewIndexNotFoundError(indexName)
	}
	if len(queries) == 0 {
		return "", internalErrors.NewValidationError("queries", "at least one query is required")
	}

	if opts.TopK == 0 {
		opts.TopK = instance.settings.DefaultTopK
	}
	runner := pipeline.NewRunner(instance, opts, e.logger)
	effective := runner.Options()

	jobID := e.jobManager.CreateJob(model.JobTypeEvaluationRun, indexName, map[string]string{
		"operation": "evaluation_run",
		"queries":   strconv.Itoa(len(queries)),
		"top_k":     strconv.Itoa(effective.TopK),
		"feedback":  strconv.FormatBool(effective.Feedback.Enabled),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job model.Job) error {
		return e.executeEvaluationRunJob(ctx, runner, queries, judgments, job.ID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start evaluation run job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeEvaluationRunJob(ctx context.Context, runner *pipeline.Runner, queries []model.Document, judgments model.Judgments, jobID string) error {
	e.jobManager.UpdateJobProgress(jobID, 0, len(queries), "Running queries")

	report, err := runner.WithProgress(func(done, total int) {
		e.jobManager.UpdateJobProgress(jobID, done, total, "Running queries")
	}).Run(ctx, queries, judgments)
	if err != nil {
		return err
	}

	e.jobManager.SetJobReport(jobID, report)
	e.logger.Info("Evaluation run completed",
		zap.String("job_id", jobID),
		zap.String("run_id", report.RunID),
		zap.Float64("map", report.Summary.MeanAveragePrecision),
	)
	return nil
}
