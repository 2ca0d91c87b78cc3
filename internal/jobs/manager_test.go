package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

func waitForStatus(t *testing.T, manager *Manager, jobID string, status model.JobStatus) *model.Job {
	t.Helper()
	var job *model.Job
	require.Eventually(t, func() bool {
		var err error
		job, err = manager.GetJob(jobID)
		return err == nil && job.Status == status
	}, time.Second, 5*time.Millisecond)
	return job
}

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeEvaluationRun, "time", map[string]string{
		"operation": "test",
	})
	require.NotEmpty(t, jobID)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeEvaluationRun, job.Type)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, "time", job.IndexName)
	assert.Equal(t, "test", job.Metadata["operation"])
}

func TestJobManager_GetJobNotFound(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	_, err := manager.GetJob("missing")
	assert.ErrorIs(t, err, internalErrors.ErrJobNotFound)
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := NewManager(2, nil)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeEvaluationRun, "time", nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job model.Job) error {
		manager.UpdateJobProgress(job.ID, 50, 100, "Halfway done")
		manager.UpdateJobProgress(job.ID, 100, 100, "Completed")
		manager.SetJobReport(job.ID, &model.RunReport{RunID: "run-1", Index: job.IndexName})
		return nil
	})
	require.NoError(t, err)

	job := waitForStatus(t, manager, jobID, model.JobStatusCompleted)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 100, job.Progress.Current)
	assert.Equal(t, 100.0, job.Progress.GetProgressPercentage())
	require.NotNil(t, job.Report)
	assert.Equal(t, "run-1", job.Report.RunID)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)

	err = manager.ExecuteJob(jobID, func(context.Context, model.Job) error { return nil })
	assert.Error(t, err, "a finished job cannot run again")
}

func TestJobManager_FailedJob(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeBuildIndex, "time", nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, model.Job) error {
		return errors.New("embedding table unreadable")
	}))

	job := waitForStatus(t, manager, jobID, model.JobStatusFailed)
	assert.Equal(t, "embedding table unreadable", job.Error)

	metrics := manager.GetMetrics()
	assert.Equal(t, int64(1), metrics.JobsCreated)
	assert.Equal(t, int64(1), metrics.JobsFailed)
	assert.Equal(t, 0.0, manager.GetJobSuccessRate())
	assert.Equal(t, int64(0), manager.GetCurrentWorkload())
}

func TestJobManager_StopCancelsRunningJobs(t *testing.T) {
	manager := NewManager(1, nil)

	started := make(chan struct{})
	jobID := manager.CreateJob(model.JobTypeEvaluationRun, "time", nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(ctx context.Context, _ model.Job) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	<-started
	manager.Stop()

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCancelled, job.Status)
}

func TestJobManager_ListJobs(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	first := manager.CreateJob(model.JobTypeEvaluationRun, "time", nil)
	manager.CreateJob(model.JobTypeEvaluationRun, "cranfield", nil)
	manager.CreateJob(model.JobTypeBuildIndex, "time", nil)

	assert.Len(t, manager.ListJobs("time", nil), 2)
	assert.Len(t, manager.ListJobs("", nil), 3)

	require.NoError(t, manager.ExecuteJob(first, func(context.Context, model.Job) error { return nil }))
	waitForStatus(t, manager, first, model.JobStatusCompleted)

	completed := model.JobStatusCompleted
	jobs := manager.ListJobs("time", &completed)
	require.Len(t, jobs, 1)
	assert.Equal(t, first, jobs[0].ID)
}

func TestJobManager_CleanupOldJobs(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeEvaluationRun, "time", nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, model.Job) error { return nil }))
	waitForStatus(t, manager, jobID, model.JobStatusCompleted)

	manager.CleanupOldJobs(time.Hour)
	_, err := manager.GetJob(jobID)
	assert.NoError(t, err)

	manager.CleanupOldJobs(-time.Second)
	_, err = manager.GetJob(jobID)
	assert.ErrorIs(t, err, internalErrors.ErrJobNotFound)
}
