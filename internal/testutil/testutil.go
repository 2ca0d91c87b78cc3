// Package testutil provides fixtures and helpers shared by the tests of the
// retrieval engine.
package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// NewsEmbeddings is a two dimensional table covering three terms of NewsCorpus.
const NewsEmbeddings = "soviet 1 0\nberlin 0 1\nunion 1 1\n"

// NewsCorpus returns five small documents over eight distinct terms.
func NewsCorpus() []model.Document {
	return []model.Document{
		{ID: "1", Frequencies: map[string]int{"soviet": 2, "union": 1}},
		{ID: "2", Frequencies: map[string]int{"berlin": 1, "wall": 2}},
		{ID: "3", Frequencies: map[string]int{"soviet": 1, "berlin": 1}},
		{ID: "4", Frequencies: map[string]int{"election": 1, "vote": 1}},
		{ID: "5", Frequencies: map[string]int{"market": 1, "trade": 1}},
	}
}

// NewsQueries returns two queries against NewsCorpus.
func NewsQueries() []model.Document {
	return []model.Document{
		{ID: "1", Frequencies: map[string]int{"soviet": 1}},
		{ID: "2", Frequencies: map[string]int{"berlin": 1, "wall": 1}},
	}
}

// NewsJudgments judges NewsQueries against NewsCorpus.
func NewsJudgments() model.Judgments {
	return model.Judgments{
		"1": {"1", "3"},
		"2": {"2"},
	}
}

// WriteFile writes content to name inside a per-test temporary directory and
// returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "Failed to write %s", name)
	return path
}

// WriteFrequencies writes docs in the frequency file format, terms sorted.
func WriteFrequencies(t *testing.T, name string, docs []model.Document) string {
	t.Helper()
	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.ID)
		terms := make([]string, 0, len(doc.Frequencies))
		for term := range doc.Frequencies {
			terms = append(terms, term)
		}
		slices.Sort(terms)
		for _, term := range terms {
			sb.WriteString(" " + term + "-" + strconv.Itoa(doc.Frequencies[term]))
		}
		sb.WriteByte('\n')
	}
	return WriteFile(t, name, sb.String())
}

// WriteJudgments writes judgments in the relevance file format, queries sorted.
func WriteJudgments(t *testing.T, name string, judgments model.Judgments) string {
	t.Helper()
	ids := make([]string, 0, len(judgments))
	for id := range judgments {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(id + " " + strings.Join(judgments[id], " ") + "\n")
	}
	return WriteFile(t, name, sb.String())
}

// JobPollingOptions configures WaitForJobCompletion.
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions polls every 10ms for up to 5s.
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
}

// WaitForJobCompletion polls a job until it completes. A failed job or a
// timeout fails the test.
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				return job
			case model.JobStatusFailed, model.JobStatusCancelled:
				t.Fatalf("Job %s ended as %s: %s", jobID, job.Status, job.Error)
				return nil
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID, job.Progress.Current, job.Progress.Total, job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully.
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedIndex string) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedIndex, job.IndexName, "Job index name should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
