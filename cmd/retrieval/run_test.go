package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-retrieval-engine/internal/testutil"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

type runFixture struct {
	documents string
	queries   string
	judgments string
	config    string
}

func newRunFixture(t *testing.T) runFixture {
	t.Helper()
	return runFixture{
		documents: testutil.WriteFrequencies(t, "NEWS.FRQ", testutil.NewsCorpus()),
		queries:   testutil.WriteFrequencies(t, "QUERIES.FRQ", testutil.NewsQueries()),
		judgments: testutil.WriteJudgments(t, "NEWS.REL", testutil.NewsJudgments()),
		config:    filepath.Join(t.TempDir(), "missing.yaml"),
	}
}

func (f runFixture) args(extra ...string) []string {
	args := []string{
		"run",
		"--config", f.config,
		"--log-level", "error",
		"--documents", f.documents,
		"--queries", f.queries,
		"--judgments", f.judgments,
	}
	return append(args, extra...)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCmd_TFIDFJSON(t *testing.T) {
	fixture := newRunFixture(t)

	out, err := execute(t, fixture.args("--format", "json", "--name", "news")...)
	require.NoError(t, err)

	var report model.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)

	assert.Equal(t, "news", report.Index)
	assert.Equal(t, "tfidf", report.Strategy)
	assert.Equal(t, 10, report.TopK)
	require.Len(t, report.Results, 2)

	first := report.Results[0]
	assert.Equal(t, "1", first.QueryID)
	require.Len(t, first.Hits, 2)
	assert.Equal(t, "1", first.Hits[0].DocumentID)
	assert.Equal(t, "3", first.Hits[1].DocumentID)
	assert.True(t, first.Evaluated)
	assert.InDelta(t, 1.0, first.Metrics.Precision, 1e-9)

	second := report.Results[1]
	assert.Equal(t, "2", second.QueryID)
	require.NotEmpty(t, second.Hits)
	assert.Equal(t, "2", second.Hits[0].DocumentID)

	assert.Equal(t, 2, report.Summary.EvaluatedQueries)
	assert.InDelta(t, 1.0, report.Summary.MeanAveragePrecision, 1e-9)
}

func TestRunCmd_RELToFile(t *testing.T) {
	fixture := newRunFixture(t)
	output := filepath.Join(t.TempDir(), "results.rel")

	out, err := execute(t, fixture.args("--output", output, "--limit", "1")...)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Q1 D1 "), lines[0])
	assert.Contains(t, lines[0], "AP1")
}

func TestRunCmd_EmbeddingWithFeedback(t *testing.T) {
	fixture := newRunFixture(t)
	vectors := testutil.WriteFile(t, "vectors.txt", testutil.NewsEmbeddings)

	out, err := execute(t, fixture.args(
		"--strategy", "embedding",
		"--embeddings", vectors,
		"--feedback",
		"--rounds", "2",
		"--use-judgments",
		"--format", "json",
	)...)
	require.NoError(t, err)

	var report model.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, "embedding", report.Strategy)
	require.Len(t, report.Results, 2)
	for _, result := range report.Results {
		assert.LessOrEqual(t, result.FeedbackRounds, 2)
	}
}

func TestRunCmd_Rejections(t *testing.T) {
	fixture := newRunFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown strategy", fixture.args("--strategy", "bm25")},
		{"embedding without table", fixture.args("--strategy", "embedding")},
		{"unknown format", fixture.args("--format", "xml")},
		{"missing documents file", fixture.args("--documents", filepath.Join(t.TempDir(), "none.FRQ"))},
		{"judged feedback without judgments", []string{
			"run", "--config", fixture.config, "--log-level", "error",
			"--documents", fixture.documents, "--queries", fixture.queries,
			"--feedback", "--use-judgments",
		}},
		{"missing required flags", []string{"run", "--config", fixture.config}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "retrieval dev\n", out)
}
