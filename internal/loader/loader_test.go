package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

func TestReadFrequencies(t *testing.T) {
	input := "\nDoc1-17 soviet-2 treati-1\nDoc2-925 berlin-3 east-west-1\n\n3 kennedi-4\n"

	docs, err := ReadFrequencies(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, model.Document{ID: "1", Frequencies: map[string]int{"soviet": 2, "treati": 1}}, docs[0])
	assert.Equal(t, "2", docs[1].ID)
	assert.Equal(t, 1, docs[1].Frequencies["east-west"])
	assert.Equal(t, model.Document{ID: "3", Frequencies: map[string]int{"kennedi": 4}}, docs[2])
}

func TestReadFrequencies_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{name: "missing count", input: "Doc1-1 soviet-2\nDoc2-1 treati\n", line: "line 2"},
		{name: "trailing dash", input: "Doc1-1 soviet-\n", line: "line 1"},
		{name: "non numeric count", input: "Doc1-1 soviet-two\n", line: "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrequencies(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadJudgments(t *testing.T) {
	judgments, err := ReadJudgments(strings.NewReader("1 268 288 304\n\n2 326 334\n1 350\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"268", "288", "304", "350"}, judgments["1"])
	assert.Equal(t, []string{"326", "334"}, judgments["2"])
	assert.Len(t, judgments, 2)
}

func TestReadEmbeddings(t *testing.T) {
	table, err := ReadEmbeddings(strings.NewReader("the 0.418 0.24968 -0.41242\nsoviet 0.1 0.2 0.3\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, table.Dimension())
	assert.Equal(t, 2, table.Len())
	vec, ok := table.Lookup("the")
	require.True(t, ok)
	assert.Equal(t, []float64{0.418, 0.24968, -0.41242}, vec)
}

func TestReadEmbeddings_Errors(t *testing.T) {
	_, err := ReadEmbeddings(strings.NewReader("a 1 2 3\nb 1 2\n"))
	assert.ErrorIs(t, err, internalErrors.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadEmbeddings(strings.NewReader("a 1 x 3\n"))
	assert.Error(t, err)

	_, err = ReadEmbeddings(strings.NewReader("lonely\n"))
	assert.Error(t, err)

	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		_, err = ReadEmbeddings(strings.NewReader("a " + raw + " 1\nb 1 1\n"))
		assert.ErrorIs(t, err, internalErrors.ErrInvalidInput, raw)
		assert.Contains(t, err.Error(), "line 1", raw)
	}
}

func TestReadStopwords(t *testing.T) {
	stopwords, err := ReadStopwords(strings.NewReader("A\nTHE\nof and\n\nb\n"))
	require.NoError(t, err)

	assert.Len(t, stopwords, 3)
	assert.Contains(t, stopwords, "the")
	assert.Contains(t, stopwords, "of")
	assert.Contains(t, stopwords, "and")
	assert.NotContains(t, stopwords, "a")
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	frq := filepath.Join(dir, "documents.FRQ")
	rel := filepath.Join(dir, "TIME.REL")
	require.NoError(t, os.WriteFile(frq, []byte("Doc1-1 soviet-2\n"), 0o600))
	require.NoError(t, os.WriteFile(rel, []byte("1 1\n"), 0o600))

	docs, err := LoadFrequencies(frq)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	judgments, err := LoadJudgments(rel)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, judgments["1"])

	_, err = LoadEmbeddings(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
