package vectorize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-retrieval-engine/internal/corpus"
	"github.com/gcbaptista/go-retrieval-engine/internal/embeddings"
	"github.com/gcbaptista/go-retrieval-engine/internal/vector"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

func sampleDocs() []model.Document {
	return []model.Document{
		{ID: "1", Frequencies: map[string]int{"soviet": 2, "treati": 1, "moscow": 1}},
		{ID: "2", Frequencies: map[string]int{"soviet": 1, "berlin": 3}},
		{ID: "3", Frequencies: map[string]int{"soviet": 4, "treati": 2}},
		{ID: "4", Frequencies: map[string]int{}},
	}
}

func TestTFIDF_IDF(t *testing.T) {
	docs := []model.Document{
		{ID: "1", Frequencies: map[string]int{"common": 1, "rare": 1}},
		{ID: "2", Frequencies: map[string]int{"common": 2}},
		{ID: "3", Frequencies: map[string]int{"common": 1}},
	}
	tfidf := NewTFIDF(corpus.Build(docs))

	t.Run("term in every document is negative", func(t *testing.T) {
		idf := tfidf.IDF("common")
		assert.InDelta(t, math.Log(3.0/4.0), idf, 1e-15)
		assert.Less(t, idf, 0.0)
	})

	t.Run("rare term", func(t *testing.T) {
		assert.InDelta(t, math.Log(3.0/2.0), tfidf.IDF("rare"), 1e-15)
	})

	t.Run("unseen term uses df zero", func(t *testing.T) {
		assert.InDelta(t, math.Log(3.0), tfidf.IDF("unseen"), 1e-15)
	})
}

func TestTFIDF_VectorizeDocuments(t *testing.T) {
	docs := sampleDocs()
	vocab := corpus.Build(docs)
	tfidf := NewTFIDF(vocab)
	vectors := tfidf.VectorizeDocuments(docs)

	require.Len(t, vectors, len(docs))
	assert.Equal(t, StrategyTFIDF, tfidf.Name())
	assert.Equal(t, 4, tfidf.Dimension())

	moscow, ok := vocab.Index("moscow")
	require.True(t, ok)
	// tf = 1/4, df = 1, N = 4
	assert.InDelta(t, 0.25*math.Log(4.0/2.0), vectors[0].At(moscow), 1e-15)

	soviet, _ := vocab.Index("soviet")
	// df = 3 gives idf = ln(4/4) = 0, so the component is not stored
	assert.Equal(t, 0.0, vectors[0].At(soviet))

	berlin, _ := vocab.Index("berlin")
	assert.InDelta(t, 0.75*math.Log(2.0), vectors[1].At(berlin), 1e-15)
	assert.Equal(t, 0.0, vectors[0].At(berlin))

	t.Run("empty document yields the empty vector", func(t *testing.T) {
		assert.True(t, vectors[3].IsZero())
	})
}

func TestTFIDF_NegativeWeightsAreKept(t *testing.T) {
	docs := []model.Document{
		{ID: "1", Frequencies: map[string]int{"common": 1, "rare": 1}},
		{ID: "2", Frequencies: map[string]int{"common": 1}},
	}
	vocab := corpus.Build(docs)
	vectors := NewTFIDF(vocab).VectorizeDocuments(docs)

	common, _ := vocab.Index("common")
	assert.InDelta(t, 0.5*math.Log(2.0/3.0), vectors[0].At(common), 1e-15)
	assert.Less(t, vectors[1].At(common), 0.0)
}

func TestTFIDF_VectorizeQuery(t *testing.T) {
	vocab := corpus.Build(sampleDocs())
	tfidf := NewTFIDF(vocab)

	q := tfidf.VectorizeQuery(model.Document{
		ID:          "q1",
		Frequencies: map[string]int{"soviet": 3, "berlin": 1, "unknown": 5, "treati": 0},
	})

	soviet, _ := vocab.Index("soviet")
	berlin, _ := vocab.Index("berlin")
	assert.Equal(t, []int{berlin, soviet}, q.Indices)
	assert.Equal(t, []float64{1, 1}, q.Values)

	empty := tfidf.VectorizeQuery(model.Document{ID: "q2", Frequencies: map[string]int{"nothing": 1}})
	assert.True(t, empty.IsZero())
}

func testTable(t *testing.T) *embeddings.Table {
	t.Helper()
	table, err := embeddings.NewTable(map[string][]float64{
		"soviet": {1, 0, 2},
		"treati": {3, 2, 0},
		"berlin": {0, 4, 4},
		"paris":  {9, 9, 9},
	})
	require.NoError(t, err)
	return table
}

func TestEmbeddingAverage_VectorizeDocuments(t *testing.T) {
	docs := sampleDocs()
	strategy := NewEmbeddingAverage(testTable(t), corpus.Build(docs))
	vectors := strategy.VectorizeDocuments(docs)

	assert.Equal(t, StrategyEmbedding, strategy.Name())
	assert.Equal(t, 3, strategy.Dimension())
	require.Len(t, vectors, 4)

	// "moscow" is not in the table and is skipped
	assert.Equal(t, vector.Dense{2, 1, 1}, vectors[0])
	assert.Equal(t, vector.Dense{0.5, 2, 3}, vectors[1])

	t.Run("no matching term yields zeros of width D", func(t *testing.T) {
		assert.Equal(t, vector.Zeros(3), vectors[3])
		assert.Equal(t, 0.0, vector.Cosine(vectors[3], vectors[0]))
	})
}

func TestEmbeddingAverage_VectorizeQuery(t *testing.T) {
	docs := sampleDocs()
	strategy := NewEmbeddingAverage(testTable(t), corpus.Build(docs))

	// "paris" has an embedding but is outside the corpus vocabulary
	q := strategy.VectorizeQuery(model.Document{ID: "q", Frequencies: map[string]int{"berlin": 1, "paris": 2}})
	assert.Equal(t, vector.Dense{0, 4, 4}, q)

	open := NewEmbeddingAverage(testTable(t), nil)
	q = open.VectorizeQuery(model.Document{ID: "q", Frequencies: map[string]int{"berlin": 1, "paris": 2}})
	assert.Equal(t, vector.Dense{4.5, 6.5, 6.5}, q)
}
