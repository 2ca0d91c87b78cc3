package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/feedback"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

type noFeedback struct{}

func (noFeedback) Select(string, []model.Hit) ([]string, []string) { return nil, nil }

func TestNewSession_RejectsBadIDs(t *testing.T) {
	_, err := NewTFIDFSession("empty", []model.Document{{ID: ""}})
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)

	_, err = NewTFIDFSession("dups", []model.Document{{ID: "1"}, {ID: "1"}})
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)

	_, err = NewEmbeddingSession("nil", testCorpus(), nil)
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
}

func TestSession_Search(t *testing.T) {
	s, err := NewTFIDFSession("news", testCorpus())
	require.NoError(t, err)

	assert.Equal(t, "news", s.Name())
	assert.Equal(t, 8, s.Vocabulary().Len())

	hits := s.Search(sovietQuery(), 0)
	assert.Equal(t, []string{"1", "3"}, model.HitIDs(hits))

	t.Run("unknown terms retrieve nothing", func(t *testing.T) {
		q := model.Document{ID: "q", Frequencies: map[string]int{"perestroika": 1}}
		assert.Empty(t, s.Search(q, 10))
	})

	t.Run("document vectors", func(t *testing.T) {
		_, ok := s.DocumentVector("2")
		assert.True(t, ok)
		_, ok = s.DocumentVector("99")
		assert.False(t, ok)
	})
}

func TestSession_SearchWithFeedback(t *testing.T) {
	s, err := NewTFIDFSession("news", testCorpus())
	require.NoError(t, err)

	hits, err := s.SearchWithFeedback(sovietQuery(), []string{"1"}, []string{"3"}, feedback.DefaultParams(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "1", hits[0].DocumentID)

	_, err = s.SearchWithFeedback(sovietQuery(), []string{"99"}, []string{"3"}, feedback.DefaultParams(), 10)
	assert.ErrorIs(t, err, internalErrors.ErrDocumentNotFound)

	_, err = s.SearchWithFeedback(sovietQuery(), nil, []string{"3"}, feedback.DefaultParams(), 10)
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)

	_, err = s.SearchWithFeedback(sovietQuery(), []string{"1"}, []string{"3"}, feedback.Params{Alpha: -1}, 10)
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
}

func TestSession_ReformulateWithZeroWeights(t *testing.T) {
	s, err := NewTFIDFSession("news", testCorpus())
	require.NoError(t, err)

	qv, err := s.Reformulate(s.VectorizeQuery(sovietQuery()), []string{"1"}, []string{"3"}, feedback.Params{})
	require.NoError(t, err)
	assert.True(t, qv.IsZero())
	assert.Empty(t, s.SearchVector(qv, 10))
}

func TestSession_SearchWithRounds(t *testing.T) {
	s, err := NewTFIDFSession("news", testCorpus())
	require.NoError(t, err)

	t.Run("rank split", func(t *testing.T) {
		hits, applied, err := s.SearchWithRounds(sovietQuery(), 10, 2, feedback.RankSplit{Relevant: 1}, feedback.DefaultParams())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, applied, 1)
		assert.LessOrEqual(t, applied, 2)
		require.NotEmpty(t, hits)
		assert.Equal(t, "1", hits[0].DocumentID)
	})

	t.Run("empty selection stops the loop", func(t *testing.T) {
		hits, applied, err := s.SearchWithRounds(sovietQuery(), 10, 3, noFeedback{}, feedback.DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, 0, applied)
		assert.Equal(t, s.Search(sovietQuery(), 10), hits)
	})

	t.Run("zero rounds is a plain search", func(t *testing.T) {
		hits, applied, err := s.SearchWithRounds(sovietQuery(), 10, 0, feedback.RankSplit{Relevant: 1}, feedback.DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, 0, applied)
		assert.Equal(t, []string{"1", "3"}, model.HitIDs(hits))
	})
}
