package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexSettings_Validate(t *testing.T) {
	tests := []struct {
		name           string
		settings       IndexSettings
		expectedErrors int
	}{
		{
			name:           "valid tfidf index",
			settings:       IndexSettings{Name: "time", Strategy: StrategyTFIDF, DefaultTopK: 10},
			expectedErrors: 0,
		},
		{
			name:           "valid embedding index",
			settings:       IndexSettings{Name: "time", Strategy: StrategyEmbedding, EmbeddingsPath: "glove.6B.50d.txt"},
			expectedErrors: 0,
		},
		{
			name:           "empty name",
			settings:       IndexSettings{Name: "  ", Strategy: StrategyTFIDF},
			expectedErrors: 1,
		},
		{
			name:           "name with path separator",
			settings:       IndexSettings{Name: "../etc", Strategy: StrategyTFIDF},
			expectedErrors: 1,
		},
		{
			name:           "unknown strategy",
			settings:       IndexSettings{Name: "time", Strategy: "bm25"},
			expectedErrors: 1,
		},
		{
			name:           "embedding without table",
			settings:       IndexSettings{Name: "time", Strategy: StrategyEmbedding},
			expectedErrors: 1,
		},
		{
			name:           "tfidf with table",
			settings:       IndexSettings{Name: "time", Strategy: StrategyTFIDF, EmbeddingsPath: "glove.txt"},
			expectedErrors: 1,
		},
		{
			name: "negative top k and bad weights",
			settings: IndexSettings{
				Name:        "time",
				Strategy:    StrategyTFIDF,
				DefaultTopK: -1,
				Feedback:    FeedbackSettings{Alpha: -1, Beta: math.NaN(), Gamma: 0.25},
			},
			expectedErrors: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := tt.settings.Validate()
			assert.Len(t, errors, tt.expectedErrors, "errors: %v", errors)
		})
	}
}

func TestIndexSettings_ApplyDefaults(t *testing.T) {
	settings := IndexSettings{Name: "time"}
	settings.ApplyDefaults()

	assert.Equal(t, StrategyTFIDF, settings.Strategy)
	assert.Equal(t, 10, settings.DefaultTopK)
	assert.Equal(t, FeedbackSettings{Alpha: 1, Beta: 0.75, Gamma: 0.25}, settings.Feedback)
	assert.Empty(t, settings.Validate())

	custom := IndexSettings{Name: "time", Strategy: StrategyEmbedding, DefaultTopK: 3, Feedback: FeedbackSettings{Alpha: 1}}
	custom.ApplyDefaults()
	assert.Equal(t, StrategyEmbedding, custom.Strategy)
	assert.Equal(t, 3, custom.DefaultTopK)
	assert.Equal(t, FeedbackSettings{Alpha: 1}, custom.Feedback)
}
