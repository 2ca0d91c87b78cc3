// Package config provides configuration structures for the retrieval engine.
// It defines per-index settings and the application configuration file.
package config

import (
	"math"
	"strings"
)

// Supported vectorization strategies.
const (
	StrategyTFIDF     = "tfidf"
	StrategyEmbedding = "embedding"
)

// FeedbackSettings holds the Rocchio weights used when a feedback request
// does not provide its own.
type FeedbackSettings struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// IndexSettings contains all configuration options for a retrieval index.
//
// An index is a fixed corpus snapshot vectorized with one strategy. The
// embedding strategy needs EmbeddingsPath, a GloVe-style text file that is
// read again whenever the index is loaded from disk.
type IndexSettings struct {
	Name           string           `json:"name"`            // Unique name for the index
	Strategy       string           `json:"strategy"`        // "tfidf" or "embedding"
	EmbeddingsPath string           `json:"embeddings_path"` // Embedding table file, embedding strategy only
	DefaultTopK    int              `json:"default_top_k"`   // Result size when a request sets none
	Feedback       FeedbackSettings `json:"feedback"`        // Default Rocchio weights
}

// Validate checks the settings and returns one message per problem.
func (settings *IndexSettings) Validate() []string {
	var errors []string

	if strings.TrimSpace(settings.Name) == "" {
		errors = append(errors, "Index name cannot be empty or whitespace-only")
	}
	if strings.ContainsAny(settings.Name, `/\`) || settings.Name == "." || settings.Name == ".." {
		errors = append(errors, "Index name '"+settings.Name+"' is not a valid directory name")
	}

	switch settings.Strategy {
	case StrategyTFIDF:
		if settings.EmbeddingsPath != "" {
			errors = append(errors, "embeddings_path is only used by the 'embedding' strategy")
		}
	case StrategyEmbedding:
		if strings.TrimSpace(settings.EmbeddingsPath) == "" {
			errors = append(errors, "embeddings_path is required for the 'embedding' strategy")
		}
	default:
		errors = append(errors, "Invalid strategy '"+settings.Strategy+"' (must be 'tfidf' or 'embedding')")
	}

	if settings.DefaultTopK < 0 {
		errors = append(errors, "default_top_k cannot be negative")
	}

	weights := []struct {
		name  string
		value float64
	}{
		{"feedback.alpha", settings.Feedback.Alpha},
		{"feedback.beta", settings.Feedback.Beta},
		{"feedback.gamma", settings.Feedback.Gamma},
	}
	for _, w := range weights {
		if w.value < 0 || math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			errors = append(errors, w.name+" must be a finite, non-negative number")
		}
	}

	return errors
}

// ApplyDefaults applies default values to the index settings
func (settings *IndexSettings) ApplyDefaults() {
	if settings.Strategy == "" {
		settings.Strategy = StrategyTFIDF
	}
	if settings.DefaultTopK == 0 {
		settings.DefaultTopK = 10
	}
	// All-zero weights mean unset.
	if settings.Feedback == (FeedbackSettings{}) {
		settings.Feedback = FeedbackSettings{Alpha: 1, Beta: 0.75, Gamma: 0.25}
	}
}
