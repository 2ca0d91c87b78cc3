package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Setenv("RETRIEVAL_PORT", "9090")

	cfg, err := Parse([]byte(`
server:
  port: ${RETRIEVAL_PORT}
logging:
  env: production
  level: ${RETRIEVAL_LOG_LEVEL:-warn}
storage:
  data_dir: ./data
pipeline:
  top_k: 20
  feedback_enabled: true
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Logging.Env)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, 20, cfg.Pipeline.TopK)
	assert.True(t, cfg.Pipeline.FeedbackEnabled)
	assert.Equal(t, 1, cfg.Pipeline.FeedbackRounds)
	assert.Equal(t, 3, cfg.Pipeline.FeedbackRelevant)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "port out of range", yaml: "server:\n  port: 70000\n"},
		{name: "unknown env", yaml: "logging:\n  env: staging\n"},
		{name: "unknown level", yaml: "logging:\n  level: verbose\n"},
		{name: "malformed yaml", yaml: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "retrieval.yaml")
		require.NoError(t, os.WriteFile(path, []byte("jobs:\n  workers: 5\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Jobs.Workers)
	})
}
