package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, c.DefaultK)
	assert.Equal(t, 50, c.KMeansMaxIterations)
	assert.Equal(t, 5, c.SampleRows)
	assert.Equal(t, 0, c.MaxRows)
	assert.Equal(t, "markdown", c.OutputFormat)
	assert.Equal(t, 4, c.BatchWorkers)
	assert.InDelta(t, 0.8, c.Quality.MissingWeight, 1e-12)
	assert.InDelta(t, 1.0, c.Quality.SkewThreshold, 1e-12)
	assert.InDelta(t, 0.85, c.Insights.Correlation, 1e-12)
	assert.InDelta(t, 70.0, c.Insights.Quality, 1e-12)
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	c.DefaultK = 5
	c.Insights.Correlation = 0.9
	require.NoError(t, Save(c, ""))

	b, err := os.ReadFile(filepath.Join(home, ".statify", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "default_k: 5")
	assert.Contains(t, string(b), "insight_correlation_threshold: 0.9")

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, got.DefaultK)
	assert.InDelta(t, 0.9, got.Insights.Correlation, 1e-12)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rows: 9\nbatch_workers: 2\n"), 0o644))
	t.Setenv("STATIFY_BATCH_WORKERS", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, c.SampleRows)
	assert.Equal(t, 7, c.BatchWorkers)
}

func TestBatchWorkersFloor(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STATIFY_BATCH_WORKERS", "0")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, c.BatchWorkers)
}
