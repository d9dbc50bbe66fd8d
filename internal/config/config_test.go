package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.Tolerances.DateDays)
	assert.Equal(t, 0.01, cfg.Tolerances.Amount)
	assert.Equal(t, 0.7, cfg.Detection.HighConfidence)
	assert.Equal(t, 50.0, cfg.Matching.AcceptThreshold)
	assert.Equal(t, "memory", cfg.Storage.Strategy)
	assert.NotEmpty(t, cfg.Categories)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgermatch.yaml")

	cfg := Default()
	cfg.Tolerances.DateDays = 5
	cfg.Detection.DayFirst = true
	cfg.Storage.Strategy = "sqlite"
	cfg.Storage.Path = "data.db"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerances: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
