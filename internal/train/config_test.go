package train

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.MonitorEvery)
	assert.Equal(t, "monitoring", cfg.CheckpointDir)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 500, cfg.LRRT.Batches)
	assert.Equal(t, 0.9, cfg.LRRT.Decay)
	assert.Equal(t, []float32{1e-3, 1e-4, 1e-6}, cfg.LRRT.Candidates)
	assert.Equal(t, 2, cfg.EarlyStopping.MaxViolations)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero monitor window", func(c *Config) { c.MonitorEvery = 0 }},
		{"empty checkpoint dir", func(c *Config) { c.CheckpointDir = "" }},
		{"one lrrt batch", func(c *Config) { c.LRRT.Batches = 1 }},
		{"decay of one", func(c *Config) { c.LRRT.Decay = 1 }},
		{"negative decay", func(c *Config) { c.LRRT.Decay = -0.5 }},
		{"negative max decays", func(c *Config) { c.LRRT.MaxDecays = -1 }},
		{"no candidates", func(c *Config) { c.LRRT.Candidates = nil }},
		{"zero candidate", func(c *Config) { c.LRRT.Candidates = []float32{1e-3, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	data := `
monitor_every: 10
checkpoint_dir: runs/exp1
lrrt:
  batches: 100
  candidates: [0.01, 0.001]
early_stopping:
  max_violations: 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MonitorEvery)
	assert.Equal(t, "runs/exp1", cfg.CheckpointDir)
	assert.Equal(t, 100, cfg.LRRT.Batches)
	assert.Equal(t, []float32{0.01, 0.001}, cfg.LRRT.Candidates)
	assert.Equal(t, 5, cfg.EarlyStopping.MaxViolations)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, 0.9, cfg.LRRT.Decay)
	assert.Equal(t, 100, cfg.LRRT.MaxDecays)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitor_every: 0\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
