package survey

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
cleaning:
  spike_threshold: 25
  detection_window: 11
  smooth: true
  smoothing_window: 8
annotation:
  tolerance: 1.5
manual:
  start_station: 14000
  end_station: 15000
  jitter: true
  jitter_seed: 42
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.Cleaning.SpikeThreshold)
	assert.Equal(t, 11, cfg.Cleaning.DetectionWindow)
	assert.Equal(t, 8, cfg.Cleaning.SmoothingWindow)
	assert.Equal(t, 1.5, cfg.Annotation.Tolerance)
	assert.Equal(t, 14000.0, cfg.Manual.StartStation)
	assert.True(t, cfg.Manual.Jitter)
}

func TestLoadConfigDefaultsFillUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("annotation:\n  tolerance: 2\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, 2.0, cfg.Annotation.Tolerance)
	assert.Equal(t, def.Cleaning.SpikeThreshold, cfg.Cleaning.SpikeThreshold)
	assert.Equal(t, def.Cleaning.DetectionWindow, cfg.Cleaning.DetectionWindow)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestConfigValidate(t *testing.T) {
	mutate := func(f func(*Config)) *Config {
		cfg := DefaultConfig()
		f(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name: "defaults are valid",
			cfg:  DefaultConfig(),
		},
		{
			name:    "non-positive threshold",
			cfg:     mutate(func(c *Config) { c.Cleaning.SpikeThreshold = 0 }),
			wantErr: "spike_threshold",
		},
		{
			name:    "even detection window",
			cfg:     mutate(func(c *Config) { c.Cleaning.DetectionWindow = 8 }),
			wantErr: "detection_window",
		},
		{
			name:    "detection window too small",
			cfg:     mutate(func(c *Config) { c.Cleaning.DetectionWindow = 1 }),
			wantErr: "detection_window",
		},
		{
			name:    "smoothing window too small",
			cfg:     mutate(func(c *Config) { c.Cleaning.SmoothingWindow = 1 }),
			wantErr: "smoothing_window",
		},
		{
			name: "smoothing window ignored when smoothing off",
			cfg: mutate(func(c *Config) {
				c.Cleaning.Smooth = false
				c.Cleaning.SmoothingWindow = 0
			}),
		},
		{
			name:    "non-positive tolerance",
			cfg:     mutate(func(c *Config) { c.Annotation.Tolerance = -1 }),
			wantErr: "tolerance",
		},
		{
			name:    "negative simplify tolerance",
			cfg:     mutate(func(c *Config) { c.Centerline.SimplifyTolerance = -0.5 }),
			wantErr: "simplify_tolerance",
		},
		{
			name: "manual span inverted",
			cfg: mutate(func(c *Config) {
				c.Manual.StartStation = 500
				c.Manual.EndStation = 100
			}),
			wantErr: "end_station",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Cleaning.SpikeThreshold = 30

	require.NoError(t, SaveConfig(path, cfg))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
