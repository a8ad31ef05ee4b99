package survey

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full tuning surface of a pipeline run. It is validated once
// at the boundary; the stages trust it and do not re-validate.
type Config struct {
	Cleaning   CleaningConfig   `yaml:"cleaning"`
	Annotation AnnotationConfig `yaml:"annotation"`
	Centerline CenterlineConfig `yaml:"centerline"`
	Manual     ManualConfig     `yaml:"manual"`
}

// CleaningConfig tunes the voltage signal cleaner.
type CleaningConfig struct {
	// SpikeThreshold is the deviation from the local rolling median, in
	// millivolts, beyond which a point is treated as a spike.
	SpikeThreshold float64 `yaml:"spike_threshold"`
	// DetectionWindow is the rolling-median width; must be odd and >= 3.
	DetectionWindow int `yaml:"detection_window"`
	// Smooth enables the cosmetic rolling-mean pass after spike removal.
	Smooth bool `yaml:"smooth"`
	// SmoothingWindow is the rolling-mean width; must be >= 2.
	SmoothingWindow int `yaml:"smoothing_window"`
}

// AnnotationConfig tunes the auxiliary-record merge.
type AnnotationConfig struct {
	// Tolerance is the maximum station gap, in metres, for an auxiliary
	// record to attach to a survey row.
	Tolerance float64 `yaml:"tolerance"`
}

// CenterlineConfig tunes centerline assembly.
type CenterlineConfig struct {
	// SimplifyTolerance, when positive, runs Douglas-Peucker on the merged
	// centerline with this tolerance in metres. Zero disables it.
	SimplifyTolerance float64 `yaml:"simplify_tolerance"`
}

// ManualConfig defines the linear station assignment used when no centerline
// is supplied or geospatial alignment fails.
type ManualConfig struct {
	StartStation float64 `yaml:"start_station"`
	EndStation   float64 `yaml:"end_station"`
	// Reverse assigns stations from end to start, for segments walked
	// against the stationing direction.
	Reverse bool `yaml:"reverse"`
	// Jitter nudges coordinates of stacked GPS fixes apart.
	Jitter     bool  `yaml:"jitter"`
	JitterSeed int64 `yaml:"jitter_seed"`
}

// DefaultConfig returns the tuning used for a typical close-interval survey.
func DefaultConfig() *Config {
	return &Config{
		Cleaning: CleaningConfig{
			SpikeThreshold:  15,
			DetectionWindow: 9,
			Smooth:          true,
			SmoothingWindow: 12,
		},
		Annotation: AnnotationConfig{Tolerance: 1.0},
		Manual: ManualConfig{
			StartStation: 0,
			EndStation:   1000,
			Jitter:       false,
			JitterSeed:   42,
		},
	}
}

// LoadConfig loads a configuration from a YAML file, layered over the
// defaults, and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the whole tuning surface.
func (c *Config) Validate() error {
	if c.Cleaning.SpikeThreshold <= 0 {
		return fmt.Errorf("cleaning.spike_threshold must be positive, got %g", c.Cleaning.SpikeThreshold)
	}
	if c.Cleaning.DetectionWindow < 3 || c.Cleaning.DetectionWindow%2 == 0 {
		return fmt.Errorf("cleaning.detection_window must be an odd integer >= 3, got %d", c.Cleaning.DetectionWindow)
	}
	if c.Cleaning.Smooth && c.Cleaning.SmoothingWindow < 2 {
		return fmt.Errorf("cleaning.smoothing_window must be >= 2, got %d", c.Cleaning.SmoothingWindow)
	}
	if c.Annotation.Tolerance <= 0 {
		return fmt.Errorf("annotation.tolerance must be positive, got %g", c.Annotation.Tolerance)
	}
	if c.Centerline.SimplifyTolerance < 0 {
		return fmt.Errorf("centerline.simplify_tolerance must not be negative, got %g", c.Centerline.SimplifyTolerance)
	}
	if c.Manual.EndStation <= c.Manual.StartStation {
		return fmt.Errorf("manual.end_station (%g) must be greater than manual.start_station (%g)",
			c.Manual.EndStation, c.Manual.StartStation)
	}
	return nil
}
