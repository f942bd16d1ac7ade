// Package config handles meshtool configuration loading and management.
package config

// Config holds all meshtool settings.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig holds geometry-pipeline tuning.
type PipelineConfig struct {
	// CacheCapacity is the simulated post-transform vertex cache size.
	CacheCapacity int `yaml:"cache_capacity"`
	// ComputeNormals derives normals when the input lacks them.
	ComputeNormals bool `yaml:"compute_normals"`
	// ComputeTangents derives tangent/binormal bases after normals.
	ComputeTangents bool `yaml:"compute_tangents"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			CacheCapacity:   24,
			ComputeNormals:  true,
			ComputeTangents: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
