package config

import (
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/logger"
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

// EngineConfig is the root configuration structure.
type EngineConfig struct {
	// Storage settings applied to every column created by a table
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Logging settings for the global zap logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics settings for the Prometheus collector
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Export settings for table snapshots
	Export ExportConfig `yaml:"export" json:"export"`
}

// StorageConfig contains column storage settings.
type StorageConfig struct {
	// InitialCapacity preallocates backing arrays
	InitialCapacity int  `yaml:"initial_capacity" json:"initial_capacity"`
	// TextPoolSize bounds the text interning pool (0 disables it)
	TextPoolSize    int  `yaml:"text_pool_size" json:"text_pool_size"`
	// DatePoolSize bounds the temporal interning pool (0 disables it)
	DatePoolSize    int  `yaml:"date_pool_size" json:"date_pool_size"`
	// ImmediateData marks loaded columns as user-entered
	ImmediateData   bool `yaml:"immediate_data" json:"immediate_data"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level sets verbosity (debug, info, warn, error)
	Level       string `yaml:"level" json:"level"`
	// Encoding selects json or console output
	Encoding    string `yaml:"encoding" json:"encoding"`
	// Development enables zap development mode
	Development bool   `yaml:"development" json:"development"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled installs a collector on the storage engine
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	// Namespace prefixes every metric name
	Namespace string `yaml:"namespace" json:"namespace"`
}

// ExportConfig contains snapshot export settings.
type ExportConfig struct {
	// Format selects arrow or json
	Format      string `yaml:"format" json:"format"`
	// Compression selects none, zstd, snappy, s2 or lz4
	Compression string `yaml:"compression" json:"compression"`
}

var (
	logLevels          = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logEncodings       = map[string]bool{"json": true, "console": true}
	exportFormats      = map[string]bool{"arrow": true, "json": true}
	exportCompressions = map[string]bool{"none": true, "zstd": true, "snappy": true, "s2": true, "lz4": true}
)

// NewEngineConfig creates an EngineConfig with defaults.
func NewEngineConfig() *EngineConfig {
	defaults := storage.DefaultOptions()
	return &EngineConfig{
		Storage: StorageConfig{
			InitialCapacity: defaults.InitialCapacity,
			TextPoolSize:    defaults.TextPoolSize,
			DatePoolSize:    defaults.DatePoolSize,
			ImmediateData:   true,
		},
		Logging: LoggingConfig{
			Level:    "warn",
			Encoding: "console",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "gridstore",
		},
		Export: ExportConfig{
			Format:      "arrow",
			Compression: "none",
		},
	}
}

// Validate checks that values are within acceptable ranges.
func (c *EngineConfig) Validate() error {
	if c.Storage.InitialCapacity < 0 {
		return errors.New(errors.ErrorTypeValidation, "storage.initial_capacity cannot be negative")
	}
	if c.Storage.TextPoolSize < 0 {
		return errors.New(errors.ErrorTypeValidation, "storage.text_pool_size cannot be negative")
	}
	if c.Storage.DatePoolSize < 0 {
		return errors.New(errors.ErrorTypeValidation, "storage.date_pool_size cannot be negative")
	}
	if !logLevels[c.Logging.Level] {
		return errors.Newf(errors.ErrorTypeValidation, "logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if !logEncodings[c.Logging.Encoding] {
		return errors.Newf(errors.ErrorTypeValidation, "logging.encoding %q is not json or console", c.Logging.Encoding)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.New(errors.ErrorTypeValidation, "metrics.namespace is required when metrics are enabled")
	}
	if !exportFormats[c.Export.Format] {
		return errors.Newf(errors.ErrorTypeValidation, "export.format %q is not arrow or json", c.Export.Format)
	}
	if !exportCompressions[c.Export.Compression] {
		return errors.Newf(errors.ErrorTypeValidation, "export.compression %q is not supported", c.Export.Compression)
	}
	return nil
}

// StorageOptions converts the storage section to storage options.
func (s StorageConfig) StorageOptions() storage.Options {
	return storage.Options{
		ImmediateData:   s.ImmediateData,
		InitialCapacity: s.InitialCapacity,
		TextPoolSize:    s.TextPoolSize,
		DatePoolSize:    s.DatePoolSize,
	}
}

// LoggerConfig converts the logging section to a logger configuration.
func (l LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       l.Level,
		Encoding:    l.Encoding,
		Development: l.Development,
	}
}
