package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/gridstore/pkg/errors"
)

// EnvPrefix prefixes environment overrides, e.g. GRIDSTORE_STORAGE_TEXT_POOL_SIZE.
const EnvPrefix = "GRIDSTORE"

// LoadWithViper layers, lowest first: defaults, the YAML file at path (when
// path is not empty) and GRIDSTORE_* environment variables.
func LoadWithViper(path string) (*EngineConfig, error) {
	v := viper.New()
	setDefaults(v, NewEngineConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config").
				WithDetail("path", path)
		}
	}

	cfg := &EngineConfig{
		Storage: StorageConfig{
			InitialCapacity: v.GetInt("storage.initial_capacity"),
			TextPoolSize:    v.GetInt("storage.text_pool_size"),
			DatePoolSize:    v.GetInt("storage.date_pool_size"),
			ImmediateData:   v.GetBool("storage.immediate_data"),
		},
		Logging: LoggingConfig{
			Level:       v.GetString("logging.level"),
			Encoding:    v.GetString("logging.encoding"),
			Development: v.GetBool("logging.development"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("metrics.enabled"),
			Namespace: v.GetString("metrics.namespace"),
		},
		Export: ExportConfig{
			Format:      v.GetString("export.format"),
			Compression: v.GetString("export.compression"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *EngineConfig) {
	v.SetDefault("storage.initial_capacity", cfg.Storage.InitialCapacity)
	v.SetDefault("storage.text_pool_size", cfg.Storage.TextPoolSize)
	v.SetDefault("storage.date_pool_size", cfg.Storage.DatePoolSize)
	v.SetDefault("storage.immediate_data", cfg.Storage.ImmediateData)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.encoding", cfg.Logging.Encoding)
	v.SetDefault("logging.development", cfg.Logging.Development)
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)
	v.SetDefault("export.format", cfg.Export.Format)
	v.SetDefault("export.compression", cfg.Export.Compression)
}
