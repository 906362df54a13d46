// Package config provides configuration for a gridstore engine session.
//
// # Key Features
//
// - EngineConfig: storage, logging, metrics and export sections
// - Environment variable substitution with ${VAR_NAME} syntax
// - GRIDSTORE_* environment overrides through viper
// - Defaults and validation
//
// # Usage
//
// ## Loading a YAML file
//
//	cfg, err := config.Load("gridstore.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// ## Layering environment overrides
//
//	// GRIDSTORE_STORAGE_TEXT_POOL_SIZE=0 disables text interning
//	cfg, err := config.LoadWithViper("gridstore.yaml")
//
// ## Applying a configuration
//
//	_ = logger.Init(cfg.Logging.LoggerConfig())
//	col := storage.NewNumeric(cfg.Storage.StorageOptions())
//
// # Configuration File Format
//
//	storage:
//	  initial_capacity: 64
//	  text_pool_size: 4096
//	  date_pool_size: 1024
//	  immediate_data: true
//	logging:
//	  level: ${GRIDSTORE_LOG_LEVEL}
//	  encoding: console
//	metrics:
//	  enabled: true
//	  namespace: gridstore
//	export:
//	  format: arrow
//	  compression: zstd
package config
