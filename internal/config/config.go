// Package config maps viper-backed configuration onto typed settings.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sortwise/sortwise/internal/classifier"
	"github.com/sortwise/sortwise/internal/common"
)

// Config holds all runtime settings for the server.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Directory  DirectoryConfig  `mapstructure:"directory"`
	History    HistoryConfig    `mapstructure:"history"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig describes the SQLite ledger location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ClassifierConfig selects and tunes the detection variant.
type ClassifierConfig struct {
	Mode          string  `mapstructure:"mode"`
	InferenceURL  string  `mapstructure:"inference_url"`
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// EngineConfig points at the classification rule table.
type EngineConfig struct {
	RulesPath string `mapstructure:"rules_path"`
}

// DirectoryConfig points at the center catalog.
type DirectoryConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
}

// HistoryConfig bounds history queries.
type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// SetDefaults registers every setting's default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("database.path", "data/sortwise.db")
	v.SetDefault("classifier.mode", classifier.ModeKeyword)
	v.SetDefault("classifier.inference_url", "")
	v.SetDefault("classifier.min_confidence", 0.20)
	v.SetDefault("engine.rules_path", "")
	v.SetDefault("directory.catalog_path", "")
	v.SetDefault("history.limit", 5)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Addr == "" {
		return nil, fmt.Errorf("%w: server.addr", common.ErrMissingConfig)
	}
	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if cfg.Classifier.Mode == classifier.ModeRemote && cfg.Classifier.InferenceURL == "" {
		return nil, fmt.Errorf("%w: classifier.inference_url is required in remote mode", common.ErrMissingConfig)
	}
	if cfg.Classifier.MinConfidence < 0 || cfg.Classifier.MinConfidence > 1 {
		return nil, fmt.Errorf("%w: classifier.min_confidence must be in [0, 1]", common.ErrInvalidConfig)
	}
	if cfg.History.Limit <= 0 {
		return nil, fmt.Errorf("%w: history.limit must be positive", common.ErrInvalidConfig)
	}

	return &cfg, nil
}
