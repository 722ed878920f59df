// Package config loads problemlog settings from flags, environment and an optional YAML file.
package config

import "time"

// Config is the full runtime configuration.
type Config struct {
	DB         string       `koanf:"db" validate:"required"`
	StorageKey string       `koanf:"storage_key" validate:"required"`
	Log        LogConfig    `koanf:"log"`
	Web        WebConfig    `koanf:"web"`
	Import     ImportConfig `koanf:"import"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// WebConfig controls the local web UI.
type WebConfig struct {
	Addr        string        `koanf:"addr" validate:"required,hostname_port"`
	NotifyAfter time.Duration `koanf:"notify_after" validate:"gt=0"`
}

// ImportConfig controls markdown imports.
type ImportConfig struct {
	ReposDir string `koanf:"repos_dir" validate:"required"`
}

// Defaults.
const (
	DefaultDB          = "problemlog.db"
	DefaultStorageKey  = "interviewProblems"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultAddr        = "127.0.0.1:8080"
	DefaultNotifyAfter = 3 * time.Second
	DefaultReposDir    = "repos"
)
