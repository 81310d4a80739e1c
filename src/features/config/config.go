package config

import "time"

// Config holds the application configuration.
type Config struct {
	Logger  Logger  `yaml:"logger"`
	Monitor Monitor `yaml:"monitor"`
	Server  Server  `yaml:"server"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json text logfmt"`
}

// Monitor holds the file monitor settings and the documents it keeps loaded.
type Monitor struct {
	PollInterval time.Duration `yaml:"poll_interval" validate:"required"`
	WatchConfig  bool          `yaml:"watch_config"` // Reload this file when it changes
	Documents    []Document    `yaml:"documents" validate:"dive"`
}

// Document is a YAML file loaded at startup and reloaded on change.
type Document struct {
	Name   string `yaml:"name" validate:"required"`
	Path   string `yaml:"path" validate:"required"`
	Create bool   `yaml:"create"` // Write an empty document when missing
}

// Server hold the configuration for the Fiber status server
type Server struct {
	Enabled     bool   `yaml:"enabled"`
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port" validate:"required_if=Enabled true,lte=65535"`
}
