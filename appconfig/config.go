/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appconfig

import (
	"log/slog"

	"github.com/suparena/appdata"
	"github.com/suparena/appdata/observability"
)

const (
	// StoreName is the identifier the configuration is registered under.
	StoreName = "AppConfig"
	// ConfigKey is the only key the configuration is ever stored at.
	ConfigKey appdata.Key = 0
)

// LogLevel is the logging verbosity.
type LogLevel string

const (
	LevelTrace LogLevel = "Trace"
	LevelDebug LogLevel = "Debug"
	LevelInfo  LogLevel = "Info"
	LevelWarn  LogLevel = "Warn"
	LevelError LogLevel = "Error"
	LevelOff   LogLevel = "Off"
)

// Slog maps the level onto log/slog.
func (l LogLevel) Slog() (slog.Level, error) {
	return observability.ParseLevel(string(l))
}

// AppConfig is the application configuration. A value published by a Cell
// is shared by every reader and must not be modified.
type AppConfig struct {
	Logging  Logging  `json:"logging" title:"Logging Configuration" description:"Logging system configuration"`
	Features Features `json:"features" title:"Feature Configuration" description:"Feature flags and limitations"`
}

// Logging configures the logging system.
type Logging struct {
	Level       LogLevel `json:"level" title:"Log Level" description:"Logging verbosity level" enum:"Trace,Debug,Info,Warn,Error,Off"`
	FileLogging bool     `json:"file_logging" title:"File Logging Enabled" description:"Whether to write logs to a file"`
}

// Features holds feature flags and operational limits.
type Features struct {
	DarkMode      bool  `json:"dark_mode" title:"Dark Mode Enabled" description:"Whether to use dark mode for the user interface"`
	MaxConcurrent uint8 `json:"max_concurrent" title:"Max Concurrent Operations" description:"Maximum number of simultaneous operations (1-32)" minimum:"1" maximum:"32"`
}

// Defaults returns the compiled-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Logging: Logging{
			Level:       LevelInfo,
			FileLogging: false,
		},
		Features: Features{
			DarkMode:      false,
			MaxConcurrent: 8,
		},
	}
}

func (*AppConfig) StoreName() string { return StoreName }

// Key is always ConfigKey.
func (*AppConfig) Key() appdata.Key { return ConfigKey }

// SetKey does nothing: the configuration has a fixed key.
func (*AppConfig) SetKey(appdata.Key) {}

func (c *AppConfig) Default() { *c = Defaults() }

func (AppConfig) SchemaTitle() string { return "Application Configuration" }

func (AppConfig) SchemaDescription() string {
	return "Application configuration root structure"
}
