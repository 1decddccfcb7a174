/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package settings loads process settings: where the store lives, which
// backend holds it and how the process logs.
//
// Values come from compiled-in defaults, then an optional YAML or JSON file,
// then the environment. A .env file, if present, is loaded into the
// environment first without overriding variables already set.
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/datastore/ddb"
	"github.com/suparena/appdata/datastore/sqlite"
	"github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/observability"
)

// Backends.
const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Settings configures the process.
type Settings struct {
	DataDir   string   `yaml:"data_dir" json:"data_dir"`
	Backend   string   `yaml:"backend" json:"backend"`
	LogLevel  string   `yaml:"log_level" json:"log_level"`
	LogFormat string   `yaml:"log_format" json:"log_format"`
	DynamoDB  DynamoDB `yaml:"dynamodb" json:"dynamodb"`
}

// DynamoDB locates the table used by the dynamodb backend. Empty keys fall
// back to the default AWS credential chain.
type DynamoDB struct {
	Region    string `yaml:"region" json:"region"`
	Table     string `yaml:"table" json:"table"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		DataDir:   "data",
		Backend:   BackendSQLite,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvDataDir   = "APPDATA_DATA_DIR"
	EnvBackend   = "APPDATA_BACKEND"
	EnvLogLevel  = "APPDATA_LOG_LEVEL"
	EnvLogFormat = "APPDATA_LOG_FORMAT"
	EnvRegion    = "AWS_REGION"
	EnvTable     = "AWS_DDB_TABLE"
	EnvAccessKey = "AWS_ACCESS_KEY"
	EnvSecretKey = "AWS_SECRET_KEY"
)

// Load builds settings from defaults, the file at path (skipped when path is
// empty) and the environment, then validates them. envFiles are loaded into
// the environment first; when none are given ".env" is tried. Missing env
// files are ignored.
func Load(path string, envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	s := Defaults()
	if path != "" {
		var err error
		if s, err = FromFile(path); err != nil {
			return Settings{}, err
		}
	}
	s.ApplyEnv(os.LookupEnv)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FromFile loads settings from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json. Fields absent from the file keep
// their defaults.
func FromFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Settings{}, fmt.Errorf("unsupported settings file extension: %s", ext)
	}
}

// FromYAML parses YAML over the defaults. Unknown keys are rejected.
func FromYAML(data []byte) (Settings, error) {
	s := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !stderrors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("parse yaml: %w", err)
	}
	return s, nil
}

// FromJSON parses JSON over the defaults. Unknown keys are rejected.
func FromJSON(data []byte) (Settings, error) {
	s := Defaults()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("parse json: %w", err)
	}
	return s, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
// Empty values are ignored.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, target *string) {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}
	set(EnvDataDir, &s.DataDir)
	set(EnvBackend, &s.Backend)
	set(EnvLogLevel, &s.LogLevel)
	set(EnvLogFormat, &s.LogFormat)
	set(EnvRegion, &s.DynamoDB.Region)
	set(EnvTable, &s.DynamoDB.Table)
	set(EnvAccessKey, &s.DynamoDB.AccessKey)
	set(EnvSecretKey, &s.DynamoDB.SecretKey)
}

// Validate checks that the settings can be used to start the process.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendSQLite:
		if s.DataDir == "" {
			return errors.NewValidationError("data_dir", "required for the sqlite backend")
		}
	case BackendDynamoDB:
		if s.DynamoDB.Table == "" {
			return errors.NewValidationError("dynamodb.table", "required for the dynamodb backend")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", s.Backend))
	}

	if _, err := observability.ParseLevel(s.LogLevel); err != nil {
		return errors.NewValidationError("log_level", err.Error())
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return errors.NewValidationError("log_format", fmt.Sprintf("unknown log format %q", s.LogFormat))
	}
	return nil
}

// OpenStore opens the configured backend.
func (s Settings) OpenStore(ctx context.Context) (datastore.Store, error) {
	switch s.Backend {
	case BackendSQLite:
		store, err := sqlite.Open(s.DataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendDynamoDB:
		store, err := ddb.Open(ctx, ddb.Config{
			Region:    s.DynamoDB.Region,
			Table:     s.DynamoDB.Table,
			AccessKey: s.DynamoDB.AccessKey,
			SecretKey: s.DynamoDB.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", s.Backend))
	}
}
