/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/appdata/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFromFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "appdata.yaml", `
data_dir: /var/lib/appdata
log_level: debug
dynamodb:
  region: eu-west-1
`)
		s, err := FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/appdata", s.DataDir)
		assert.Equal(t, "debug", s.LogLevel)
		assert.Equal(t, "eu-west-1", s.DynamoDB.Region)
		assert.Equal(t, BackendSQLite, s.Backend, "unset fields keep defaults")
		assert.Equal(t, "text", s.LogFormat)
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "appdata.JSON", `{"backend":"dynamodb","dynamodb":{"table":"appdata"}}`)
		s, err := FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, BackendDynamoDB, s.Backend)
		assert.Equal(t, "appdata", s.DynamoDB.Table)
		assert.Equal(t, "data", s.DataDir)
	})

	t.Run("empty yaml", func(t *testing.T) {
		s, err := FromFile(writeFile(t, "empty.yml", ""))
		require.NoError(t, err)
		assert.Equal(t, Defaults(), s)
	})

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown extension", "appdata.toml", `backend = "sqlite"`},
		{"unknown yaml key", "appdata.yaml", "colour: red\n"},
		{"unknown json key", "appdata.json", `{"colour":"red"}`},
		{"malformed json", "appdata.json", `{"backend":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromFile(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := FromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackend:   "dynamodb",
		EnvLogLevel:  "warn",
		EnvTable:     "appdata-test",
		EnvRegion:    "us-east-2",
		EnvAccessKey: "AKIA",
		EnvSecretKey: "secret",
		EnvDataDir:   "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	s := Defaults()
	s.ApplyEnv(lookup)

	assert.Equal(t, BackendDynamoDB, s.Backend)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, "data", s.DataDir, "empty values are ignored")
	assert.Equal(t, DynamoDB{Region: "us-east-2", Table: "appdata-test", AccessKey: "AKIA", SecretKey: "secret"}, s.DynamoDB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		field  string
	}{
		{"defaults", func(*Settings) {}, ""},
		{"unknown backend", func(s *Settings) { s.Backend = "bolt" }, "backend"},
		{"sqlite without dir", func(s *Settings) { s.DataDir = "" }, "data_dir"},
		{"dynamodb without table", func(s *Settings) { s.Backend = BackendDynamoDB }, "dynamodb.table"},
		{"dynamodb with table", func(s *Settings) {
			s.Backend = BackendDynamoDB
			s.DynamoDB.Table = "t"
		}, ""},
		{"bad level", func(s *Settings) { s.LogLevel = "loud" }, "log_level"},
		{"trace level", func(s *Settings) { s.LogLevel = "TRACE" }, ""},
		{"bad format", func(s *Settings) { s.LogFormat = "xml" }, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "appdata.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: error\nlog_format: json\n"), 0o600))
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("APPDATA_DATA_DIR="+filepath.Join(dir, "store")+"\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv(EnvDataDir, "")
	require.NoError(t, os.Unsetenv(EnvDataDir))
	t.Setenv(EnvLogLevel, "debug")

	s, err := Load(cfgPath, envPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "store"), s.DataDir)
	assert.Equal(t, "debug", s.LogLevel, "environment wins over the file")
	assert.Equal(t, "json", s.LogFormat)

	_, err = Load("", filepath.Join(dir, "absent.env"))
	assert.NoError(t, err, "missing env files are ignored")

	t.Setenv(EnvBackend, "bolt")
	_, err = Load("", envPath)
	assert.True(t, errors.IsValidationError(err))
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s := Defaults()
	s.DataDir = t.TempDir()
	store, err := s.OpenStore(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	s.Backend = "bolt"
	_, err = s.OpenStore(ctx)
	assert.True(t, errors.IsValidationError(err))
}
