/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package boundary

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/appdata/appconfig"
)

func TestInvoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	invoke := func(command, args string) string {
		t.Helper()
		out, err := f.svc.Invoke(ctx, command, []byte(args))
		require.NoError(t, err, command)
		return string(out)
	}

	assert.JSONEq(t, `["AppConfig","ProductConfig","SystemSettings","UserProfile"]`, invoke("list_identifiers", ""))
	assert.Equal(t, "0", invoke("find_next_key", `{"id":"UserProfile","start":0}`))
	assert.Equal(t, "null", invoke("save_record", `{"id":"UserProfile","data":`+userPayload+`}`))
	assert.Equal(t, "true", invoke("exists_record", `{"id":"UserProfile","key":0}`))
	assert.JSONEq(t, userPayload, invoke("get_record", `{"id":"UserProfile","key":0}`))
	assert.Equal(t, "null", invoke("get_record", `{"id":"UserProfile","key":9}`))
	assert.Equal(t, "1", invoke("find_next_key", `{"id":"UserProfile"}`))

	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(invoke("get_schema", `{"id":"UserProfile"}`)), &s))
	assert.Equal(t, "UserProfile", s["$id"])

	var schemas []map[string]any
	require.NoError(t, json.Unmarshal([]byte(invoke("list_schemas", "{}")), &schemas))
	assert.Len(t, schemas, 4)

	require.NoError(t, json.Unmarshal([]byte(invoke("get_config_schema", "")), &s))
	assert.Equal(t, "AppConfig", s["$id"])

	assert.JSONEq(t,
		`{"logging":{"level":"Info","file_logging":false},"features":{"dark_mode":false,"max_concurrent":8}}`,
		invoke("get_config", ""))
	assert.Equal(t, "null", invoke("save_config",
		`{"config":{"logging":{"level":"Debug","file_logging":false},"features":{"dark_mode":true,"max_concurrent":2}}}`))
	assert.Equal(t, "Debug", string(f.cell.Current().Logging.Level))

	var doc string
	require.NoError(t, json.Unmarshal([]byte(invoke("export_records", `{"id":"UserProfile","format":"yaml"}`)), &doc))
	assert.Contains(t, doc, "store: UserProfile")

	assert.Equal(t, "null", invoke("remove_record", `{"id":"UserProfile","key":0}`))
	assert.Equal(t, "false", invoke("exists_record", `{"id":"UserProfile","key":0}`))

	args, err := json.Marshal(Args{ID: "UserProfile", Format: "yaml", Document: doc})
	require.NoError(t, err)
	assert.Equal(t, "null", invoke("import_records", string(args)))
	assert.Equal(t, "true", invoke("exists_record", `{"id":"UserProfile","key":0}`))
}

func TestInvoke_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		command string
		args    string
		kind    Kind
	}{
		{"unknown command", "drop_everything", "", KindUnknownCommand},
		{"unknown argument", "get_schema", `{"id":"UserProfile","colour":"red"}`, KindDecoding},
		{"malformed arguments", "get_schema", `{"id":`, KindDecoding},
		{"unknown id", "get_record", `{"id":"Nope","key":1}`, KindNotFound},
		{"bad payload", "save_record", `{"id":"UserProfile","data":{"id":1}}`, KindDecoding},
		{"missing config", "save_config", `{}`, KindDecoding},
		{"invalid config", "save_config", `{"config":{"logging":{"level":"Loud","file_logging":false},"features":{"dark_mode":false,"max_concurrent":8}}}`, KindDecoding},
		{"config missing fields", "save_config", `{"config":{"logging":{"level":"Debug"},"features":{"max_concurrent":4}}}`, KindDecoding},
		{"config unknown field", "save_config", `{"config":{"logging":{"level":"Debug","file_logging":false,"colour":"red"},"features":{"dark_mode":false,"max_concurrent":4}}}`, KindDecoding},
		{"null config", "save_config", `{"config":null}`, KindDecoding},
		{"bad format", "export_records", `{"id":"UserProfile","format":"xml"}`, KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Invoke(ctx, tt.command, []byte(tt.args))
			require.Error(t, err)
			assert.Equal(t, tt.kind, kindOf(t, err))
		})
	}

	assert.Equal(t, appconfig.Defaults(), *f.cell.Current(), "rejected payloads never reach the cell")
}

func TestCommands(t *testing.T) {
	assert.Equal(t, []string{
		"exists_record",
		"export_records",
		"find_next_key",
		"get_config",
		"get_config_schema",
		"get_record",
		"get_schema",
		"import_records",
		"list_identifiers",
		"list_schemas",
		"remove_record",
		"save_config",
		"save_record",
	}, Commands())
}
