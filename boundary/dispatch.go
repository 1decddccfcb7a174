/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package boundary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/suparena/appdata/appconfig"
	"github.com/suparena/appdata/codec"
	"github.com/suparena/appdata/errors"
)

// Args carries the arguments of an Invoke call. Each command reads only the
// fields it needs.
type Args struct {
	ID       string          `json:"id,omitempty"`
	Key      uint32          `json:"key,omitempty"`
	Start    uint32          `json:"start,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
	Format   string          `json:"format,omitempty"`
	Document string          `json:"document,omitempty"`
}

type handler func(ctx context.Context, s *Service, a Args) (any, error)

var commands = map[string]handler{
	"list_identifiers": func(ctx context.Context, s *Service, _ Args) (any, error) {
		return s.ListIdentifiers(ctx)
	},
	"get_schema": func(ctx context.Context, s *Service, a Args) (any, error) {
		return s.GetSchema(ctx, a.ID)
	},
	"list_schemas": func(ctx context.Context, s *Service, _ Args) (any, error) {
		return s.ListSchemas(ctx)
	},
	"get_record": func(ctx context.Context, s *Service, a Args) (any, error) {
		data, found, err := s.GetRecord(ctx, a.ID, a.Key)
		if err != nil || !found {
			return nil, err
		}
		return json.RawMessage(data), nil
	},
	"save_record": func(ctx context.Context, s *Service, a Args) (any, error) {
		return nil, s.SaveRecord(ctx, a.ID, a.Data)
	},
	"remove_record": func(ctx context.Context, s *Service, a Args) (any, error) {
		return nil, s.RemoveRecord(ctx, a.ID, a.Key)
	},
	"exists_record": func(ctx context.Context, s *Service, a Args) (any, error) {
		return s.ExistsRecord(ctx, a.ID, a.Key)
	},
	"find_next_key": func(ctx context.Context, s *Service, a Args) (any, error) {
		return s.FindNextKey(ctx, a.ID, a.Start)
	},
	"get_config_schema": func(ctx context.Context, s *Service, _ Args) (any, error) {
		return s.GetConfigSchema(ctx)
	},
	"get_config": func(ctx context.Context, s *Service, _ Args) (any, error) {
		return s.GetConfig(ctx)
	},
	"save_config": func(ctx context.Context, s *Service, a Args) (any, error) {
		if len(a.Config) == 0 {
			return nil, &Error{Kind: KindDecoding, ID: appconfig.StoreName, Message: "missing config argument"}
		}
		return nil, s.SaveConfigJSON(ctx, a.Config)
	},
	"export_records": func(ctx context.Context, s *Service, a Args) (any, error) {
		format, err := codec.ParseFormat(a.Format)
		if err != nil {
			return nil, translate(a.ID, errors.NewValidationError("format", err.Error()))
		}
		var buf bytes.Buffer
		if err := s.ExportRecords(ctx, a.ID, &buf, format); err != nil {
			return nil, err
		}
		return buf.String(), nil
	},
	"import_records": func(ctx context.Context, s *Service, a Args) (any, error) {
		format, err := codec.ParseFormat(a.Format)
		if err != nil {
			return nil, translate(a.ID, errors.NewValidationError("format", err.Error()))
		}
		return nil, s.ImportRecords(ctx, a.ID, bytes.NewReader([]byte(a.Document)), format)
	},
}

// Commands lists the command names Invoke accepts, sorted.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs command with JSON-encoded args and returns its JSON-encoded
// result. Empty args are allowed for commands without arguments. Commands
// without a result, and get_record on a missing key, return null.
func (s *Service) Invoke(ctx context.Context, command string, args []byte) ([]byte, error) {
	h, ok := commands[command]
	if !ok {
		return nil, &Error{Kind: KindUnknownCommand, Message: fmt.Sprintf("unknown command %q", command)}
	}

	var a Args
	if len(bytes.TrimSpace(args)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(args))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return nil, &Error{Kind: KindDecoding, Message: "invalid arguments: " + err.Error(), cause: err}
		}
	}

	result, err := h(ctx, s, a)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, translate(a.ID, errors.NewEncodingError(a.ID, err))
	}
	return out, nil
}
