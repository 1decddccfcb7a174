/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	apperrors "github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/schema"
)

// structTag makes msgpack field names match the boundary JSON names, so the
// on-disk layout reads the same as the wire layout in debugging tools.
const structTag = "json"

// DecodeStrict decodes boundary JSON for data set id into v.
// When s is non-nil the document is first validated against it (required
// fields, ranges, enums, formats). Decoding then rejects unknown fields,
// mistyped values and trailing data. Every failure is a DecodingError and v
// must not be used after a failure.
func DecodeStrict(id string, s *schema.Schema, data []byte, v any) error {
	if s != nil {
		if err := s.ValidateJSON(data); err != nil {
			return apperrors.NewDecodingError(id, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.NewDecodingError(id, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperrors.NewDecodingError(id, errors.New("unexpected data after JSON value"))
	}
	return nil
}

// EncodeJSON encodes v for the boundary. Failures are EncodingErrors.
func EncodeJSON(id string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.NewEncodingError(id, err)
	}
	return data, nil
}

// Marshal encodes a record for storage.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(structTag)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("msgpack encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes stored record bytes into v.
func Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(structTag)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("msgpack decode: %w", err)
	}
	return nil
}
