/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Raw owns a value of an entity type and delegates every encoding to it, so
// Raw[T] and T produce identical bytes in both JSON and msgpack.
type Raw[T any] struct {
	Value T
}

// Wrap returns a Raw holding v.
func Wrap[T any](v T) Raw[T] {
	return Raw[T]{Value: v}
}

// MarshalJSON encodes the inner value.
func (r Raw[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes into the inner value, rejecting unknown fields and
// trailing data. On failure the receiver is left unchanged.
func (r *Raw[T]) UnmarshalJSON(data []byte) error {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	r.Value = v
	return nil
}

var (
	_ msgpack.CustomEncoder = (*Raw[struct{}])(nil)
	_ msgpack.CustomDecoder = (*Raw[struct{}])(nil)
)

// EncodeMsgpack encodes the inner value with the caller's encoder settings.
func (r *Raw[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(&r.Value)
}

// DecodeMsgpack decodes into the inner value.
func (r *Raw[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var v T
	if err := dec.Decode(&v); err != nil {
		return err
	}
	r.Value = v
	return nil
}
