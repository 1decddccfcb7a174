/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appdata

import (
	"context"
	"io"
	"log/slog"
	"reflect"

	"github.com/suparena/appdata/codec"
	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/observability"
	"github.com/suparena/appdata/schema"
)

// DataSet exposes Records[T] through the byte-oriented registry.DataSet
// interface. Payloads are boundary JSON; Save is the only place external
// input becomes a T, and it decodes fully before writing anything.
type DataSet[T any, P EntityPtr[T]] struct {
	proto   Raw[T]
	records *Records[T, P]
	logger  *slog.Logger
}

// DataSetOption configures a DataSet.
type DataSetOption func(*dataSetOptions)

type dataSetOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for import summaries.
func WithLogger(logger *slog.Logger) DataSetOption {
	return func(o *dataSetOptions) { o.logger = logger }
}

// NewDataSet builds the type-erased view of T over store.
func NewDataSet[T any, P EntityPtr[T]](store datastore.Store, opts ...DataSetOption) (*DataSet[T, P], error) {
	records, err := NewRecords[T, P](store)
	if err != nil {
		return nil, err
	}

	o := dataSetOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &DataSet[T, P]{
		proto:   Wrap(DefaultValue[T, P]()),
		records: records,
		logger:  o.logger,
	}, nil
}

// Records returns the typed adapter behind the data set.
func (d *DataSet[T, P]) Records() *Records[T, P] {
	return d.records
}

// ID returns the store name of T.
func (d *DataSet[T, P]) ID() string {
	return d.records.Name()
}

// TypeName returns the Go type name of T.
func (d *DataSet[T, P]) TypeName() string {
	return reflect.TypeOf(d.proto.Value).String()
}

// Schema returns the structural description of T.
func (d *DataSet[T, P]) Schema() *schema.Schema {
	return d.records.Schema()
}

// Default returns the boundary JSON of T's default value.
func (d *DataSet[T, P]) Default() ([]byte, error) {
	return codec.EncodeJSON(d.ID(), d.proto)
}

// Get returns the record at key as boundary JSON.
func (d *DataSet[T, P]) Get(ctx context.Context, key uint32) ([]byte, bool, error) {
	v, err := d.records.Get(ctx, key)
	if err != nil || v == nil {
		return nil, false, err
	}
	data, err := codec.EncodeJSON(d.ID(), Wrap(*v))
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save decodes data into a T and stores it under the key it carries.
func (d *DataSet[T, P]) Save(ctx context.Context, data []byte) error {
	var raw Raw[T]
	if err := codec.DecodeStrict(d.ID(), d.Schema(), data, &raw); err != nil {
		return err
	}
	return d.records.Save(ctx, &raw.Value)
}

// Remove deletes the record at key.
func (d *DataSet[T, P]) Remove(ctx context.Context, key uint32) error {
	return d.records.Remove(ctx, key)
}

// Exists reports whether a record is stored at key.
func (d *DataSet[T, P]) Exists(ctx context.Context, key uint32) (bool, error) {
	return d.records.Exists(ctx, key)
}

// FindNextAvailableKey returns the smallest unused key >= start.
func (d *DataSet[T, P]) FindNextAvailableKey(ctx context.Context, start uint32) (uint32, error) {
	return d.records.FindNextAvailableKey(ctx, start)
}

// Export writes every record to w.
func (d *DataSet[T, P]) Export(ctx context.Context, w io.Writer, format codec.Format) error {
	return d.records.Export(ctx, w, format)
}

// Import stores every record of a document read from r.
func (d *DataSet[T, P]) Import(ctx context.Context, r io.Reader, format codec.Format) error {
	n, err := d.records.Import(ctx, r, format)
	if err != nil {
		return err
	}
	observability.LogImport(d.logger, d.ID(), n)
	return nil
}
