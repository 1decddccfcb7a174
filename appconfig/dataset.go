/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appconfig

import (
	"context"
	"io"

	"github.com/suparena/appdata/codec"
	"github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/registry"
	"github.com/suparena/appdata/schema"
)

// dataSet lets the configuration be reached through the registry. Writes go
// through the cell so they are published and observed like any other save.
type dataSet struct {
	cell *Cell
}

// DataSet returns the registry view of the cell.
func (c *Cell) DataSet() registry.DataSet {
	return dataSet{cell: c}
}

func (d dataSet) ID() string { return StoreName }

func (d dataSet) TypeName() string { return "appconfig.AppConfig" }

func (d dataSet) Schema() *schema.Schema { return d.cell.Schema() }

// Get serves the published value at ConfigKey, falling back to the store
// before Init.
func (d dataSet) Get(ctx context.Context, key uint32) ([]byte, bool, error) {
	if key != ConfigKey {
		return nil, false, nil
	}
	cfg := d.cell.Current()
	if cfg == nil {
		stored, err := d.cell.records.Get(ctx, key)
		if err != nil || stored == nil {
			return nil, false, err
		}
		cfg = stored
	}
	data, err := codec.EncodeJSON(StoreName, cfg)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (d dataSet) Save(ctx context.Context, data []byte) error {
	var cfg AppConfig
	if err := codec.DecodeStrict(StoreName, d.cell.Schema(), data, &cfg); err != nil {
		return err
	}
	return d.cell.Save(ctx, cfg)
}

// Remove is refused: there is always exactly one configuration record.
func (d dataSet) Remove(context.Context, uint32) error {
	return errors.NewValidationError("key", "the configuration record cannot be removed")
}

func (d dataSet) Exists(ctx context.Context, key uint32) (bool, error) {
	return d.cell.records.Exists(ctx, key)
}

func (d dataSet) FindNextAvailableKey(ctx context.Context, start uint32) (uint32, error) {
	return d.cell.records.FindNextAvailableKey(ctx, start)
}

func (d dataSet) Export(ctx context.Context, w io.Writer, format codec.Format) error {
	return d.cell.records.Export(ctx, w, format)
}

// Import stores the document's configuration and, once the cell is
// initialized, publishes it.
func (d dataSet) Import(ctx context.Context, r io.Reader, format codec.Format) error {
	if _, err := d.cell.records.Import(ctx, r, format); err != nil {
		return err
	}
	if !d.cell.Initialized() {
		return nil
	}
	return d.cell.Reload(ctx)
}
