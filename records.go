/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/suparena/appdata/codec"
	"github.com/suparena/appdata/datastore"
	apperrors "github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/schema"
	"github.com/suparena/appdata/storagemodels"
)

// Records provides typed persistence for one entity type. All records of the
// type live in the store bucket named after its store name.
//
// Store calls are detached from the caller's cancellation: once a write has
// been started it runs to completion.
type Records[T any, P EntityPtr[T]] struct {
	store  datastore.Store
	name   string
	schema *schema.Schema
}

// NewRecords binds T to store. It fails if T's schema cannot be derived.
func NewRecords[T any, P EntityPtr[T]](store datastore.Store) (*Records[T, P], error) {
	if store == nil {
		return nil, apperrors.NewValidationError("store", "must not be nil")
	}
	name := StoreNameOf[T, P]()
	if name == "" {
		return nil, apperrors.NewValidationError("store name", "must not be empty")
	}

	def := DefaultValue[T, P]()
	s, err := schema.Generate(def, schema.WithID(name), schema.WithDefault(def))
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", name, err)
	}

	return &Records[T, P]{
		store:  store,
		name:   name,
		schema: s,
	}, nil
}

// Name returns the store name.
func (r *Records[T, P]) Name() string {
	return r.name
}

// Schema returns the structural description of T.
func (r *Records[T, P]) Schema() *schema.Schema {
	return r.schema
}

// Get returns the record at key, or nil if there is none.
func (r *Records[T, P]) Get(ctx context.Context, key Key) (*T, error) {
	data, err := r.store.Get(context.WithoutCancel(ctx), r.name, datastore.EncodeKey(key))
	if errors.Is(err, datastore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get", r.name, err)
	}

	var v T
	if err := codec.Unmarshal(data, &v); err != nil {
		return nil, apperrors.NewStoreError("decode", r.name, fmt.Errorf("stored record %d: %w", key, err))
	}
	return &v, nil
}

// Save writes v under its own key and flushes before returning.
func (r *Records[T, P]) Save(ctx context.Context, v *T) error {
	if v == nil {
		return apperrors.NewValidationError("record", "must not be nil")
	}
	ctx = context.WithoutCancel(ctx)

	data, err := codec.Marshal(v)
	if err != nil {
		return apperrors.NewStoreError("encode", r.name, err)
	}
	key := P(v).Key()
	if err := r.store.Put(ctx, r.name, datastore.EncodeKey(key), data); err != nil {
		return apperrors.NewStoreError("put", r.name, err)
	}
	if err := r.store.Flush(ctx); err != nil {
		return apperrors.NewStoreError("flush", r.name, err)
	}
	return nil
}

// Remove deletes the record at key. A missing record is not an error.
func (r *Records[T, P]) Remove(ctx context.Context, key Key) error {
	ctx = context.WithoutCancel(ctx)
	if err := r.store.Delete(ctx, r.name, datastore.EncodeKey(key)); err != nil {
		return apperrors.NewStoreError("delete", r.name, err)
	}
	if err := r.store.Flush(ctx); err != nil {
		return apperrors.NewStoreError("flush", r.name, err)
	}
	return nil
}

// Exists reports whether a record is stored at key.
func (r *Records[T, P]) Exists(ctx context.Context, key Key) (bool, error) {
	ok, err := r.store.Has(context.WithoutCancel(ctx), r.name, datastore.EncodeKey(key))
	if err != nil {
		return false, apperrors.NewStoreError("has", r.name, err)
	}
	return ok, nil
}

// FindNextAvailableKey returns the smallest unused key >= start.
// The search is a linear scan, which suits the small interactive key spaces
// this package is meant for.
func (r *Records[T, P]) FindNextAvailableKey(ctx context.Context, start Key) (Key, error) {
	for key := start; ; key++ {
		taken, err := r.Exists(ctx, key)
		if err != nil {
			return 0, err
		}
		if !taken {
			return key, nil
		}
		if key == math.MaxUint32 {
			return 0, apperrors.NewKeyOverflowError(r.name, start)
		}
	}
}

// List returns every record in ascending key order.
func (r *Records[T, P]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := r.scan(ctx, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

// Export writes every record as a document in the given format. Records are
// encoded as boundary JSON.
func (r *Records[T, P]) Export(ctx context.Context, w io.Writer, format codec.Format) error {
	doc := codec.Document{Store: r.name, Records: []json.RawMessage{}}
	err := r.scan(ctx, func(v T) error {
		data, err := codec.EncodeJSON(r.name, &v)
		if err != nil {
			return err
		}
		doc.Records = append(doc.Records, data)
		return nil
	})
	if err != nil {
		return err
	}
	if err := codec.WriteDocument(w, format, doc); err != nil {
		return apperrors.NewEncodingError(r.name, err)
	}
	return nil
}

// Import reads a document written by Export and stores its records.
// The whole document is decoded and validated before anything is written,
// so a malformed document leaves the store untouched. When a key appears
// more than once the last record wins. Only this type's bucket is written.
// It returns the number of records in the document.
func (r *Records[T, P]) Import(ctx context.Context, rd io.Reader, format codec.Format) (int, error) {
	doc, err := codec.ReadDocument(rd, format)
	if err != nil {
		return 0, apperrors.NewDecodingError(r.name, err)
	}
	if doc.Store != "" && doc.Store != r.name {
		return 0, apperrors.NewDecodingError(r.name,
			fmt.Errorf("document holds %q records", doc.Store))
	}

	items := make([]storagemodels.Item, 0, len(doc.Records))
	for i, raw := range doc.Records {
		var v T
		if err := codec.DecodeStrict(r.name, r.schema, raw, &v); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		data, err := codec.Marshal(&v)
		if err != nil {
			return 0, apperrors.NewStoreError("encode", r.name, err)
		}
		items = append(items, storagemodels.Item{
			Key:   datastore.EncodeKey(P(&v).Key()),
			Value: data,
		})
	}
	if len(items) == 0 {
		return 0, nil
	}

	ctx = context.WithoutCancel(ctx)
	if err := r.store.PutAll(ctx, r.name, items); err != nil {
		return 0, apperrors.NewStoreError("import", r.name, err)
	}
	if err := r.store.Flush(ctx); err != nil {
		return 0, apperrors.NewStoreError("flush", r.name, err)
	}
	return len(items), nil
}

func (r *Records[T, P]) scan(ctx context.Context, fn func(T) error) error {
	err := r.store.Scan(context.WithoutCancel(ctx), r.name, func(item storagemodels.Item) error {
		var v T
		if err := codec.Unmarshal(item.Value, &v); err != nil {
			return apperrors.NewStoreError("decode", r.name, err)
		}
		return fn(v)
	})
	if err == nil {
		return nil
	}
	if apperrors.IsStore(err) || apperrors.IsEncoding(err) {
		return err
	}
	return apperrors.NewStoreError("scan", r.name, err)
}
