/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"errors"
	"io"

	"github.com/suparena/appdata/storagemodels"
)

// Sentinel errors returned by Store implementations.
var (
	ErrKeyNotFound = errors.New("datastore: key not found")
	ErrStoreClosed = errors.New("datastore: store closed")
	ErrNilBucket   = errors.New("datastore: bucket must not be empty")
)

// Store is the byte-level key-value capability every backend provides.
// Records are grouped in buckets named after the entity store name; keys are
// byte-comparable encodings produced by EncodeKey.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored bytes. Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, bucket string, key []byte) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, bucket string, key, value []byte) error

	// Delete removes a key. Deleting a non-existent key is not an error.
	Delete(ctx context.Context, bucket string, key []byte) error

	// Has reports whether a key exists in the bucket.
	Has(ctx context.Context, bucket string, key []byte) (bool, error)

	// Scan calls fn for every item of the bucket in ascending key order.
	// Returning an error from fn stops the scan and is returned as-is.
	Scan(ctx context.Context, bucket string, fn func(item storagemodels.Item) error) error

	// PutAll writes items in order; a later item with the same key wins.
	// Only the named bucket is touched.
	PutAll(ctx context.Context, bucket string, items []storagemodels.Item) error

	// Flush forces buffered writes to durable storage.
	Flush(ctx context.Context) error

	// Close releases the underlying engine. Close is idempotent.
	io.Closer
}
