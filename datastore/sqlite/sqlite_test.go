/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/datastore/sqlite"
	"github.com/suparena/appdata/storagemodels"
)

func newMemoryStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.OpenPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	key := datastore.EncodeKey(7)

	_, err := store.Get(ctx, "UserProfile", key)
	assert.ErrorIs(t, err, datastore.ErrKeyNotFound)

	ok, err := store.Has(ctx, "UserProfile", key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "UserProfile", key, []byte("v1")))
	require.NoError(t, store.Put(ctx, "UserProfile", key, []byte("v2")))

	got, err := store.Get(ctx, "UserProfile", key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	ok, err = store.Has(ctx, "UserProfile", key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "UserProfile", key))
	require.NoError(t, store.Delete(ctx, "UserProfile", key), "deleting an absent key is not an error")

	ok, err = store.Has(ctx, "UserProfile", key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_BucketsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.Put(ctx, "A", datastore.EncodeKey(1), []byte("a")))
	ok, err := store.Has(ctx, "B", datastore.EncodeKey(1))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, "", datastore.EncodeKey(1))
	assert.ErrorIs(t, err, datastore.ErrNilBucket)
}

func TestStore_ScanOrderAndReentrancy(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	for _, k := range []uint32{256, 1, 65536, 2} {
		require.NoError(t, store.Put(ctx, "items", datastore.EncodeKey(k), []byte{byte(k)}))
	}

	var keys []uint32
	err := store.Scan(ctx, "items", func(item storagemodels.Item) error {
		k, err := datastore.DecodeKey(item.Key)
		if err != nil {
			return err
		}
		keys = append(keys, k)
		// the store must be usable from inside the callback
		_, err = store.Has(ctx, "items", item.Key)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 256, 65536}, keys)
}

func TestStore_PutAll(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(t, store.PutAll(ctx, "items", []storagemodels.Item{
		{Key: datastore.EncodeKey(1), Value: []byte("first")},
		{Key: datastore.EncodeKey(2), Value: []byte("two")},
		{Key: datastore.EncodeKey(1), Value: []byte("last")},
	}))

	got, err := store.Get(ctx, "items", datastore.EncodeKey(1))
	require.NoError(t, err)
	assert.Equal(t, []byte("last"), got)
}

func TestStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store1, err := sqlite.Open(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Put(ctx, "AppConfig", datastore.EncodeKey(0), []byte("persistent")))
	require.NoError(t, store1.Flush(ctx))
	require.NoError(t, store1.Close())

	store2, err := sqlite.Open(dir)
	require.NoError(t, err)
	defer store2.Close()

	data, err := store2.Get(ctx, "AppConfig", datastore.EncodeKey(0))
	require.NoError(t, err)
	assert.Equal(t, []byte("persistent"), data)
}

func TestStore_CloseIdempotent(t *testing.T) {
	store, err := sqlite.OpenPath(":memory:")
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())

	err = store.Put(context.Background(), "items", datastore.EncodeKey(1), nil)
	assert.ErrorIs(t, err, datastore.ErrStoreClosed)
}

func TestStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	const numGoroutines = 20
	const numOps = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				key := datastore.EncodeKey(uint32(id*numOps + j))
				switch j % 3 {
				case 0:
					_ = store.Put(ctx, "items", key, []byte("data"))
				case 1:
					_, _ = store.Has(ctx, "items", key)
				case 2:
					_ = store.Scan(ctx, "items", func(storagemodels.Item) error { return nil })
				}
			}
		}(i)
	}
	wg.Wait()
}
