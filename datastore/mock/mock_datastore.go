/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.Store for testing
package mock

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/storagemodels"
)

// Compile-time interface check.
var _ datastore.Store = (*Store)(nil)

// Store is an in-memory datastore.Store with error injection
type Store struct {
	mu          sync.RWMutex
	data        map[string]map[string][]byte
	closed      bool
	flushes     int
	getError    error
	putError    error
	deleteError error
	flushError  error
	// failPutAllAfter makes PutAll fail after writing that many items; <0 disables it.
	failPutAllAfter int
}

// New creates a new mock Store
func New() *Store {
	return &Store{
		data:            make(map[string]map[string][]byte),
		failPutAllAfter: -1,
	}
}

// WithGetError makes Get, Has and Scan operations return an error
func (m *Store) WithGetError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
	return m
}

// WithPutError makes Put and PutAll operations return an error
func (m *Store) WithPutError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *Store) WithDeleteError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
	return m
}

// WithFlushError makes Flush operations return an error
func (m *Store) WithFlushError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushError = err
	return m
}

// WithPutAllFailureAfter makes PutAll write n items and then fail with err,
// simulating an import interrupted partway.
func (m *Store) WithPutAllFailureAfter(n int, err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPutAllAfter = n
	m.putError = err
	return m
}

// Get implements datastore.Store.
func (m *Store) Get(_ context.Context, bucket string, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.readable(bucket); err != nil {
		return nil, err
	}
	v, ok := m.data[bucket][string(key)]
	if !ok {
		return nil, datastore.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put implements datastore.Store.
func (m *Store) Put(_ context.Context, bucket string, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writable(bucket); err != nil {
		return err
	}
	if m.putError != nil {
		return m.putError
	}
	m.put(bucket, key, value)
	return nil
}

// Delete implements datastore.Store.
func (m *Store) Delete(_ context.Context, bucket string, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writable(bucket); err != nil {
		return err
	}
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.data[bucket], string(key))
	return nil
}

// Has implements datastore.Store.
func (m *Store) Has(_ context.Context, bucket string, key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.readable(bucket); err != nil {
		return false, err
	}
	_, ok := m.data[bucket][string(key)]
	return ok, nil
}

// Scan implements datastore.Store.
func (m *Store) Scan(ctx context.Context, bucket string, fn func(storagemodels.Item) error) error {
	m.mu.RLock()
	if err := m.readable(bucket); err != nil {
		m.mu.RUnlock()
		return err
	}
	items := make([]storagemodels.Item, 0, len(m.data[bucket]))
	for k, v := range m.data[bucket] {
		items = append(items, storagemodels.Item{Key: []byte(k), Value: v}.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return bytes.Compare(items[i].Key, items[j].Key) < 0
	})

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

// PutAll implements datastore.Store.
func (m *Store) PutAll(_ context.Context, bucket string, items []storagemodels.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.writable(bucket); err != nil {
		return err
	}
	for i, item := range items {
		if m.putError != nil && (m.failPutAllAfter < 0 || i >= m.failPutAllAfter) {
			return m.putError
		}
		m.put(bucket, item.Key, item.Value)
	}
	return nil
}

// Flush implements datastore.Store.
func (m *Store) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return datastore.ErrStoreClosed
	}
	if m.flushError != nil {
		return m.flushError
	}
	m.flushes++
	return nil
}

// Close implements datastore.Store.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Helper methods for testing

// Flushes returns how many times Flush succeeded
func (m *Store) Flushes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flushes
}

// SetData directly sets the content of a bucket (for testing)
func (m *Store) SetData(bucket string, data map[uint32][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := make(map[string][]byte, len(data))
	for k, v := range data {
		b[string(datastore.EncodeKey(k))] = v
	}
	m.data[bucket] = b
}

// GetData returns a copy of a bucket keyed by numeric key (for testing)
func (m *Store) GetData(bucket string) map[uint32][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[uint32][]byte, len(m.data[bucket]))
	for k, v := range m.data[bucket] {
		key, err := datastore.DecodeKey([]byte(k))
		if err != nil {
			continue
		}
		result[key] = append([]byte(nil), v...)
	}
	return result
}

// Count returns the number of records in a bucket
func (m *Store) Count(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[bucket])
}

// Clear removes all data
func (m *Store) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[string][]byte)
}

func (m *Store) put(bucket string, key, value []byte) {
	b, ok := m.data[bucket]
	if !ok {
		b = make(map[string][]byte)
		m.data[bucket] = b
	}
	b[string(key)] = append([]byte(nil), value...)
}

func (m *Store) readable(bucket string) error {
	if m.closed {
		return datastore.ErrStoreClosed
	}
	if bucket == "" {
		return datastore.ErrNilBucket
	}
	return m.getError
}

func (m *Store) writable(bucket string) error {
	if m.closed {
		return datastore.ErrStoreClosed
	}
	if bucket == "" {
		return datastore.ErrNilBucket
	}
	return nil
}
