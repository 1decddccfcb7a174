/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/suparena/appdata/codec"
	"github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/observability"
	"github.com/suparena/appdata/schema"
)

// DataSet is the type-erased view of one entity type. Payloads cross it as
// boundary JSON.
type DataSet interface {
	// ID is the store name the data set is registered under.
	ID() string
	// TypeName is the Go type behind the data set, for diagnostics.
	TypeName() string
	Schema() *schema.Schema

	// Get returns the record at key encoded as JSON. ok is false when absent.
	Get(ctx context.Context, key uint32) (data []byte, ok bool, err error)
	// Save strictly decodes data and persists it under the key it carries.
	Save(ctx context.Context, data []byte) error
	Remove(ctx context.Context, key uint32) error
	Exists(ctx context.Context, key uint32) (bool, error)
	// FindNextAvailableKey returns the smallest unused key >= start.
	FindNextAvailableKey(ctx context.Context, start uint32) (uint32, error)

	Export(ctx context.Context, w io.Writer, format codec.Format) error
	Import(ctx context.Context, r io.Reader, format codec.Format) error
}

// Registry holds data sets by identifier.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]DataSet
	logger  *slog.Logger
}

// New creates an empty registry. A nil logger disables registration logs.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]DataSet),
		logger:  logger,
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New(slog.Default())
	})
	return defaultRegistry
}

// Register adds ds under ds.ID(). If the identifier is taken the existing
// entry is kept and a DuplicateRegistrationError is returned.
func (r *Registry) Register(ds DataSet) error {
	if ds == nil {
		return errors.NewValidationError("dataset", "must not be nil")
	}
	id := ds.ID()
	if id == "" {
		return errors.NewValidationError("id", "must not be empty")
	}

	r.mu.Lock()
	existing, taken := r.entries[id]
	if !taken {
		r.entries[id] = ds
	}
	r.mu.Unlock()

	if taken {
		observability.LogDuplicateRegistration(r.logger, id, existing.TypeName(), ds.TypeName())
		return errors.NewDuplicateRegistrationError(id, existing.TypeName(), ds.TypeName())
	}
	observability.LogRegistered(r.logger, id, ds.TypeName())
	return nil
}

// Lookup returns the data set registered under id.
func (r *Registry) Lookup(id string) (DataSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.entries[id]
	return ds, ok
}

// IDs returns every registered identifier in ascending order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Schemas returns the schema of every data set, ordered like IDs.
func (r *Registry) Schemas() []*schema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*schema.Schema, len(ids))
	for i, id := range ids {
		out[i] = r.entries[id].Schema()
	}
	return out
}

// Len reports how many data sets are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
