/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appconfig

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/suparena/appdata"
	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/observability"
	"github.com/suparena/appdata/schema"
)

// Observer is notified of every committed configuration.
type Observer func(cfg *AppConfig)

// Cell holds the live configuration. Reads never block; writes persist
// first and publish only after the store has accepted them.
type Cell struct {
	records *appdata.Records[AppConfig, *AppConfig]
	current atomic.Pointer[AppConfig]

	// mu serializes Init, Save and Reload so publication follows store order.
	mu sync.Mutex

	obsMu     sync.Mutex
	observers []Observer

	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// Option configures a Cell.
type Option func(*Cell)

// WithLogger sets the cell logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cell) { c.logger = logger }
}

// WithMetrics sets the recorder for commit metrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *Cell) { c.metrics = m }
}

// New creates an uninitialized cell over store.
func New(store datastore.Store, opts ...Option) (*Cell, error) {
	records, err := appdata.NewRecords[AppConfig](store)
	if err != nil {
		return nil, err
	}
	c := &Cell{
		records: records,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Schema describes AppConfig.
func (c *Cell) Schema() *schema.Schema {
	return c.records.Schema()
}

// Init loads the stored configuration, creating and persisting the defaults
// when there is none, publishes it and notifies observers. It fails with
// AlreadyInitialized on a second call.
func (c *Cell) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current.Load() != nil {
		return errors.NewAlreadyInitializedError("configuration")
	}

	cfg, err := c.records.Get(ctx, ConfigKey)
	if err != nil {
		return err
	}
	if cfg == nil {
		def := Defaults()
		if err := c.records.Save(ctx, &def); err != nil {
			c.metrics.RecordConfigCommit(ctx, false)
			return err
		}
		c.metrics.RecordConfigCommit(ctx, true)
		cfg = &def
		observability.LogConfigCreated(c.logger, StoreName)
	}

	c.publish(cfg)
	return nil
}

// Initialized reports whether Init has succeeded.
func (c *Cell) Initialized() bool {
	return c.current.Load() != nil
}

// Current returns the latest committed configuration, or nil before Init.
// The value stays valid after later saves.
func (c *Cell) Current() *AppConfig {
	return c.current.Load()
}

// Get returns a copy of the latest committed configuration.
func (c *Cell) Get() (AppConfig, error) {
	cfg := c.current.Load()
	if cfg == nil {
		return AppConfig{}, fmt.Errorf("configuration: %w", errors.ErrNotInitialized)
	}
	return *cfg, nil
}

// Save validates cfg, persists it and then publishes it. If validation or
// persistence fails the published value and observers are left alone, with
// one exception: when the write landed but its flush failed and the previous
// value cannot be written back, the value held by the store is published so
// memory never disagrees with what a restart would load.
// Observer panics are logged; they never fail a save that reached the store.
func (c *Cell) Save(ctx context.Context, cfg AppConfig) error {
	if err := c.records.Schema().ValidateValue(cfg); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current.Load() == nil {
		return fmt.Errorf("configuration: %w", errors.ErrNotInitialized)
	}
	if err := c.records.Save(ctx, &cfg); err != nil {
		c.metrics.RecordConfigCommit(ctx, false)
		if isFlushFailure(err) {
			c.reconcile(ctx, err)
		}
		return err
	}
	c.metrics.RecordConfigCommit(ctx, true)

	c.publish(&cfg)
	return nil
}

func isFlushFailure(err error) bool {
	var se *errors.StoreError
	return stderrors.As(err, &se) && se.Op == "flush"
}

// reconcile runs with mu held after a write reached the store but was not
// flushed. It writes the published value back; if the store still holds
// something else, that value is published.
func (c *Cell) reconcile(ctx context.Context, cause error) {
	prev := c.current.Load()
	restore := *prev
	_ = c.records.Save(ctx, &restore)

	stored, err := c.records.Get(ctx, ConfigKey)
	if err != nil || stored == nil || *stored == *prev {
		return
	}
	observability.LogConfigRecovered(c.logger, cause)
	c.publish(stored)
}

// Reload re-reads the configuration from the store and publishes it.
func (c *Cell) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current.Load() == nil {
		return fmt.Errorf("configuration: %w", errors.ErrNotInitialized)
	}
	cfg, err := c.records.Get(ctx, ConfigKey)
	if err != nil {
		return err
	}
	if cfg == nil {
		return errors.NewNotFoundError(StoreName, "0")
	}
	c.publish(cfg)
	return nil
}

// Watch appends an observer. Observers run in registration order on the
// saving goroutine and must not call Save or Reload.
func (c *Cell) Watch(fn Observer) {
	if fn == nil {
		return
	}
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, fn)
}

// publish must be called with mu held.
func (c *Cell) publish(cfg *AppConfig) {
	c.current.Store(cfg)

	c.obsMu.Lock()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.obsMu.Unlock()

	observability.LogConfigCommitted(c.logger, len(observers))
	for i, fn := range observers {
		c.notify(i, fn, cfg)
	}
}

func (c *Cell) notify(i int, fn Observer, cfg *AppConfig) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogObserverPanic(c.logger, i, r)
		}
	}()
	fn(cfg)
}

// SyncLogLevel is an Observer that applies logging.level to the process
// log level.
func SyncLogLevel(cfg *AppConfig) {
	level, err := cfg.Logging.Level.Slog()
	if err != nil {
		return
	}
	observability.SetLevel(level)
}
