/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package boundary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/suparena/appdata/appconfig"
	"github.com/suparena/appdata/codec"
	"github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/observability"
	"github.com/suparena/appdata/registry"
	"github.com/suparena/appdata/schema"
)

// Service runs boundary operations against a registry and a configuration
// cell. It is safe for concurrent use.
type Service struct {
	registry *registry.Registry
	config   *appconfig.Cell
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Operation logs are written at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a Service. cfg may be nil when the process has no
// configuration cell; the configuration operations then fail with
// not_initialized.
func New(reg *registry.Registry, cfg *appconfig.Cell, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		config:   cfg,
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type outcome[R any] struct {
	value R
	err   error
}

// run executes fn on its own goroutine under a context that ignores the
// caller's cancellation. If ctx ends first run returns ctx.Err() and the
// late result is discarded.
func run[R any](s *Service, ctx context.Context, op, id string, fn func(context.Context) (R, error)) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	requestID := uuid.NewString()
	logger := observability.EnrichLogger(s.logger, requestID, op, id)
	ctx, span := observability.StartOperationSpan(ctx, op, id, requestID)
	start := time.Now()
	observability.LogOpStart(logger)

	done := make(chan outcome[R], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome[R]{err: fmt.Errorf("panic in %s: %v", op, r)}
			}
		}()
		v, err := fn(context.WithoutCancel(ctx))
		done <- outcome[R]{value: v, err: err}
	}()

	select {
	case res := <-done:
		duration := time.Since(start)
		err := translate(id, res.err)
		s.metrics.RecordOperation(ctx, op, id, duration, err)
		observability.EndSpanWithError(span, err)
		if err != nil {
			observability.LogOpError(logger, err, duration, isInternal(err))
			return zero, err
		}
		observability.LogOpComplete(logger, duration)
		return res.value, nil

	case <-ctx.Done():
		err := ctx.Err()
		s.metrics.RecordOperation(context.WithoutCancel(ctx), op, id, time.Since(start), err)
		observability.EndSpanWithError(span, err)
		observability.LogOpAbandoned(logger, err)
		return zero, err
	}
}

func (s *Service) lookup(id string) (registry.DataSet, error) {
	ds, ok := s.registry.Lookup(id)
	if !ok {
		return nil, errors.NewNotFoundError("data set "+strconv.Quote(id), "")
	}
	return ds, nil
}

// cell returns the service's cell, falling back to the process-wide one.
func (s *Service) cell() (*appconfig.Cell, error) {
	if s.config != nil {
		return s.config, nil
	}
	return appconfig.Default()
}

// ListIdentifiers returns every registered identifier, sorted.
func (s *Service) ListIdentifiers(ctx context.Context) ([]string, error) {
	return run(s, ctx, "list_identifiers", "", func(context.Context) ([]string, error) {
		return s.registry.IDs(), nil
	})
}

// GetSchema returns the schema of data set id.
func (s *Service) GetSchema(ctx context.Context, id string) (*schema.Schema, error) {
	return run(s, ctx, "get_schema", id, func(context.Context) (*schema.Schema, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return nil, err
		}
		return ds.Schema(), nil
	})
}

// ListSchemas returns every schema in identifier order.
func (s *Service) ListSchemas(ctx context.Context) ([]*schema.Schema, error) {
	return run(s, ctx, "list_schemas", "", func(context.Context) ([]*schema.Schema, error) {
		return s.registry.Schemas(), nil
	})
}

type record struct {
	data  []byte
	found bool
}

// GetRecord returns the record at key as JSON. found is false when no
// record is stored there.
func (s *Service) GetRecord(ctx context.Context, id string, key uint32) (data []byte, found bool, err error) {
	rec, err := run(s, ctx, "get_record", id, func(ctx context.Context) (record, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return record{}, err
		}
		data, ok, err := ds.Get(ctx, key)
		return record{data: data, found: ok}, err
	})
	return rec.data, rec.found, err
}

// SaveRecord decodes data as a record of id and stores it. A payload that
// does not decode fails with a decoding error and nothing is written.
func (s *Service) SaveRecord(ctx context.Context, id string, data []byte) error {
	_, err := run(s, ctx, "save_record", id, func(ctx context.Context) (struct{}, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, ds.Save(ctx, data)
	})
	return err
}

// RemoveRecord deletes the record at key. A missing record is not an error.
func (s *Service) RemoveRecord(ctx context.Context, id string, key uint32) error {
	_, err := run(s, ctx, "remove_record", id, func(ctx context.Context) (struct{}, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, ds.Remove(ctx, key)
	})
	return err
}

// ExistsRecord reports whether a record is stored at key.
func (s *Service) ExistsRecord(ctx context.Context, id string, key uint32) (bool, error) {
	return run(s, ctx, "exists_record", id, func(ctx context.Context) (bool, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return false, err
		}
		return ds.Exists(ctx, key)
	})
}

// FindNextKey returns the smallest unused key >= start.
func (s *Service) FindNextKey(ctx context.Context, id string, start uint32) (uint32, error) {
	return run(s, ctx, "find_next_key", id, func(ctx context.Context) (uint32, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return 0, err
		}
		return ds.FindNextAvailableKey(ctx, start)
	})
}

// ExportRecords writes every record of id to w.
func (s *Service) ExportRecords(ctx context.Context, id string, w io.Writer, format codec.Format) error {
	_, err := run(s, ctx, "export_records", id, func(ctx context.Context) (struct{}, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, ds.Export(ctx, w, format)
	})
	return err
}

// ImportRecords stores every record of a document read from r.
func (s *Service) ImportRecords(ctx context.Context, id string, r io.Reader, format codec.Format) error {
	_, err := run(s, ctx, "import_records", id, func(ctx context.Context) (struct{}, error) {
		ds, err := s.lookup(id)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, ds.Import(ctx, r, format)
	})
	return err
}

// GetConfigSchema returns the schema of the configuration.
func (s *Service) GetConfigSchema(ctx context.Context) (*schema.Schema, error) {
	return run(s, ctx, "get_config_schema", appconfig.StoreName, func(context.Context) (*schema.Schema, error) {
		c, err := s.cell()
		if err != nil {
			return nil, err
		}
		return c.Schema(), nil
	})
}

// GetConfig returns the live configuration.
func (s *Service) GetConfig(ctx context.Context) (appconfig.AppConfig, error) {
	return run(s, ctx, "get_config", appconfig.StoreName, func(context.Context) (appconfig.AppConfig, error) {
		c, err := s.cell()
		if err != nil {
			return appconfig.AppConfig{}, err
		}
		return c.Get()
	})
}

// SaveConfig validates, persists and publishes cfg.
func (s *Service) SaveConfig(ctx context.Context, cfg appconfig.AppConfig) error {
	_, err := run(s, ctx, "save_config", appconfig.StoreName, func(ctx context.Context) (struct{}, error) {
		c, err := s.cell()
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, c.Save(ctx, cfg)
	})
	return err
}

// SaveConfigJSON strictly decodes a JSON configuration payload, then
// validates, persists and publishes it. Missing or unknown fields are
// rejected as decoding errors.
func (s *Service) SaveConfigJSON(ctx context.Context, data []byte) error {
	_, err := run(s, ctx, "save_config", appconfig.StoreName, func(ctx context.Context) (struct{}, error) {
		c, err := s.cell()
		if err != nil {
			return struct{}{}, err
		}
		var cfg appconfig.AppConfig
		if err := codec.DecodeStrict(appconfig.StoreName, c.Schema(), data, &cfg); err != nil {
			return struct{}{}, err
		}
		observability.AddSpanEvent(ctx, "payload decoded", attribute.Int("bytes", len(data)))
		return struct{}{}, c.Save(ctx, cfg)
	})
	return err
}
