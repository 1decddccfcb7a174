/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a meter provider backed by a manual reader.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value for the data point carrying key=value.
func sumFor(t *testing.T, m *metricdata.Metrics, key, value string) (int64, bool) {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if string(attr.Key) == key && attr.Value.Emit() == value {
				return dp.Value, true
			}
		}
	}
	return 0, false
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordOperation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("counts operations", func(t *testing.T) {
		m.RecordOperation(ctx, "get_record", "UserProfile", 2*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "appdata.boundary.operations")
		require.NotNil(t, metric)

		v, found := sumFor(t, metric, "id", "UserProfile")
		require.True(t, found)
		assert.GreaterOrEqual(t, v, int64(1))
	})

	t.Run("records latency", func(t *testing.T) {
		m.RecordOperation(ctx, "list_ids", "", time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "appdata.boundary.latency_ms")
		require.NotNil(t, metric)

		hist, ok := metric.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		assert.NotEmpty(t, hist.DataPoints)
	})

	t.Run("counts errors only on failure", func(t *testing.T) {
		m.RecordOperation(ctx, "save_record", "ProductConfig", time.Millisecond, errors.New("bad"))

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "appdata.boundary.errors")
		require.NotNil(t, metric)

		v, found := sumFor(t, metric, "id", "ProductConfig")
		require.True(t, found)
		assert.Equal(t, int64(1), v)

		_, found = sumFor(t, metric, "id", "UserProfile")
		assert.False(t, found)
	})
}

func TestRecordConfigCommit(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordConfigCommit(context.Background(), true)
	m.RecordConfigCommit(context.Background(), true)
	m.RecordConfigCommit(context.Background(), false)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "appdata.config.commits")
	require.NotNil(t, metric)

	ok, found := sumFor(t, metric, "success", "true")
	require.True(t, found)
	assert.Equal(t, int64(2), ok)

	failed, found := sumFor(t, metric, "success", "false")
	require.True(t, found)
	assert.Equal(t, int64(1), failed)
}

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordOperation(context.Background(), "op", "id", time.Second, errors.New("x"))
		m.RecordConfigCommit(context.Background(), false)
	})
}
