/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appconfig

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/appdata/codec"
	"github.com/suparena/appdata/datastore/mock"
	"github.com/suparena/appdata/datastore/sqlite"
	"github.com/suparena/appdata/errors"
	"github.com/suparena/appdata/observability"
)

func newCell(t *testing.T) (*Cell, *mock.Store) {
	t.Helper()
	store := mock.New()
	c, err := New(store, WithLogger(nil))
	require.NoError(t, err)
	return c, store
}

func TestSchemaGolden(t *testing.T) {
	c, _ := newCell(t)

	data, err := json.MarshalIndent(c.Schema(), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "appconfig_schema", data)
}

func TestInit_CreatesDefaults(t *testing.T) {
	ctx := context.Background()
	c, store := newCell(t)

	assert.Nil(t, c.Current())
	_, err := c.Get()
	assert.True(t, errors.IsNotInitialized(err))

	require.NoError(t, c.Init(ctx))

	got, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
	assert.Equal(t, 1, store.Count(StoreName))
	assert.Equal(t, 1, store.Flushes())

	err = c.Init(ctx)
	assert.True(t, errors.IsAlreadyInitialized(err))
}

func TestInit_LoadsStoredValue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := sqlite.Open(dir)
	require.NoError(t, err)
	c, err := New(store, WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, c.Init(ctx))

	cfg := Defaults()
	cfg.Features.DarkMode = true
	cfg.Logging.Level = LevelDebug
	require.NoError(t, c.Save(ctx, cfg))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	c, err = New(reopened, WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, c.Init(ctx))
	assert.Equal(t, cfg, *c.Current())
}

func TestInit_StoreFailure(t *testing.T) {
	c, store := newCell(t)
	store.WithGetError(stderrors.New("unreadable"))

	err := c.Init(context.Background())
	assert.True(t, errors.IsStore(err))
	assert.False(t, c.Initialized())
}

func TestSave_PublishesAndNotifiesInOrder(t *testing.T) {
	ctx := context.Background()
	c, _ := newCell(t)

	var calls []string
	var seen []*AppConfig
	c.Watch(func(cfg *AppConfig) {
		calls = append(calls, "A")
		seen = append(seen, cfg)
	})
	c.Watch(func(cfg *AppConfig) {
		calls = append(calls, "B")
		seen = append(seen, cfg)
	})
	c.Watch(nil)

	require.NoError(t, c.Init(ctx))
	assert.Equal(t, []string{"A", "B"}, calls)

	calls, seen = nil, nil
	cfg := Defaults()
	cfg.Features.MaxConcurrent = 16
	require.NoError(t, c.Save(ctx, cfg))

	assert.Equal(t, []string{"A", "B"}, calls)
	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
	assert.Equal(t, cfg, *seen[0])
	assert.Same(t, c.Current(), seen[0])
}

func TestSave_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("before init", func(t *testing.T) {
		c, store := newCell(t)
		err := c.Save(ctx, Defaults())
		assert.True(t, errors.IsNotInitialized(err))
		assert.Zero(t, store.Count(StoreName))
	})

	t.Run("validation", func(t *testing.T) {
		c, store := newCell(t)
		require.NoError(t, c.Init(ctx))
		before := c.Current()
		flushes := store.Flushes()

		notified := 0
		c.Watch(func(*AppConfig) { notified++ })

		bad := []AppConfig{
			{Logging: Logging{Level: "Loud"}, Features: Features{MaxConcurrent: 8}},
			{Logging: Logging{Level: LevelInfo}, Features: Features{MaxConcurrent: 0}},
			{Logging: Logging{Level: LevelInfo}, Features: Features{MaxConcurrent: 33}},
		}
		for _, cfg := range bad {
			err := c.Save(ctx, cfg)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		}

		assert.Same(t, before, c.Current())
		assert.Zero(t, notified)
		assert.Equal(t, flushes, store.Flushes())
	})

	t.Run("store failure leaves value and observers alone", func(t *testing.T) {
		c, store := newCell(t)
		require.NoError(t, c.Init(ctx))
		before := c.Current()

		notified := 0
		c.Watch(func(*AppConfig) { notified++ })

		store.WithPutError(stderrors.New("disk full"))
		cfg := Defaults()
		cfg.Features.DarkMode = true
		err := c.Save(ctx, cfg)
		assert.True(t, errors.IsStore(err))

		assert.Same(t, before, c.Current())
		assert.Zero(t, notified)
	})
}

// readOnlyAfter accepts a fixed number of further puts, then refuses writes.
type readOnlyAfter struct {
	*mock.Store
	allowed int
}

func (s *readOnlyAfter) Put(ctx context.Context, bucket string, key, value []byte) error {
	if s.allowed <= 0 {
		return stderrors.New("read-only")
	}
	s.allowed--
	return s.Store.Put(ctx, bucket, key, value)
}

func TestSave_FlushFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("previous value restored", func(t *testing.T) {
		c, store := newCell(t)
		require.NoError(t, c.Init(ctx))
		before := c.Current()

		notified := 0
		c.Watch(func(*AppConfig) { notified++ })

		store.WithFlushError(stderrors.New("disk full"))
		cfg := Defaults()
		cfg.Features.MaxConcurrent = 3
		err := c.Save(ctx, cfg)
		assert.True(t, errors.IsStore(err))

		assert.Same(t, before, c.Current())
		assert.Zero(t, notified)

		store.WithFlushError(nil)
		fresh, err := New(store, WithLogger(nil))
		require.NoError(t, err)
		require.NoError(t, fresh.Init(ctx))
		assert.Equal(t, uint8(8), fresh.Current().Features.MaxConcurrent)
	})

	t.Run("stored value published when restore fails", func(t *testing.T) {
		store := &readOnlyAfter{Store: mock.New(), allowed: 1}
		c, err := New(store, WithLogger(nil))
		require.NoError(t, err)
		require.NoError(t, c.Init(ctx))

		var seen []uint8
		c.Watch(func(cfg *AppConfig) { seen = append(seen, cfg.Features.MaxConcurrent) })

		store.allowed = 1
		store.WithFlushError(stderrors.New("disk full"))
		cfg := Defaults()
		cfg.Features.MaxConcurrent = 3
		err = c.Save(ctx, cfg)
		assert.True(t, errors.IsStore(err))

		assert.Equal(t, uint8(3), c.Current().Features.MaxConcurrent)
		assert.Equal(t, []uint8{3}, seen)

		store.WithFlushError(nil)
		fresh, err := New(store, WithLogger(nil))
		require.NoError(t, err)
		require.NoError(t, fresh.Init(ctx))
		assert.Equal(t, *c.Current(), *fresh.Current())
	})
}

func TestSave_ObserverPanicDoesNotFailCommit(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	store := mock.New()
	c, err := New(store, WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))
	require.NoError(t, err)
	require.NoError(t, c.Init(ctx))

	reached := false
	c.Watch(func(*AppConfig) { panic("observer bug") })
	c.Watch(func(*AppConfig) { reached = true })

	cfg := Defaults()
	cfg.Logging.FileLogging = true
	require.NoError(t, c.Save(ctx, cfg))

	assert.True(t, reached)
	assert.True(t, c.Current().Logging.FileLogging)
	assert.Contains(t, logs.String(), "observer bug")
}

func TestCurrent_ReadersSeeWholeValues(t *testing.T) {
	ctx := context.Background()
	c, _ := newCell(t)
	require.NoError(t, c.Init(ctx))

	a := Defaults()
	b := Defaults()
	b.Logging.Level = LevelError
	b.Logging.FileLogging = true
	b.Features.DarkMode = true
	b.Features.MaxConcurrent = 32

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				cur := *c.Current()
				if cur != a && cur != b {
					t.Errorf("mixed configuration observed: %+v", cur)
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		next := a
		if i%2 == 0 {
			next = b
		}
		require.NoError(t, c.Save(ctx, next))
	}
	close(stop)
	wg.Wait()
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	c, store := newCell(t)

	assert.True(t, errors.IsNotInitialized(c.Reload(ctx)))
	require.NoError(t, c.Init(ctx))

	other, err := New(store, WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, other.Init(ctx))
	cfg := Defaults()
	cfg.Features.MaxConcurrent = 2
	require.NoError(t, other.Save(ctx, cfg))

	assert.Equal(t, uint8(8), c.Current().Features.MaxConcurrent)
	require.NoError(t, c.Reload(ctx))
	assert.Equal(t, uint8(2), c.Current().Features.MaxConcurrent)

	store.Clear()
	assert.True(t, errors.IsNotFound(c.Reload(ctx)))
}

func TestSyncLogLevel(t *testing.T) {
	original := observability.Level()
	defer observability.SetLevel(original)

	ctx := context.Background()
	c, _ := newCell(t)
	c.Watch(SyncLogLevel)
	require.NoError(t, c.Init(ctx))
	assert.Equal(t, slog.LevelInfo, observability.Level())

	cfg := Defaults()
	cfg.Logging.Level = LevelTrace
	require.NoError(t, c.Save(ctx, cfg))
	assert.Equal(t, observability.LevelTrace, observability.Level())

	cfg.Logging.Level = LevelOff
	require.NoError(t, c.Save(ctx, cfg))
	assert.Equal(t, observability.LevelOff, observability.Level())
}

func TestDataSet(t *testing.T) {
	ctx := context.Background()
	c, store := newCell(t)
	ds := c.DataSet()

	assert.Equal(t, StoreName, ds.ID())
	assert.Same(t, c.Schema(), ds.Schema())

	_, ok, err := ds.Get(ctx, ConfigKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Init(ctx))

	data, ok, err := ds.Get(ctx, ConfigKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"logging":{"level":"Info","file_logging":false},"features":{"dark_mode":false,"max_concurrent":8}}`, string(data))

	_, ok, err = ds.Get(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	notified := 0
	c.Watch(func(*AppConfig) { notified++ })

	payload := `{"logging":{"level":"Warn","file_logging":true},"features":{"dark_mode":true,"max_concurrent":4}}`
	require.NoError(t, ds.Save(ctx, []byte(payload)))
	assert.Equal(t, 1, notified)
	assert.Equal(t, LevelWarn, c.Current().Logging.Level)

	err = ds.Save(ctx, []byte(`{"logging":{"level":"Warn"},"features":{"dark_mode":true,"max_concurrent":4}}`))
	assert.True(t, errors.IsDecoding(err))
	assert.Equal(t, 1, notified)

	assert.True(t, errors.IsValidationError(ds.Remove(ctx, ConfigKey)))
	exists, err := ds.Exists(ctx, ConfigKey)
	require.NoError(t, err)
	assert.True(t, exists)

	next, err := ds.FindNextAvailableKey(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), next)

	var buf bytes.Buffer
	require.NoError(t, ds.Export(ctx, &buf, codec.FormatJSON))
	exported := buf.String()

	cfg := Defaults()
	require.NoError(t, c.Save(ctx, cfg))
	require.NoError(t, ds.Import(ctx, strings.NewReader(exported), codec.FormatJSON))
	assert.Equal(t, LevelWarn, c.Current().Logging.Level)
	assert.Equal(t, 1, store.Count(StoreName))
}

func TestDefaultCell(t *testing.T) {
	ResetDefault()
	defer ResetDefault()

	_, err := Default()
	assert.True(t, errors.IsNotInitialized(err))

	c, _ := newCell(t)
	require.NoError(t, SetDefault(c))
	got, err := Default()
	require.NoError(t, err)
	assert.Same(t, c, got)

	assert.True(t, errors.IsAlreadyInitialized(SetDefault(c)))
}
