/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/suparena/appdata/appconfig"
	"github.com/suparena/appdata/boundary"
	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/models"
	"github.com/suparena/appdata/observability"
	"github.com/suparena/appdata/registry"
	"github.com/suparena/appdata/settings"
)

// App is the wired process: one store, the registered record sets, the
// configuration cell and the boundary service in front of them.
type App struct {
	Settings settings.Settings
	Logger   *slog.Logger
	Store    datastore.Store
	Registry *registry.Registry
	Config   *appconfig.Cell
	Service  *boundary.Service
}

// settingsFor loads settings and applies the flags that were set.
func settingsFor(cmd *cobra.Command, opts *RootOptions) (settings.Settings, error) {
	s, err := settings.Load(opts.ConfigPath)
	if err != nil {
		return settings.Settings{}, WrapExitError(ExitCommandError, "load settings", err)
	}

	flags := cmd.Flags()
	override := func(name, value string, target *string) {
		if flags.Changed(name) {
			*target = value
		}
	}
	override("data-dir", opts.DataDir, &s.DataDir)
	override("backend", opts.Backend, &s.Backend)
	override("log-level", opts.LogLevel, &s.LogLevel)
	override("log-format", opts.LogFormat, &s.LogFormat)

	if err := s.Validate(); err != nil {
		return settings.Settings{}, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	return s, nil
}

// OpenApp wires an App from s. Logs go to logOut. The settings log level
// applies until the configuration cell is initialized; from then on the
// stored configuration governs the level.
func OpenApp(ctx context.Context, s settings.Settings, logOut io.Writer) (*App, error) {
	level, err := observability.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	observability.SetLevel(level)
	logger := observability.NewLogger(logOut, s.LogFormat)

	store, err := s.OpenStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", s.Backend, err)
	}
	if err := datastore.Init(store); err != nil {
		_ = store.Close()
		return nil, err
	}

	app, err := wire(ctx, store, logger)
	if err != nil {
		_ = datastore.Shutdown()
		return nil, err
	}
	app.Settings = s
	return app, nil
}

func wire(ctx context.Context, store datastore.Store, logger *slog.Logger) (*App, error) {
	metrics := observability.NewMetricsRecorder()

	reg := registry.New(logger)
	if err := models.Register(reg, store, logger); err != nil {
		return nil, err
	}

	cell, err := appconfig.New(store, appconfig.WithLogger(logger), appconfig.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}
	cell.Watch(appconfig.SyncLogLevel)
	if err := cell.Init(ctx); err != nil {
		return nil, err
	}
	if err := reg.Register(cell.DataSet()); err != nil {
		return nil, err
	}
	if err := appconfig.SetDefault(cell); err != nil {
		return nil, err
	}

	return &App{
		Logger:   logger,
		Store:    store,
		Registry: reg,
		Config:   cell,
		Service:  boundary.New(reg, cell, boundary.WithLogger(logger), boundary.WithMetrics(metrics)),
	}, nil
}

// Close releases the process-wide handles.
func (a *App) Close() error {
	appconfig.ResetDefault()
	return datastore.Shutdown()
}

// withApp opens the App for the duration of fn.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *App) error) error {
	s, err := settingsFor(cmd, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := OpenApp(ctx, s, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "start", err)
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Logger.Error("close store", "error", cerr)
		}
	}()

	if err := fn(ctx, app); err != nil {
		return WrapExitError(ExitFailure, cmd.Name(), err)
	}
	return nil
}
