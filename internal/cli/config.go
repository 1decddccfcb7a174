/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/suparena/appdata/boundary"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change the shared application configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "get_config", boundary.Args{})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "get_config_schema", boundary.Args{})
			})
		},
	})

	cmd.AddCommand(newConfigSetCommand(rootOpts))

	return cmd
}

func newConfigSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the configuration",
		Long: `Replace the whole configuration. The payload must carry every field.

Example:
  appdata config set --data '{"logging":{"level":"Debug","file_logging":false},"features":{"dark_mode":true,"max_concurrent":4}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readPayload(cmd, opts.Data, opts.File)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return app.Service.SaveConfigJSON(ctx, data)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "configuration as JSON")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the configuration from a file (- for stdin)")

	return cmd
}
