/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Backend    string
	LogLevel   string
	LogFormat  string
}

// NewRootCommand creates the root command for the appdata CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "appdata",
		Short: "Typed application data over an embedded store",
		Long: `appdata manages typed record sets and the shared application
configuration kept in an embedded key-value store.

Record payloads are JSON. Each set is identified by its store name
(see "appdata ids") and validated against its JSON Schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "settings file (.yaml, .yml or .json)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory holding the sqlite store")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "store backend (sqlite|dynamodb)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "bootstrap log level (trace|debug|info|warn|error|off)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")

	// Add subcommands
	cmd.AddCommand(NewIDsCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewSchemasCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewExistsCommand(opts))
	cmd.AddCommand(NewNextKeyCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewInvokeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
