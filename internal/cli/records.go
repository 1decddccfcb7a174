/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suparena/appdata/boundary"
	"github.com/suparena/appdata/codec"
)

// invoke runs a boundary command and prints its JSON result on one line.
func invoke(ctx context.Context, app *App, w io.Writer, command string, args boundary.Args) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	out, err := app.Service.Invoke(ctx, command, raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func parseKey(s string) (uint32, error) {
	k, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid key %q", s), err)
	}
	return uint32(k), nil
}

// readPayload returns the inline payload, the contents of file, or stdin
// when file is "-".
func readPayload(cmd *cobra.Command, inline, file string) ([]byte, error) {
	switch {
	case inline != "" && file != "":
		return nil, WrapExitError(ExitCommandError, "use either --data or --file", nil)
	case inline != "":
		return []byte(inline), nil
	case file == "-":
		return io.ReadAll(cmd.InOrStdin())
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, WrapExitError(ExitCommandError, "a payload is required (--data or --file)", nil)
	}
}

// formatFor picks the document format from the flag, then the file extension.
func formatFor(flag, path string) (codec.Format, error) {
	if flag == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			flag = "yaml"
		default:
			flag = "json"
		}
	}
	f, err := codec.ParseFormat(flag)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "invalid format", err)
	}
	return f, nil
}

// NewIDsCommand creates the ids command.
func NewIDsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "List registered record set identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "list_identifiers", boundary.Args{})
			})
		},
	}
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <id>",
		Short: "Print the JSON Schema of a record set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "get_schema", boundary.Args{ID: args[0]})
			})
		},
	}
}

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "Print the JSON Schemas of all record sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "list_schemas", boundary.Args{})
			})
		},
	}
}

// NewGetCommand creates the get command. A missing record prints null.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id> <key>",
		Short: "Print a record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "get_record", boundary.Args{ID: args[0], Key: key})
			})
		},
	}
}

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Data string
	File string
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <id>",
		Short: "Validate and store a record",
		Long: `Validate a JSON record against the set's schema and store it under
the key carried in the payload.

Example:
  appdata save UserProfile --data '{"id":1,"name":"Ada","email":"ada@example.com","age":36,"is_active":true}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readPayload(cmd, opts.Data, opts.File)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return app.Service.SaveRecord(ctx, args[0], data)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "record as JSON")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the record from a file (- for stdin)")

	return cmd
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id> <key>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return app.Service.RemoveRecord(ctx, args[0], key)
			})
		},
	}
}

// NewExistsCommand creates the exists command.
func NewExistsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <id> <key>",
		Short: "Report whether a record is stored",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "exists_record", boundary.Args{ID: args[0], Key: key})
			})
		},
	}
}

// NewNextKeyCommand creates the next-key command.
func NewNextKeyCommand(rootOpts *RootOptions) *cobra.Command {
	var start uint32

	cmd := &cobra.Command{
		Use:   "next-key <id>",
		Short: "Print the first unused key at or after --start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return invoke(ctx, app, cmd.OutOrStdout(), "find_next_key", boundary.Args{ID: args[0], Start: start})
			})
		},
	}

	cmd.Flags().Uint32Var(&start, "start", 0, "first key to consider")

	return cmd
}

// TransferOptions holds flags for the export and import commands.
type TransferOptions struct {
	*RootOptions
	Format string
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write every record of a set as a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFor(opts.Format, opts.Output)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				w := cmd.OutOrStdout()
				if opts.Output != "" && opts.Output != "-" {
					f, err := os.Create(opts.Output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return app.Service.ExportRecords(ctx, args[0], w, format)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "document format (json|yaml); defaults from the output extension")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <id> <file>",
		Short: "Load a document written by export",
		Long: `Load a document written by export. Every record is validated before
any is written; records with the same key are replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFor(opts.Format, args[1])
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return WrapExitError(ExitCommandError, "open document", err)
				}
				defer f.Close()
				r = f
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				return app.Service.ImportRecords(ctx, args[0], r, format)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "document format (json|yaml); defaults from the file extension")

	return cmd
}
