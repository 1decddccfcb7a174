/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suparena/appdata/boundary"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Args string
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <command>",
		Short: "Run a boundary command with JSON arguments",
		Long: fmt.Sprintf(`Run a boundary command with JSON arguments and print its JSON result.

Commands:
  %s

Example:
  appdata invoke get_record --args '{"id":"UserProfile","key":1}'`, strings.Join(boundary.Commands(), "\n  ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App) error {
				out, err := app.Service.Invoke(ctx, args[0], []byte(opts.Args))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "{}", "command arguments as JSON")

	return cmd
}
