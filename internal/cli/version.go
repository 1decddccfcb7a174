/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/appdata"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := appdata.GetVersionInfo()
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, info)
			fmt.Fprintf(w, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(w, "Record encoding: %s\n", info.RecordEncoding)
			return nil
		},
	}
}
