package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/reportcheck/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print required headers, column rules and accepted codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, schema.Describe())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or yaml")
	return cmd
}
