package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/reportcheck/internal/logging"
)

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:   "reportcheck",
		Short: "Validate valuation report workbooks",
		Long: `reportcheck checks valuation workbooks for required headers, field
formats, purpose and premise codes, and that the report value matches the
sum of the asset final values. Failing workbooks can be written back with
the offending cells marked.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, logFormat))
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(newValidateCmd(), newSchemaCmd(), newHistoryCmd())
	return root
}

// writeOutput encodes v to w in the given format.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return checkFormat(format)
	}
}

func checkFormat(format string) error {
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	return nil
}
