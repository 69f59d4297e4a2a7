package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/reportcheck/internal/core"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// FailedFilesError is returned when at least one workbook failed
// validation or could not be read.
type FailedFilesError struct {
	Invalid int
	Failed  int
}

func (e *FailedFilesError) Error() string {
	return fmt.Sprintf("%d workbook(s) failed validation, %d could not be read", e.Invalid, e.Failed)
}

// ExitCode is the process exit status for validation failures.
func (e *FailedFilesError) ExitCode() int {
	return 2
}

// FileReport is the validation outcome of one file.
type FileReport struct {
	File        string                 `json:"file" yaml:"file"`
	Valid       bool                   `json:"valid" yaml:"valid"`
	Errors      []core.ValidationError `json:"errors" yaml:"errors"`
	Results     core.ValidationResults `json:"results" yaml:"results"`
	Checks      []core.Check           `json:"checks" yaml:"checks"`
	EmptyFields []core.EmptyField      `json:"emptyFields" yaml:"emptyFields"`
	Corrected   string                 `json:"corrected,omitempty" yaml:"corrected,omitempty"`
	Failure     string                 `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Summary counts files by outcome.
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Valid   int `json:"valid" yaml:"valid"`
	Invalid int `json:"invalid" yaml:"invalid"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Report is the full output of the validate command.
type Report struct {
	Mode    core.Mode    `json:"mode" yaml:"mode"`
	Files   []FileReport `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

type validateOptions struct {
	mode         string
	correctedDir string
	format       string
	jobs         int
}

func newValidateCmd() *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file.xlsx>...",
		Short: "Validate one or more workbooks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runValidate(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), opts.format, report); err != nil {
				return err
			}
			if report.Summary.Invalid > 0 || report.Summary.Failed > 0 {
				return &FailedFilesError{Invalid: report.Summary.Invalid, Failed: report.Summary.Failed}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(core.ModeReport), "Validation mode: report or identifier")
	cmd.Flags().StringVarP(&opts.correctedDir, "corrected-dir", "o", "", "Write marked copies of failing workbooks to this directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json or yaml")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Number of workbooks validated in parallel")
	return cmd
}

// runValidate checks files in parallel. A file that cannot be read is
// reported as failed without stopping the others.
func runValidate(ctx context.Context, files []string, opts validateOptions) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	mode, err := core.ParseMode(opts.mode)
	if err != nil {
		return nil, err
	}
	if err := checkFormat(opts.format); err != nil {
		return nil, err
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}

	reports := make([]FileReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = checkFile(path, mode, opts.correctedDir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Mode: mode, Files: reports, Summary: Summary{Total: len(reports)}}
	for _, r := range reports {
		switch {
		case r.Failure != "":
			report.Summary.Failed++
		case r.Valid:
			report.Summary.Valid++
		default:
			report.Summary.Invalid++
		}
	}
	return report, nil
}

func checkFile(path string, mode core.Mode, correctedDir string) FileReport {
	start := time.Now()
	fr := FileReport{
		File:        path,
		Errors:      []core.ValidationError{},
		Checks:      []core.Check{},
		EmptyFields: []core.EmptyField{},
	}

	wb, err := readWorkbook(path)
	if err != nil {
		slog.Warn("workbook unreadable", "file", path, "error", err)
		fr.Failure = core.FormatUserError(err)
		return fr
	}

	result, err := core.Validate(wb, mode)
	if err != nil {
		fr.Failure = core.FormatUserError(err)
		return fr
	}

	fr.Valid = result.Valid()
	fr.Errors = result.Errors
	fr.Results = result.Summary
	fr.Checks = result.Summary.Checks()
	if result.Summary.HasEmptyFields {
		fr.EmptyFields = core.EmptyFields(wb, mode)
	}

	if !fr.Valid && correctedDir != "" {
		out, err := writeCorrected(wb, result.Errors, path, correctedDir)
		if err != nil {
			slog.Error("write corrected workbook", "file", path, "error", err)
			fr.Failure = err.Error()
		}
		fr.Corrected = out
	}

	slog.Info("workbook validated",
		"file", path,
		"errors", result.Summary.TotalErrors,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return fr
}

func readWorkbook(path string) (*workbook.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, core.ErrEmptyFile
	}
	return workbook.Decode(data)
}

// writeCorrected writes the marked copy as <name>_corrected.xlsx.
func writeCorrected(wb *workbook.Workbook, errs []core.ValidationError, path, dir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	file, err := core.Correct(wb, errs, base+"_corrected")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, file.Name)
	if err := os.WriteFile(out, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}
