package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/reportcheck/internal/core"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// writeWorkbook saves a two-sheet asset workbook. An empty assetName
// leaves a required cell blank.
func writeWorkbook(t *testing.T, dir, name, assetName string) string {
	t.Helper()
	first := workbook.Text(assetName)
	if assetName == "" {
		first = workbook.Empty()
	}
	header := []workbook.Cell{workbook.Text("asset_name"), workbook.Text("asset_usage_id"), workbook.Text("final_value")}
	wb := workbook.New(
		workbook.NewSheet("Market", [][]workbook.Cell{header, {first, workbook.Text("U1"), workbook.Number(600)}}),
		workbook.NewSheet("Cost", [][]workbook.Cell{header, {workbook.Text("Land"), workbook.Text("U2"), workbook.Number(400)}}),
	)
	data, err := workbook.Encode(wb)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_AllValid(t *testing.T) {
	dir := t.TempDir()
	a := writeWorkbook(t, dir, "a.xlsx", "Tower")
	b := writeWorkbook(t, dir, "b.xlsx", "Mall")

	out, err := execute(t, "validate", "--mode", "identifier", a, b)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Summary != (Summary{Total: 2, Valid: 2}) {
		t.Errorf("Summary = %+v, want 2 valid", report.Summary)
	}
	if report.Files[0].File != a || report.Files[1].File != b {
		t.Errorf("files out of argument order: %s, %s", report.Files[0].File, report.Files[1].File)
	}
	if report.Mode != core.ModeIdentifier {
		t.Errorf("Mode = %q, want identifier", report.Mode)
	}
}

func TestValidate_FailuresAndCorrected(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "fixed")
	good := writeWorkbook(t, dir, "good.xlsx", "Tower")
	bad := writeWorkbook(t, dir, "bad.xlsx", "")
	junk := filepath.Join(dir, "junk.xlsx")
	if err := os.WriteFile(junk, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "validate", "-m", "id", "-o", outDir, "-j", "2", good, bad, junk)

	var failed *FailedFilesError
	if !errors.As(err, &failed) {
		t.Fatalf("Execute() error = %v, want FailedFilesError", err)
	}
	if failed.Invalid != 1 || failed.Failed != 1 || failed.ExitCode() != 2 {
		t.Errorf("FailedFilesError = %+v", failed)
	}

	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	badReport := report.Files[1]
	if badReport.Valid || len(badReport.Errors) != 1 || badReport.Errors[0].Code != core.CodeEmpty {
		t.Errorf("bad report = %+v, want one empty-field error", badReport)
	}
	if len(badReport.EmptyFields) != 1 || badReport.EmptyFields[0].ColumnName != "asset_name" {
		t.Errorf("EmptyFields = %+v, want asset_name", badReport.EmptyFields)
	}

	wantPath := filepath.Join(outDir, "bad_corrected.xlsx")
	if badReport.Corrected != wantPath {
		t.Errorf("Corrected = %q, want %q", badReport.Corrected, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("corrected file: %v", err)
	}
	wb, err := workbook.Decode(data)
	if err != nil {
		t.Fatalf("Decode(corrected) error = %v", err)
	}
	if got := wb.Sheet(0).Cell(1, 0).String(); !strings.HasPrefix(got, core.Marker) {
		t.Errorf("marked cell = %q, want marker", got)
	}

	if report.Files[0].Corrected != "" {
		t.Error("valid workbook got a corrected copy")
	}
	if !strings.Contains(report.Files[2].Failure, "FILE002") {
		t.Errorf("junk Failure = %q, want FILE002", report.Files[2].Failure)
	}
}

func TestValidate_YAML(t *testing.T) {
	dir := t.TempDir()
	a := writeWorkbook(t, dir, "a.xlsx", "Tower")

	out, err := execute(t, "validate", "--mode", "identifier", "--format", "yaml", a)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var report Report
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if report.Summary.Valid != 1 || !report.Files[0].Valid {
		t.Errorf("report = %+v, want one valid file", report)
	}
	if !strings.Contains(out, "emptyFields: []") {
		t.Errorf("YAML output missing emptyFields key:\n%s", out)
	}
}

func TestValidate_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeWorkbook(t, dir, "a.xlsx", "Tower")

	tests := []struct {
		name string
		args []string
	}{
		{"no files", []string{"validate"}},
		{"unknown mode", []string{"validate", "--mode", "full", a}},
		{"unknown format", []string{"validate", "--format", "xml", a}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("Execute() error = nil, want usage error")
			}
			var failed *FailedFilesError
			if errors.As(err, &failed) {
				t.Errorf("Execute() error = %v, want usage error not FailedFilesError", err)
			}
		})
	}
}

func TestSchemaCmd(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, `"final_value"`) || !strings.Contains(out, `"purposeCodes"`) {
		t.Errorf("schema output missing fields:\n%s", out)
	}

	out, err = execute(t, "schema", "-f", "yaml")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "premiseCodes:") {
		t.Errorf("yaml schema output missing premiseCodes:\n%s", out)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := map[string]bool{"validate": false, "schema": false, "history": false}
	for _, sub := range newRootCmd().Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s command not registered", name)
		}
	}
}

func TestHistoryCmd_NoDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	for _, args := range [][]string{{"history", "list"}, {"history", "prune", "--days", "30"}} {
		if _, err := execute(t, args...); !errors.Is(err, errNoDatabase) {
			t.Errorf("%v error = %v, want errNoDatabase", args, err)
		}
	}
}

func TestHistoryCmd_NegativeDays(t *testing.T) {
	if _, err := execute(t, "history", "prune", "--days", "-1"); err == nil {
		t.Error("Execute() error = nil, want negative days error")
	}
}
