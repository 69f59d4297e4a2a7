package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

func headerSheet(headers ...string) *workbook.Sheet {
	row := make([]workbook.Cell, len(headers))
	for i, h := range headers {
		row[i] = workbook.Text(h)
	}
	return workbook.NewSheet("s", [][]workbook.Cell{row})
}

func TestMissingHeaders(t *testing.T) {
	tests := []struct {
		name  string
		sheet *workbook.Sheet
		role  Role
		want  []string
	}{
		{
			name:  "all present",
			sheet: headerSheet("asset_name", "asset_usage_id", "final_value"),
			role:  RoleMarketAssets,
			want:  nil,
		},
		{
			name:  "case and whitespace insensitive",
			sheet: headerSheet(" Asset_Name", "ASSET_USAGE_ID ", "Final_Value"),
			role:  RoleCostAssets,
			want:  nil,
		},
		{
			name:  "extra and reordered columns tolerated",
			sheet: headerSheet("notes", "final_value", "asset_name", "asset_usage_id"),
			role:  RoleMarketAssets,
			want:  nil,
		},
		{
			name:  "missing final_value",
			sheet: headerSheet("asset_name", "asset_usage_id"),
			role:  RoleMarketAssets,
			want:  []string{"final_value"},
		},
		{
			name:  "absent sheet",
			sheet: nil,
			role:  RoleCostAssets,
			want:  []string{"asset_name", "asset_usage_id", "final_value"},
		},
		{
			name:  "empty sheet",
			sheet: workbook.NewSheet("s", nil),
			role:  RoleMarketAssets,
			want:  []string{"asset_name", "asset_usage_id", "final_value"},
		},
		{
			name:  "report keeps registry order",
			sheet: headerSheet("city", "title", "purpose_id", "value_premise_id", "report_type", "valued_at", "submitted_at", "inspection_date", "assumptions", "special_assumptions", "client_name", "owner_name", "telephone", "region"),
			role:  RoleReport,
			want:  []string{"value", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingHeaders(tt.sheet, tt.role)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MissingHeaders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRequiredHeaders_ReturnsCopy(t *testing.T) {
	first := RequiredHeaders(RoleReport)
	first[0] = "changed"

	if got := RequiredHeaders(RoleReport)[0]; got != "title" {
		t.Errorf("RequiredHeaders(RoleReport)[0] = %q, want title", got)
	}
	if got := len(RequiredHeaders(RoleReport)); got != 16 {
		t.Errorf("len(RequiredHeaders(RoleReport)) = %d, want 16", got)
	}
	if len(RequiredHeaders(Role(9))) != 0 {
		t.Error("unknown role should have no required headers")
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		header string
		want   FieldType
	}{
		{"final_value", FieldInteger},
		{"Final_Value", FieldInteger},
		{"purpose_id", FieldPurpose},
		{"value_premise_id", FieldPremise},
		{"valued_at", FieldDate},
		{"submitted_at", FieldDate},
		{" inspection_date ", FieldDate},
		{"value", FieldText},
		{"", FieldText},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.header); got != tt.want {
			t.Errorf("TypeOf(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestColumnTypes(t *testing.T) {
	s := headerSheet("asset_name", "final_value", "valued_at")
	want := []FieldType{FieldText, FieldInteger, FieldDate}
	if diff := cmp.Diff(want, ColumnTypes(s)); diff != "" {
		t.Errorf("ColumnTypes() mismatch (-want +got):\n%s", diff)
	}
}

func TestCodeSets(t *testing.T) {
	for _, n := range []float64{1, 2, 5, 6, 8, 9, 10, 12, 14} {
		if !IsPurposeCode(n) {
			t.Errorf("IsPurposeCode(%v) = false, want true", n)
		}
	}
	for _, n := range []float64{0, 3, 4, 7, 11, 13, 15, 1.5} {
		if IsPurposeCode(n) {
			t.Errorf("IsPurposeCode(%v) = true, want false", n)
		}
	}
	for _, n := range []float64{1, 2, 3, 4, 5} {
		if !IsPremiseCode(n) {
			t.Errorf("IsPremiseCode(%v) = false, want true", n)
		}
	}
	if IsPremiseCode(6) {
		t.Error("IsPremiseCode(6) = true, want false")
	}

	if got := FormatCodes(PurposeCodes()); got != "1, 2, 5, 6, 8, 9, 10, 12, 14" {
		t.Errorf("FormatCodes(PurposeCodes()) = %q", got)
	}
}

func TestDescribe(t *testing.T) {
	d := Describe()
	if len(d.Sheets) != 3 {
		t.Fatalf("len(Sheets) = %d, want 3", len(d.Sheets))
	}
	if d.Sheets[1].Role != "marketAssets" {
		t.Errorf("Sheets[1].Role = %q, want marketAssets", d.Sheets[1].Role)
	}
	if d.Rules["final_value"] != "integer" {
		t.Errorf("Rules[final_value] = %q, want integer", d.Rules["final_value"])
	}
}
