package core

import (
	"testing"
	"time"

	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name string
		cell workbook.Cell
		want bool
	}{
		{"serial number", workbook.Number(44927), true},
		{"serial with time of day", workbook.Number(44927.75), true},
		{"serial before 1900", workbook.Number(1), false},
		{"serial after 2100", workbook.Number(80000), false},
		{"native date", workbook.Date(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)), true},
		{"native date out of range", workbook.Date(time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)), false},
		{"text date", workbook.Text("15/06/2024"), true},
		{"text single digits", workbook.Text("1/1/2100"), true},
		{"month 13", workbook.Text("31/13/2024"), false},
		{"month 0", workbook.Text("10/0/2024"), false},
		{"day 0", workbook.Text("0/1/2024"), false},
		{"day 32", workbook.Text("32/01/2024"), false},
		{"day not checked against month", workbook.Text("31/02/2024"), true},
		{"year 1899", workbook.Text("01/01/1899"), false},
		{"year 2101", workbook.Text("01/01/2101"), false},
		{"iso layout", workbook.Text("2024-01-01"), false},
		{"two parts", workbook.Text("01/2024"), false},
		{"non numeric part", workbook.Text("aa/01/2024"), false},
		{"trailing text on year", workbook.Text("15/06/2024 10:00"), true},
		{"padded parts", workbook.Text(" 15/ 06/ 2024"), true},
		{"bool", workbook.Bool(true), false},
		{"empty", workbook.Empty(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateDate(tt.cell); got != tt.want {
				t.Errorf("ValidateDate(%v) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestValidateCell(t *testing.T) {
	tests := []struct {
		name     string
		cell     workbook.Cell
		header   string
		wantCode string
		wantMsg  string
	}{
		{"empty cell", workbook.Empty(), "title", CodeEmpty, MsgEmpty},
		{"blank text", workbook.Text("   "), "final_value", CodeEmpty, MsgEmpty},
		{"empty short-circuits date rule", workbook.Empty(), "valued_at", CodeEmpty, MsgEmpty},
		{"plain text passes", workbook.Text("anything"), "title", "", ""},
		{"unknown column passes", workbook.Number(3.5), "notes", "", ""},

		{"whole final value", workbook.Number(1000), "final_value", "", ""},
		{"numeric text final value", workbook.Text("12"), "final_value", "", ""},
		{"bool final value", workbook.Bool(true), "final_value", "", ""},
		{"fraction", workbook.Number(10.5), "final_value", CodeInteger, MsgInteger},
		{"non numeric final value", workbook.Text("abc"), "final_value", CodeInteger, MsgInteger},
		{"header case ignored", workbook.Number(0.1), "Final_Value", CodeInteger, MsgInteger},

		{"allowed purpose", workbook.Number(14), "purpose_id", "", ""},
		{"purpose as text", workbook.Text("2"), "purpose_id", "", ""},
		{"purpose not allowed", workbook.Number(3), "purpose_id", CodePurpose,
			"Invalid purpose ID - Allowed: 1, 2, 5, 6, 8, 9, 10, 12, 14"},
		{"purpose fraction", workbook.Number(1.5), "purpose_id", CodePurpose,
			"Invalid purpose ID - Allowed: 1, 2, 5, 6, 8, 9, 10, 12, 14"},

		{"allowed premise", workbook.Number(5), "value_premise_id", "", ""},
		{"premise not allowed", workbook.Number(6), "value_premise_id", CodePremise,
			"Invalid value premise - Allowed: 1, 2, 3, 4, 5"},
		{"premise text", workbook.Text("market"), "value_premise_id", CodePremise,
			"Invalid value premise - Allowed: 1, 2, 3, 4, 5"},

		{"valid date", workbook.Text("01/02/2024"), "submitted_at", "", ""},
		{"invalid date", workbook.Text("31/13/2024"), "valued_at", CodeDate,
			"Invalid date in valued_at field - must be in DD/MM/YYYY format"},
		{"date message uses canonical header", workbook.Text("x"), " Inspection_Date ", CodeDate,
			"Invalid date in inspection_date field - must be in DD/MM/YYYY format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCell(tt.cell, tt.header)
			if tt.wantCode == "" {
				if got != nil {
					t.Errorf("ValidateCell() = %q, want nil", got.Message)
				}
				return
			}
			if got == nil {
				t.Fatalf("ValidateCell() = nil, want %s", tt.wantCode)
			}
			if got.Code != tt.wantCode {
				t.Errorf("ValidateCell() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("ValidateCell() message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestIsWholeNumber(t *testing.T) {
	tests := []struct {
		cell workbook.Cell
		want bool
	}{
		{workbook.Number(0), true},
		{workbook.Number(-42), true},
		{workbook.Number(42.01), false},
		{workbook.Text("7"), true},
		{workbook.Text("7.5"), false},
		{workbook.Text("seven"), false},
		{workbook.Bool(false), true},
		{workbook.Empty(), false},
	}

	for _, tt := range tests {
		if got := IsWholeNumber(tt.cell); got != tt.want {
			t.Errorf("IsWholeNumber(%v) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Sheet: 1, Row: 2, Col: 3, Message: MsgEmpty, Code: CodeEmpty}
	want := "sheet 1 row 2 col 3: " + MsgEmpty
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
