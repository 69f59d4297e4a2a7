package workbook

import "testing"

func TestNewSheet_PadsRaggedRows(t *testing.T) {
	s := NewSheet("assets", [][]Cell{
		{Text("asset_name"), Text("asset_usage_id"), Text("final_value")},
		{Text("Villa")},
		{},
	})

	if got := s.Width(); got != 3 {
		t.Fatalf("Width() = %d, want 3", got)
	}
	for i, row := range s.Rows {
		if len(row) != 3 {
			t.Errorf("row %d length = %d, want 3", i, len(row))
		}
	}
	if got := s.RowLen(1); got != 1 {
		t.Errorf("RowLen(1) = %d, want 1", got)
	}
	if !s.Cell(1, 2).IsEmpty() {
		t.Error("padded cell should be empty")
	}
	if !s.Cell(10, 10).IsEmpty() {
		t.Error("out-of-range read should be empty")
	}
}

func TestSheet_Headers(t *testing.T) {
	s := NewSheet("report", [][]Cell{
		{Text("  Title "), Text("PURPOSE_ID"), Empty(), Number(5)},
	})

	want := []string{"title", "purpose_id", "", "5"}
	got := s.Headers()
	if len(got) != len(want) {
		t.Fatalf("Headers() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Headers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := s.HeaderIndex("Purpose_Id"); got != 1 {
		t.Errorf("HeaderIndex(Purpose_Id) = %d, want 1", got)
	}
	if got := s.HeaderIndex("value"); got != -1 {
		t.Errorf("HeaderIndex(value) = %d, want -1", got)
	}
	if got := s.ColumnName(2); got != "Column 3" {
		t.Errorf("ColumnName(2) = %q, want %q", got, "Column 3")
	}
}

func TestSheet_NilSafe(t *testing.T) {
	var s *Sheet
	if !s.IsEmpty() {
		t.Error("nil sheet should be empty")
	}
	if s.Width() != 0 || s.Len() != 0 {
		t.Error("nil sheet should have no rows or columns")
	}
	if s.HeaderIndex("value") != -1 {
		t.Error("nil sheet HeaderIndex should be -1")
	}
	if s.Clone() != nil {
		t.Error("nil sheet Clone should be nil")
	}
}

func TestWorkbook_CloneIsIndependent(t *testing.T) {
	wb := New(NewSheet("a", [][]Cell{{Text("h")}, {Number(1)}}))
	clone := wb.Clone()

	clone.Sheets[0].Rows[1][0] = Text("changed")

	if got := wb.Sheet(0).Cell(1, 0); !got.Equal(Number(1)) {
		t.Errorf("original mutated through clone: %v", got)
	}
}

func TestSheet_SetGrows(t *testing.T) {
	s := NewSheet("a", [][]Cell{{Text("h")}})
	s.Set(2, 3, Text("x"))

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if s.Width() != 4 {
		t.Errorf("Width() = %d, want 4", s.Width())
	}
	if got := s.Cell(2, 3); !got.Equal(Text("x")) {
		t.Errorf("Cell(2,3) = %v, want x", got)
	}
}

func TestCanonicalHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Final_Value", "final_value"},
		{"  value  ", "value"},
		{"ＶＡＬＵＥ", "value"}, // full-width letters fold under NFKC
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalHeader(tt.in); got != tt.want {
			t.Errorf("CanonicalHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName(0); got != "Sheet1" {
		t.Errorf("SheetName(0) = %q, want Sheet1", got)
	}
	if got := SheetName(2); got != "Sheet3" {
		t.Errorf("SheetName(2) = %q, want Sheet3", got)
	}
}
