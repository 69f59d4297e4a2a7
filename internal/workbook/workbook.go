package workbook

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row is a fixed-width run of cells. Within a Sheet every row has the
// sheet's width; cells past the end of the source row are Empty.
type Row []Cell

// Sheet is an ordered set of rows. Row 0 is the header row.
type Sheet struct {
	// Name is the sheet name from the source file (informational only).
	Name string
	// Rows holds the header row followed by data rows.
	Rows []Row

	// sourceWidths keeps each row's length before padding.
	sourceWidths []int
}

// NewSheet builds a sheet from ragged rows, padding every row with Empty
// cells up to the widest row. The input slices are not retained.
func NewSheet(name string, rows [][]Cell) *Sheet {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	s := &Sheet{
		Name:         name,
		Rows:         make([]Row, len(rows)),
		sourceWidths: make([]int, len(rows)),
	}
	for i, r := range rows {
		row := make(Row, width)
		copy(row, r)
		s.Rows[i] = row
		s.sourceWidths[i] = len(r)
	}
	return s
}

// IsEmpty reports whether the sheet is absent or has no rows.
func (s *Sheet) IsEmpty() bool {
	return s == nil || len(s.Rows) == 0
}

// Len returns the number of rows including the header row.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Width returns the widest row length observed in the sheet.
func (s *Sheet) Width() int {
	if s.IsEmpty() {
		return 0
	}
	return len(s.Rows[0])
}

// RowLen returns the length of row r as it appeared in the source, before
// padding. Out-of-range rows have length 0.
func (s *Sheet) RowLen(r int) int {
	if s == nil || r < 0 || r >= len(s.Rows) {
		return 0
	}
	if r < len(s.sourceWidths) {
		return s.sourceWidths[r]
	}
	return len(s.Rows[r])
}

// HeaderLen returns the source length of the header row.
func (s *Sheet) HeaderLen() int {
	return s.RowLen(0)
}

// Cell returns the cell at (r, c). Reads outside the sheet yield Empty.
func (s *Sheet) Cell(r, c int) Cell {
	if s == nil || r < 0 || r >= len(s.Rows) || c < 0 || c >= len(s.Rows[r]) {
		return Empty()
	}
	return s.Rows[r][c]
}

// Headers returns the canonical header name for every column of the sheet.
// Columns without a header cell yield "".
func (s *Sheet) Headers() []string {
	width := s.Width()
	headers := make([]string, width)
	for c := 0; c < width; c++ {
		headers[c] = CanonicalHeader(s.Cell(0, c).String())
	}
	return headers
}

// HeaderIndex returns the column of the first header matching name
// case-insensitively, or -1.
func (s *Sheet) HeaderIndex(name string) int {
	if s.IsEmpty() {
		return -1
	}
	want := CanonicalHeader(name)
	for c, h := range s.Headers() {
		if h == want {
			return c
		}
	}
	return -1
}

// ColumnName returns the raw header text of column c, or "Column N" when
// the header cell is blank.
func (s *Sheet) ColumnName(c int) string {
	h := strings.TrimSpace(s.Cell(0, c).String())
	if h == "" {
		return "Column " + strconv.Itoa(c+1)
	}
	return h
}

// Clone returns a copy of the sheet that shares no row storage with s.
func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	out := &Sheet{
		Name:         s.Name,
		Rows:         make([]Row, len(s.Rows)),
		sourceWidths: append([]int(nil), s.sourceWidths...),
	}
	for i, r := range s.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

// Set writes a cell, growing the sheet when (r, c) lies outside it.
func (s *Sheet) Set(r, c int, cell Cell) {
	for len(s.Rows) <= r {
		s.Rows = append(s.Rows, make(Row, s.Width()))
		s.sourceWidths = append(s.sourceWidths, 0)
	}
	if c >= s.Width() {
		width := c + 1
		for i := range s.Rows {
			grown := make(Row, width)
			copy(grown, s.Rows[i])
			s.Rows[i] = grown
		}
	}
	s.Rows[r][c] = cell
	if len(s.sourceWidths) > r && s.sourceWidths[r] < c+1 {
		s.sourceWidths[r] = c + 1
	}
}

// Workbook is an ordered list of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// New builds a workbook from sheets.
func New(sheets ...*Sheet) *Workbook {
	return &Workbook{Sheets: sheets}
}

// Len returns the number of sheets.
func (w *Workbook) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Sheets)
}

// Sheet returns sheet i, or nil when it does not exist.
func (w *Workbook) Sheet(i int) *Sheet {
	if w == nil || i < 0 || i >= len(w.Sheets) {
		return nil
	}
	return w.Sheets[i]
}

// Clone copies the workbook row by row and cell by cell.
func (w *Workbook) Clone() *Workbook {
	if w == nil {
		return nil
	}
	out := &Workbook{Sheets: make([]*Sheet, len(w.Sheets))}
	for i, s := range w.Sheets {
		out.Sheets[i] = s.Clone()
	}
	return out
}

// SheetName returns the sequential name used for sheet i in written
// workbooks: Sheet1, Sheet2, ...
func SheetName(i int) string {
	return "Sheet" + strconv.Itoa(i+1)
}

// CanonicalHeader normalises a header for comparison: NFKC, trimmed,
// lower-cased.
func CanonicalHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
