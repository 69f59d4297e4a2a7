package core

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/JonMunkholm/reportcheck/internal/schema"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// ErrNoErrorsToMark is returned when a corrected file is requested for a
// workbook that passed validation.
var ErrNoErrorsToMark = errors.New("no validation errors to mark")

// Marker precedes each error message written into a corrected cell.
const Marker = "⚠"

// DefaultCorrectedName is used when the caller supplies no filename.
const DefaultCorrectedName = "corrected_file.xlsx"

// CorrectedFile is an encoded annotated workbook.
type CorrectedFile struct {
	Name string
	Data []byte
}

// Annotate returns a copy of wb with every error message appended to the
// cell it locates, as "<value> ⚠ <message>", and those cells highlighted.
// Errors on the same cell are appended in list order. Errors pointing at
// sheets the workbook does not have are ignored. wb is not modified.
func Annotate(wb *workbook.Workbook, errs []ValidationError) *workbook.Workbook {
	out := wb.Clone()
	if out == nil {
		out = workbook.New()
	}

	for _, e := range errs {
		s := out.Sheet(e.Sheet)
		if s == nil || e.Row < 0 || e.Col < 0 {
			continue
		}
		s.Set(e.Row, e.Col, markCell(s.Cell(e.Row, e.Col), e.Message))
	}
	return out
}

// markCell appends a marker and message to the cell's display text.
func markCell(cell workbook.Cell, msg string) workbook.Cell {
	var text string
	if cell.IsEmpty() {
		text = Marker + " " + msg
	} else {
		text = cell.String() + " " + Marker + " " + msg
	}
	return workbook.Text(text).WithHighlight()
}

// Correct annotates wb with errs and encodes the result as xlsx under name.
// The output holds one sheet per input sheet, named Sheet1, Sheet2, ...
// Identical inputs give identical cell content.
func Correct(wb *workbook.Workbook, errs []ValidationError, name string) (*CorrectedFile, error) {
	data, err := workbook.Encode(Annotate(wb, errs))
	if err != nil {
		return nil, fmt.Errorf("encode corrected workbook: %w", err)
	}
	return &CorrectedFile{Name: CorrectedName(name), Data: data}, nil
}

// CorrectedName normalises a caller-supplied filename: the base name only,
// with an .xlsx extension. Blank names fall back to DefaultCorrectedName.
func CorrectedName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = path.Base(name)
	if name == "" || name == "." || name == "/" {
		return DefaultCorrectedName
	}
	if !strings.EqualFold(path.Ext(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}

// FormatCellValue renders a cell for display under its column header. Date
// columns show DD/MM/YYYY, converting serial day numbers; everything else
// shows its spreadsheet text.
func FormatCellValue(cell workbook.Cell, header string) string {
	if !isDateHeader(header) {
		return cell.String()
	}
	switch cell.Kind() {
	case workbook.KindNumber:
		if t, ok := workbook.SerialToTime(cell.NumberValue()); ok {
			return workbook.FormatDate(t)
		}
	case workbook.KindDate:
		return workbook.FormatDate(cell.DateValue())
	}
	return cell.String()
}

func isDateHeader(header string) bool {
	return schema.TypeOf(header) == schema.FieldDate
}

// PreviewSheet is a rendered sheet grid for display.
type PreviewSheet struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Preview renders every sheet of wb with FormatCellValue, capping data rows
// per sheet at maxRows when maxRows is positive.
func Preview(wb *workbook.Workbook, maxRows int) []PreviewSheet {
	out := make([]PreviewSheet, 0, wb.Len())
	for i := 0; i < wb.Len(); i++ {
		s := wb.Sheet(i)
		ps := PreviewSheet{Name: s.Name, Headers: []string{}, Rows: [][]string{}}
		if s.IsEmpty() {
			out = append(out, ps)
			continue
		}
		headers := s.Headers()
		for c := range headers {
			ps.Headers = append(ps.Headers, s.Cell(0, c).String())
		}
		for r := 1; r < s.Len(); r++ {
			if maxRows > 0 && r > maxRows {
				break
			}
			row := make([]string, len(headers))
			for c, h := range headers {
				row[c] = FormatCellValue(s.Cell(r, c), h)
			}
			ps.Rows = append(ps.Rows, row)
		}
		out = append(out, ps)
	}
	return out
}
