package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrDecode indicates the uploaded bytes could not be read as a workbook.
var ErrDecode = errors.New("invalid xlsx format")

// ErrEncode indicates a workbook could not be serialised.
var ErrEncode = errors.New("workbook encode failed")

// Emphasis colours applied to highlighted cells.
const (
	HighlightFill = "FFFF00"
	HighlightFont = "FF0000"
)

// dateNumFmt is the number format written for date cells.
const dateNumFmt = "dd/mm/yyyy"

// Decode reads xlsx bytes into a Workbook, one Sheet per worksheet in
// workbook order. Any failure to open the file is reported as ErrDecode;
// an empty Workbook is never returned in place of an error.
func Decode(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrDecode, name, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// readSheet extracts the typed cells of one worksheet.
func readSheet(f *excelize.File, name string) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]Cell, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			cells[r][c] = readCell(f, name, ref, raw)
		}
	}
	return NewSheet(name, cells), nil
}

// readCell types a raw cell value using the stored cell type and, for
// numbers, the cell's number format.
func readCell(f *excelize.File, sheet, ref, raw string) Cell {
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return ParseValue(raw)
	}

	switch typ {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return Date(t)
		}
		return ParseValue(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeFormula:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Text(raw)
		}
		if isDateCell(f, sheet, ref) {
			if t, ok := SerialToTime(n); ok {
				return Date(t)
			}
		}
		return Number(n)
	default:
		return Text(raw)
	}
}

// isDateCell reports whether the cell's number format renders a date.
func isDateCell(f *excelize.File, sheet, ref string) bool {
	styleID, err := f.GetCellStyle(sheet, ref)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return isBuiltinDateFormat(style.NumFmt)
}

// isBuiltinDateFormat reports whether a built-in number format id is a
// date or date-time format.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormat reports whether a custom format code contains day or year
// tokens outside quoted literals and bracketed sections.
func isDateFormat(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	stripped := strings.ToLower(b.String())
	return strings.ContainsAny(stripped, "dy")
}

// Encode serialises the workbook to xlsx bytes. Sheets are written in
// order under sequential names (Sheet1, Sheet2, ...); highlighted cells get
// a yellow fill and a bold red font; date cells are formatted DD/MM/YYYY.
func Encode(wb *Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	highlight, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{HighlightFill}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: HighlightFont},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: highlight style: %v", ErrEncode, err)
	}
	dateFmt := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, fmt.Errorf("%w: date style: %v", ErrEncode, err)
	}

	for i, sheet := range wb.Sheets {
		name := SheetName(i)
		if i > 0 {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrEncode, name, err)
			}
		}
		if err := writeSheet(f, name, sheet, highlight, dateStyle); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrEncode, name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// writeSheet writes every non-empty or highlighted cell of sheet.
func writeSheet(f *excelize.File, name string, sheet *Sheet, highlight, dateStyle int) error {
	if sheet.IsEmpty() {
		return nil
	}
	for r, row := range sheet.Rows {
		for c, cell := range row {
			if cell.Kind() == KindEmpty && !cell.Highlighted() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := writeCell(f, name, ref, cell); err != nil {
				return err
			}

			style := 0
			switch {
			case cell.Highlighted():
				style = highlight
			case cell.Kind() == KindDate:
				style = dateStyle
			}
			if style != 0 {
				if err := f.SetCellStyle(name, ref, ref, style); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeCell(f *excelize.File, sheet, ref string, cell Cell) error {
	switch cell.Kind() {
	case KindText:
		return f.SetCellStr(sheet, ref, cell.TextValue())
	case KindNumber:
		return f.SetCellFloat(sheet, ref, cell.NumberValue(), -1, 64)
	case KindBool:
		return f.SetCellBool(sheet, ref, cell.BoolValue())
	case KindDate:
		return f.SetCellValue(sheet, ref, cell.DateValue())
	default:
		return nil
	}
}
