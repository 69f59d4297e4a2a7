package core

// validation.go holds the per-cell rules for valuation workbooks.
//
// Every cell is checked in two steps:
//  1. Empty check: an Empty cell or blank text fails with VAL001 and no
//     further rule runs on that cell.
//  2. Column rule: selected by the column's header name (integer, purpose
//     code, value premise code, calendar date). Plain text columns have no
//     rule beyond the empty check.
//
// Numeric rules coerce permissively: numeric text converts, booleans count
// as 1 or 0, and non-numeric text fails the rule rather than the empty check.

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/reportcheck/internal/schema"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// Rule codes attached to each ValidationError.
const (
	CodeEmpty      = "VAL001"
	CodeInteger    = "VAL002"
	CodePurpose    = "VAL003"
	CodePremise    = "VAL004"
	CodeDate       = "VAL005"
	CodeHeaders    = "VAL006"
	CodeAggregate  = "VAL007"
	CodeSheetCount = "VAL008"
)

// Fixed rule messages. Date and header messages are built per column or sheet.
const (
	MsgEmpty      = "Empty field - please fill this field"
	MsgInteger    = "Final value must be an integer"
	MsgAggregate  = "Report value does not equal sum of asset final values"
	MsgSheetCount = "Identifier workbook requires exactly 2 sheets"
)

// Date bounds accepted by ValidateDate.
const (
	minYear = 1900
	maxYear = 2100
)

// ValidationError locates one rule violation. Coordinates are 0-based
// physical workbook positions; row 0 is the header row.
type ValidationError struct {
	Sheet   int    `json:"sheetIndex" yaml:"sheetIndex"`
	Row     int    `json:"rowIndex" yaml:"rowIndex"`
	Col     int    `json:"colIndex" yaml:"colIndex"`
	Message string `json:"message" yaml:"message"`
	Code    string `json:"code" yaml:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("sheet %d row %d col %d: %s", e.Sheet, e.Row, e.Col, e.Message)
}

// RuleError is a single failed cell rule, before it is placed at a position.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// at places the rule failure at a cell.
func (e *RuleError) at(sheet, row, col int) ValidationError {
	return ValidationError{Sheet: sheet, Row: row, Col: col, Message: e.Message, Code: e.Code}
}

var (
	errEmpty   = &RuleError{Code: CodeEmpty, Message: MsgEmpty}
	errInteger = &RuleError{Code: CodeInteger, Message: MsgInteger}
	errPurpose = &RuleError{
		Code:    CodePurpose,
		Message: "Invalid purpose ID - Allowed: " + schema.FormatCodes(schema.PurposeCodes()),
	}
	errPremise = &RuleError{
		Code:    CodePremise,
		Message: "Invalid value premise - Allowed: " + schema.FormatCodes(schema.PremiseCodes()),
	}
)

// dateError builds the date rule failure for a column.
func dateError(header string) *RuleError {
	return &RuleError{
		Code:    CodeDate,
		Message: fmt.Sprintf("Invalid date in %s field - must be in DD/MM/YYYY format", header),
	}
}

// headerError builds the synthetic missing-headers failure for a sheet.
func headerError(missing []string) *RuleError {
	return &RuleError{
		Code:    CodeHeaders,
		Message: "Missing required headers: " + strings.Join(missing, ", "),
	}
}

// ValidateCell checks one cell against the empty check and the rule for its
// header. It returns nil when the cell passes.
func ValidateCell(cell workbook.Cell, header string) *RuleError {
	return checkCell(cell, schema.TypeOf(header), workbook.CanonicalHeader(header))
}

// checkCell is ValidateCell with the column rule already resolved.
func checkCell(cell workbook.Cell, ft schema.FieldType, header string) *RuleError {
	if cell.IsEmpty() {
		return errEmpty
	}

	switch ft {
	case schema.FieldInteger:
		if !IsWholeNumber(cell) {
			return errInteger
		}
	case schema.FieldPurpose:
		if n, ok := cell.Float(); !ok || !schema.IsPurposeCode(n) {
			return errPurpose
		}
	case schema.FieldPremise:
		if n, ok := cell.Float(); !ok || !schema.IsPremiseCode(n) {
			return errPremise
		}
	case schema.FieldDate:
		if !ValidateDate(cell) {
			return dateError(header)
		}
	}
	return nil
}

// IsWholeNumber reports whether the cell coerces to a number without a
// fractional part.
func IsWholeNumber(cell workbook.Cell) bool {
	n, ok := cell.Float()
	return ok && n == math.Trunc(n)
}

// ValidateDate reports whether the cell decodes to a calendar date with
// day 1-31, month 1-12 and year 1900-2100. Native dates, serial day numbers
// and DD/MM/YYYY text are accepted. Days are not checked against the
// month, so 31/02/2024 passes.
func ValidateDate(cell workbook.Cell) bool {
	var day, month, year int

	switch cell.Kind() {
	case workbook.KindDate:
		t := cell.DateValue()
		day, month, year = t.Day(), int(t.Month()), t.Year()
	case workbook.KindNumber:
		t, ok := workbook.SerialToTime(cell.NumberValue())
		if !ok {
			return false
		}
		day, month, year = t.Day(), int(t.Month()), t.Year()
	case workbook.KindText:
		parts := strings.Split(cell.TextValue(), "/")
		if len(parts) < 3 {
			return false
		}
		var ok bool
		if day, ok = leadingInt(parts[0]); !ok {
			return false
		}
		if month, ok = leadingInt(parts[1]); !ok {
			return false
		}
		if year, ok = leadingInt(parts[2]); !ok {
			return false
		}
	default:
		return false
	}

	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	return year >= minYear && year <= maxYear
}

// leadingInt parses the optionally signed decimal digits at the start of s
// after leading whitespace. Trailing characters are ignored; a string with
// no leading digits reports false.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
