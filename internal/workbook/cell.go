// Package workbook holds the in-memory model of an uploaded spreadsheet:
// typed cells, fixed-width sheets, and the xlsx codec used to read uploads
// and write corrected copies.
package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which shape a Cell holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindDate
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Cell is a single spreadsheet value. Exactly one of the payload fields is
// meaningful, selected by kind. The zero Cell is Empty.
type Cell struct {
	kind Kind
	text string
	num  float64
	b    bool
	t    time.Time

	// highlight marks the cell for visual emphasis when the workbook is encoded.
	highlight bool
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{kind: KindNumber, num: f} }

// Bool returns a boolean cell.
func Bool(b bool) Cell { return Cell{kind: KindBool, b: b} }

// Date returns a calendar date cell. The time is normalised to UTC.
func Date(t time.Time) Cell { return Cell{kind: KindDate, t: t.UTC()} }

// Kind reports which shape the cell holds.
func (c Cell) Kind() Kind { return c.kind }

// TextValue returns the text payload of a text cell.
func (c Cell) TextValue() string { return c.text }

// NumberValue returns the numeric payload of a number cell.
func (c Cell) NumberValue() float64 { return c.num }

// BoolValue returns the payload of a boolean cell.
func (c Cell) BoolValue() bool { return c.b }

// DateValue returns the payload of a date cell.
func (c Cell) DateValue() time.Time { return c.t }

// Highlighted reports whether the cell carries visual emphasis.
func (c Cell) Highlighted() bool { return c.highlight }

// WithHighlight returns a copy of the cell marked for visual emphasis.
func (c Cell) WithHighlight() Cell {
	c.highlight = true
	return c
}

// IsEmpty reports whether the cell has no usable content: an Empty cell or
// text that is blank after trimming.
func (c Cell) IsEmpty() bool {
	switch c.kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(c.text) == ""
	default:
		return false
	}
}

// Float coerces the cell to a number. Numeric text converts, booleans map
// to 1 and 0, dates become their serial day number. Empty cells and
// non-numeric text report false.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, !math.IsNaN(c.num)
	case KindBool:
		if c.b {
			return 1, true
		}
		return 0, true
	case KindDate:
		return TimeToSerial(c.t), true
	case KindText:
		return parseNumber(c.text)
	default:
		return 0, false
	}
}

// String renders the cell the way it reads in a spreadsheet.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindBool:
		if c.b {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		return FormatDate(c.t)
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same value. Emphasis is ignored.
func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindText:
		return c.text == o.text
	case KindNumber:
		return c.num == o.num
	case KindBool:
		return c.b == o.b
	case KindDate:
		return c.t.Equal(o.t)
	default:
		return true
	}
}

// ParseValue converts a raw string into the most specific cell it can
// represent: Empty for "", a number for numeric text, otherwise text.
func ParseValue(s string) Cell {
	if s == "" {
		return Empty()
	}
	if f, ok := parseNumber(s); ok {
		return Number(f)
	}
	return Text(s)
}

// parseNumber is the permissive numeric conversion used for coercion.
// Surrounding whitespace is ignored; infinities and NaN are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
