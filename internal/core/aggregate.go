package core

import (
	"github.com/JonMunkholm/reportcheck/internal/schema"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// FinalValueSum adds up the final_value column over every data row of the
// given sheets. Empty and non-numeric cells are skipped; sheets that are
// absent, have no data rows, or lack the column contribute nothing.
func FinalValueSum(sheets ...*workbook.Sheet) float64 {
	var sum float64
	for _, s := range sheets {
		if s.Len() < 2 {
			continue
		}
		col := s.HeaderIndex(schema.FinalValueHeader)
		if col < 0 {
			continue
		}
		for r := 1; r < s.Len(); r++ {
			cell := s.Cell(r, col)
			if cell.IsEmpty() {
				continue
			}
			if n, ok := cell.Float(); ok {
				sum += n
			}
		}
	}
	return sum
}

// ReportValueMatches compares the report's value cell (row 1) with sum. It
// returns the column of the value header alongside the outcome, or -1 when
// the column is absent.
//
// The check passes when there is nothing numeric to compare: no report
// sheet, no data row, no value header, or a value cell that is empty or
// non-numeric. Those cells are left to the cell rules.
func ReportValueMatches(report *workbook.Sheet, sum float64) (bool, int) {
	if report.Len() < 2 {
		return true, -1
	}
	col := report.HeaderIndex(schema.ValueHeader)
	if col < 0 {
		return true, -1
	}
	cell := report.Cell(1, col)
	if cell.IsEmpty() {
		return true, col
	}
	n, ok := cell.Float()
	if !ok {
		return true, col
	}
	return n == sum, col
}
