package core

import (
	"github.com/JonMunkholm/reportcheck/internal/schema"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// scanFlags computes the summary flags for a layout by scanning the
// workbook directly. IsReportValueValid and TotalErrors are left to the
// caller.
func scanFlags(wb *workbook.Workbook, layout []sheetRole) ValidationResults {
	var res ValidationResults
	for _, sr := range layout {
		s := wb.Sheet(sr.index)
		if len(schema.MissingHeaders(s, sr.role)) > 0 {
			res.HasMissingRequiredHeaders = true
		}
		if s.Len() < 2 {
			continue
		}

		report := sr.role == schema.RoleReport
		if len(emptyCells(s, report)) > 0 {
			res.HasEmptyFields = true
		}
		if !report && columnHas(s, schema.FinalValueHeader, false, func(c workbook.Cell) bool {
			return !IsWholeNumber(c)
		}) {
			res.HasFractionInFinalValue = true
		}
		if columnHas(s, "purpose_id", report, func(c workbook.Cell) bool {
			n, ok := c.Float()
			return !ok || !schema.IsPurposeCode(n)
		}) {
			res.HasInvalidPurposeID = true
		}
		if columnHas(s, "value_premise_id", report, func(c workbook.Cell) bool {
			n, ok := c.Float()
			return !ok || !schema.IsPremiseCode(n)
		}) {
			res.HasInvalidValuePremiseID = true
		}
	}
	return res
}

// columnHas reports whether any non-empty data cell under header satisfies
// bad. With firstRowOnly only row 1 is inspected.
func columnHas(s *workbook.Sheet, header string, firstRowOnly bool, bad func(workbook.Cell) bool) bool {
	col := s.HeaderIndex(header)
	if col < 0 {
		return false
	}
	last := s.Len()
	if firstRowOnly {
		last = 2
	}
	for r := 1; r < last; r++ {
		cell := s.Cell(r, col)
		if !cell.IsEmpty() && bad(cell) {
			return true
		}
	}
	return false
}

// emptyCells lists the empty cell positions the cell rules would flag on a
// sheet, as (row, col) pairs.
func emptyCells(s *workbook.Sheet, report bool) [][2]int {
	var out [][2]int
	if s.Len() < 2 {
		return out
	}
	if report {
		for c := 0; c < s.HeaderLen(); c++ {
			if s.Cell(1, c).IsEmpty() {
				out = append(out, [2]int{1, c})
			}
		}
		return out
	}
	for r := 1; r < s.Len(); r++ {
		for c := 0; c < s.Width(); c++ {
			if s.Cell(r, c).IsEmpty() {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}

// EmptyField describes one empty cell for display. Positions are 1-based.
type EmptyField struct {
	Sheet      int    `json:"sheetIndex" yaml:"sheetIndex"`
	Row        int    `json:"rowIndex" yaml:"rowIndex"`
	Col        int    `json:"colIndex" yaml:"colIndex"`
	ColumnName string `json:"columnName" yaml:"columnName"`
}

// EmptyFields lists every empty cell of a report workbook with its column
// name, using the same traversal as the cell rules.
func EmptyFields(wb *workbook.Workbook, mode Mode) []EmptyField {
	layout := reportLayout
	if mode == ModeIdentifier {
		layout = identifierLayout
	}

	var out []EmptyField
	for _, sr := range layout {
		s := wb.Sheet(sr.index)
		for _, rc := range emptyCells(s, sr.role == schema.RoleReport) {
			out = append(out, EmptyField{
				Sheet:      sr.index + 1,
				Row:        rc[0] + 1,
				Col:        rc[1] + 1,
				ColumnName: s.ColumnName(rc[1]),
			})
		}
	}
	return out
}
