package core

// engine.go drives validation of a whole workbook.
//
// A pass runs in a fixed order so the error list is deterministic:
//  1. Header presence, one synthetic error per sheet at (sheet, 0, 0)
//  2. Cell rules, sheet by sheet, row-major
//  3. Aggregate check (report mode only), at most one error
//
// The summary flags are then computed by independent scans of the workbook.
// Nothing here mutates the workbook or keeps state between calls.

import (
	"github.com/JonMunkholm/reportcheck/internal/schema"
	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// sheetRole binds a physical sheet position to the schema role it is
// validated as.
type sheetRole struct {
	index int
	role  schema.Role
}

var (
	reportLayout = []sheetRole{
		{0, schema.RoleReport},
		{1, schema.RoleMarketAssets},
		{2, schema.RoleCostAssets},
	}
	identifierLayout = []sheetRole{
		{0, schema.RoleMarketAssets},
		{1, schema.RoleCostAssets},
	}
)

// Validate runs the validation pass selected by mode.
func Validate(wb *workbook.Workbook, mode Mode) (Result, error) {
	switch mode {
	case ModeReport:
		return ValidateReport(wb), nil
	case ModeIdentifier:
		return ValidateIdentifiers(wb), nil
	default:
		return Result{}, ErrUnknownMode
	}
}

// ValidateReport validates a full report workbook: sheet 0 is the report,
// sheets 1 and 2 are the market and cost asset sheets. Missing sheets are
// reported as missing all their required headers. Sheets beyond the third
// are ignored.
func ValidateReport(wb *workbook.Workbook) Result {
	errs := checkHeaders(wb, reportLayout)
	for _, sr := range reportLayout {
		errs = append(errs, checkSheet(wb.Sheet(sr.index), sr)...)
	}

	assets := []*workbook.Sheet{wb.Sheet(1), wb.Sheet(2)}
	report := wb.Sheet(0)
	matches, col := ReportValueMatches(report, FinalValueSum(assets...))
	if !matches {
		errs = append(errs, ValidationError{
			Sheet:   0,
			Row:     1,
			Col:     col,
			Message: MsgAggregate,
			Code:    CodeAggregate,
		})
	}

	summary := scanFlags(wb, reportLayout)
	summary.IsReportValueValid = matches
	summary.TotalErrors = len(errs)

	return Result{Mode: ModeReport, Errors: nonNil(errs), Summary: summary}
}

// ValidateIdentifiers validates a two-sheet identifier workbook with the
// asset sheet rules. Any other sheet count is a single structural error and
// nothing else is checked. The aggregate check never applies.
func ValidateIdentifiers(wb *workbook.Workbook) Result {
	if wb.Len() != len(identifierLayout) {
		errs := []ValidationError{{
			Sheet:   0,
			Row:     0,
			Col:     0,
			Message: MsgSheetCount,
			Code:    CodeSheetCount,
		}}
		return Result{
			Mode:   ModeIdentifier,
			Errors: errs,
			Summary: ValidationResults{
				HasMissingRequiredHeaders: true,
				IsReportValueValid:        true,
				TotalErrors:               len(errs),
			},
		}
	}

	errs := checkHeaders(wb, identifierLayout)
	for _, sr := range identifierLayout {
		errs = append(errs, checkSheet(wb.Sheet(sr.index), sr)...)
	}

	summary := scanFlags(wb, identifierLayout)
	summary.IsReportValueValid = true
	summary.TotalErrors = len(errs)

	return Result{Mode: ModeIdentifier, Errors: nonNil(errs), Summary: summary}
}

// checkHeaders emits one error per sheet whose header row lacks required
// headers, including sheets that are absent or empty.
func checkHeaders(wb *workbook.Workbook, layout []sheetRole) []ValidationError {
	var errs []ValidationError
	for _, sr := range layout {
		missing := schema.MissingHeaders(wb.Sheet(sr.index), sr.role)
		if len(missing) > 0 {
			errs = append(errs, headerError(missing).at(sr.index, 0, 0))
		}
	}
	return errs
}

// checkSheet applies the cell rules to one sheet. The report sheet is
// checked on row 1 only, across the columns of its header row. Asset sheets
// are checked on every data row across the widest row of the sheet.
func checkSheet(s *workbook.Sheet, sr sheetRole) []ValidationError {
	if s.Len() < 2 {
		return nil
	}

	types := schema.ColumnTypes(s)
	headers := s.Headers()

	var errs []ValidationError
	checkRow := func(r, width int) {
		for c := 0; c < width; c++ {
			if err := checkCell(s.Cell(r, c), types[c], headers[c]); err != nil {
				errs = append(errs, err.at(sr.index, r, c))
			}
		}
	}

	if sr.role == schema.RoleReport {
		checkRow(1, s.HeaderLen())
		return errs
	}
	for r := 1; r < s.Len(); r++ {
		checkRow(r, s.Width())
	}
	return errs
}

// nonNil keeps an empty error list serialising as [] rather than null.
func nonNil(errs []ValidationError) []ValidationError {
	if errs == nil {
		return []ValidationError{}
	}
	return errs
}
