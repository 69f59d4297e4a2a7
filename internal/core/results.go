package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a validation mode name is not recognised.
var ErrUnknownMode = errors.New("unknown validation mode")

// Mode selects the sheet layout a workbook is validated against.
type Mode string

const (
	// ModeReport expects report, market asset and cost asset sheets.
	ModeReport Mode = "report"
	// ModeIdentifier expects exactly the two asset sheets.
	ModeIdentifier Mode = "identifier"
)

// ParseMode converts a user-supplied mode name. An empty name selects
// ModeReport.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeReport):
		return ModeReport, nil
	case string(ModeIdentifier), "id":
		return ModeIdentifier, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ValidationResults summarises a validation pass. The boolean flags are
// computed by their own scans of the workbook; TotalErrors always equals the
// length of the error list they accompany.
type ValidationResults struct {
	HasEmptyFields            bool `json:"hasEmptyFields" yaml:"hasEmptyFields"`
	HasFractionInFinalValue   bool `json:"hasFractionInFinalValue" yaml:"hasFractionInFinalValue"`
	HasInvalidPurposeID       bool `json:"hasInvalidPurposeId" yaml:"hasInvalidPurposeId"`
	HasInvalidValuePremiseID  bool `json:"hasInvalidValuePremiseId" yaml:"hasInvalidValuePremiseId"`
	HasMissingRequiredHeaders bool `json:"hasMissingRequiredHeaders" yaml:"hasMissingRequiredHeaders"`
	IsReportValueValid        bool `json:"isReportValueValid" yaml:"isReportValueValid"`
	TotalErrors               int  `json:"totalErrors" yaml:"totalErrors"`
}

// Check is one labelled pass/fail line of the result summary.
type Check struct {
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Passed      bool   `json:"passed" yaml:"passed"`
}

// Checks returns the summary flags as an ordered, labelled check list.
func (r ValidationResults) Checks() []Check {
	return []Check{
		{Label: "Empty Fields", Description: "All required fields are filled", Passed: !r.HasEmptyFields},
		{Label: "Fractions", Description: "Final values are integers", Passed: !r.HasFractionInFinalValue},
		{Label: "Purpose IDs", Description: "Valid purpose IDs", Passed: !r.HasInvalidPurposeID},
		{Label: "Value Premise", Description: "Valid value premises", Passed: !r.HasInvalidValuePremiseID},
		{Label: "Required Headers", Description: "All headers present", Passed: !r.HasMissingRequiredHeaders},
		{Label: "Value Match", Description: "Report value matches assets sum", Passed: r.IsReportValueValid},
	}
}

// Result is the outcome of validating one workbook.
type Result struct {
	Mode    Mode              `json:"mode" yaml:"mode"`
	Errors  []ValidationError `json:"errors" yaml:"errors"`
	Summary ValidationResults `json:"results" yaml:"results"`
}

// Valid reports whether the workbook produced no errors.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorsForSheet returns the errors located on one sheet, in order.
func (r Result) ErrorsForSheet(sheet int) []ValidationError {
	var out []ValidationError
	for _, e := range r.Errors {
		if e.Sheet == sheet {
			out = append(out, e)
		}
	}
	return out
}
