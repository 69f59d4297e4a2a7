// Package schema is the static rule table for valuation workbooks: which
// headers each sheet role must carry, which rule applies to a column by its
// header name, and the closed code sets for purpose and value premise.
//
// All tables are package-private and exposed through accessors that return
// copies, so callers cannot change them at runtime.
package schema

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// Role is the position of a sheet within a full report workbook.
type Role int

const (
	RoleReport Role = iota
	RoleMarketAssets
	RoleCostAssets
)

// String returns the role's display name.
func (r Role) String() string {
	switch r {
	case RoleReport:
		return "report"
	case RoleMarketAssets:
		return "marketAssets"
	case RoleCostAssets:
		return "costAssets"
	default:
		return "role(" + strconv.Itoa(int(r)) + ")"
	}
}

// FieldType selects the rule applied to a column beyond the empty check.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInteger
	FieldPurpose
	FieldPremise
	FieldDate
)

// String returns a short name for the field type.
func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldInteger:
		return "integer"
	case FieldPurpose:
		return "purpose"
	case FieldPremise:
		return "premise"
	case FieldDate:
		return "date"
	default:
		return "unknown"
	}
}

// FieldSpec describes one required column.
type FieldSpec struct {
	Name string    `json:"name"`
	Type FieldType `json:"-"`
}

// fieldTypes maps canonical header names to the rule that applies to them,
// regardless of which sheet they appear on.
var fieldTypes = map[string]FieldType{
	"final_value":      FieldInteger,
	"purpose_id":       FieldPurpose,
	"value_premise_id": FieldPremise,
	"valued_at":        FieldDate,
	"submitted_at":     FieldDate,
	"inspection_date":  FieldDate,
}

// TypeOf returns the rule class for a header. Unknown headers are FieldText,
// which carries only the empty check.
func TypeOf(header string) FieldType {
	if t, ok := fieldTypes[workbook.CanonicalHeader(header)]; ok {
		return t
	}
	return FieldText
}

// ColumnTypes resolves the rule class of every column of a sheet once, from
// its header row.
func ColumnTypes(s *workbook.Sheet) []FieldType {
	headers := s.Headers()
	types := make([]FieldType, len(headers))
	for c, h := range headers {
		types[c] = TypeOf(h)
	}
	return types
}

// Specs returns the required columns for a role in registry order.
func Specs(role Role) []FieldSpec {
	var specs []FieldSpec
	switch role {
	case RoleReport:
		specs = reportFieldSpecs
	case RoleMarketAssets, RoleCostAssets:
		specs = assetFieldSpecs
	default:
		return nil
	}
	return append([]FieldSpec(nil), specs...)
}

// RequiredHeaders returns the required header names for a role in registry
// order.
func RequiredHeaders(role Role) []string {
	specs := Specs(role)
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// MissingHeaders returns, in registry order, every required header for role
// that the sheet's header row does not contain. Matching ignores case and
// surrounding whitespace. An absent or empty sheet is missing all of them.
func MissingHeaders(s *workbook.Sheet, role Role) []string {
	required := RequiredHeaders(role)
	if s.IsEmpty() {
		return required
	}

	present := make(map[string]bool)
	for _, h := range s.Headers() {
		present[h] = true
	}

	var missing []string
	for _, name := range required {
		if !present[workbook.CanonicalHeader(name)] {
			missing = append(missing, name)
		}
	}
	return missing
}

// FormatCodes renders a code set the way it appears in messages: "1, 2, 5".
func FormatCodes(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ", ")
}

// containsCode reports whether n is exactly one of codes.
func containsCode(codes []int, n float64) bool {
	for _, c := range codes {
		if float64(c) == n {
			return true
		}
	}
	return false
}
