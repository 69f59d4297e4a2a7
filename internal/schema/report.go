package schema

// reportFieldSpecs defines the required columns of the report sheet.
var reportFieldSpecs = []FieldSpec{
	{Name: "title", Type: FieldText},
	{Name: "purpose_id", Type: FieldPurpose},
	{Name: "value_premise_id", Type: FieldPremise},
	{Name: "report_type", Type: FieldText},
	{Name: "valued_at", Type: FieldDate},
	{Name: "submitted_at", Type: FieldDate},
	{Name: "inspection_date", Type: FieldDate},
	{Name: "assumptions", Type: FieldText},
	{Name: "special_assumptions", Type: FieldText},
	{Name: "value", Type: FieldText},
	{Name: "client_name", Type: FieldText},
	{Name: "owner_name", Type: FieldText},
	{Name: "telephone", Type: FieldText},
	{Name: "email", Type: FieldText},
	{Name: "region", Type: FieldText},
	{Name: "city", Type: FieldText},
}

// purposeCodes is the closed set of valuation purpose identifiers.
var purposeCodes = []int{1, 2, 5, 6, 8, 9, 10, 12, 14}

// premiseCodes is the closed set of value premise identifiers.
var premiseCodes = []int{1, 2, 3, 4, 5}

// PurposeCodes returns the allowed purpose identifiers.
func PurposeCodes() []int { return append([]int(nil), purposeCodes...) }

// PremiseCodes returns the allowed value premise identifiers.
func PremiseCodes() []int { return append([]int(nil), premiseCodes...) }

// IsPurposeCode reports whether n is an allowed purpose identifier.
func IsPurposeCode(n float64) bool { return containsCode(purposeCodes, n) }

// IsPremiseCode reports whether n is an allowed value premise identifier.
func IsPremiseCode(n float64) bool { return containsCode(premiseCodes, n) }

// ValueHeader is the report column compared against the asset total.
const ValueHeader = "value"
