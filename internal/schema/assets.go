package schema

// assetFieldSpecs defines the required columns shared by the market and
// cost asset sheets.
var assetFieldSpecs = []FieldSpec{
	{Name: "asset_name", Type: FieldText},
	{Name: "asset_usage_id", Type: FieldText},
	{Name: "final_value", Type: FieldInteger},
}

// FinalValueHeader is the asset column summed by the aggregate check.
const FinalValueHeader = "final_value"

// Sheet describes one sheet role for schema listings.
type Sheet struct {
	Role     string   `json:"role" yaml:"role"`
	Required []string `json:"required" yaml:"required"`
}

// Description is the full rule table in a serialisable form.
type Description struct {
	Sheets       []Sheet           `json:"sheets" yaml:"sheets"`
	Rules        map[string]string `json:"rules" yaml:"rules"`
	PurposeCodes []int             `json:"purposeCodes" yaml:"purposeCodes"`
	PremiseCodes []int             `json:"premiseCodes" yaml:"premiseCodes"`
}

// Describe returns the rule table for API and CLI listings.
func Describe() Description {
	d := Description{
		Rules:        make(map[string]string, len(fieldTypes)),
		PurposeCodes: PurposeCodes(),
		PremiseCodes: PremiseCodes(),
	}
	for _, role := range []Role{RoleReport, RoleMarketAssets, RoleCostAssets} {
		d.Sheets = append(d.Sheets, Sheet{Role: role.String(), Required: RequiredHeaders(role)})
	}
	for h, t := range fieldTypes {
		d.Rules[h] = t.String()
	}
	return d
}
