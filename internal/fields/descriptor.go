package fields

// Category groups descriptors for display.
type Category string

const (
	CategoryCreditIdentity Category = "credit_identity"
	CategoryFinancials     Category = "financials"
	CategoryNegativeEvents Category = "negative_events"
	CategoryLoanAsset      Category = "loan_asset"
)

var categoryOrder = []Category{
	CategoryCreditIdentity,
	CategoryFinancials,
	CategoryNegativeEvents,
	CategoryLoanAsset,
}

var categoryLabels = map[Category]string{
	CategoryCreditIdentity: "Credit & Identity",
	CategoryFinancials:     "Financials",
	CategoryNegativeEvents: "Negative Events",
	CategoryLoanAsset:      "Loan & Asset",
}

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string { return categoryLabels[c] }

// ValueType is the semantic type of a field, shared with Value kinds.
type ValueType string

const (
	TypeNumber  ValueType = "number"
	TypeString  ValueType = "string"
	TypeBoolean ValueType = "boolean"
	TypeSet     ValueType = "set"
)

func (t ValueType) IsValid() bool {
	switch t {
	case TypeNumber, TypeString, TypeBoolean, TypeSet:
		return true
	}
	return false
}

// Tier documents the intended weighting of a field. It is reported to
// clients but does not influence evaluation.
type Tier string

const (
	TierSignificant  Tier = "significant"
	TierStrict       Tier = "strict"
	TierExperiential Tier = "experiential"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierSignificant, TierStrict, TierExperiential:
		return true
	}
	return false
}

// Descriptor declares one evaluable borrower attribute.
type Descriptor struct {
	Key       string    `json:"key" yaml:"key"`
	Label     string    `json:"label" yaml:"label"`
	Category  Category  `json:"category" yaml:"category"`
	ValueType ValueType `json:"value_type" yaml:"value_type"`
	Tier      Tier      `json:"tier" yaml:"tier"`
	// Options restricts string and set members to an enumerated list.
	Options []string `json:"options,omitempty" yaml:"options"`
	Min     *float64 `json:"min,omitempty" yaml:"min"`
	Max     *float64 `json:"max,omitempty" yaml:"max"`
	// Upper normalizes string values to upper case (state codes).
	Upper bool `json:"-" yaml:"upper"`
}

// IsNumeric reports whether ordering operators apply to the field.
func (d Descriptor) IsNumeric() bool { return d.ValueType == TypeNumber }

// Group is one category of descriptors in display order.
type Group struct {
	Category Category     `json:"category"`
	Label    string       `json:"label"`
	Fields   []Descriptor `json:"fields"`
}
