package fields

// Well-known field keys the evaluator and intake reference directly.
const (
	KeyLoanAmount             = "loan_amount"
	KeyIndustryNAICS          = "industry_naics"
	KeyBusinessState          = "business_state"
	KeyEquipmentLocationState = "equipment_location_state"
)

var (
	EntityTypes         = []string{"LLC", "Corp", "Sole Prop", "Partnership"}
	EquipmentTypes      = []string{"Medical", "Trucking", "CNC", "Construction", "Agricultural", "Industrial"}
	EquipmentConditions = []string{"new", "used"}
	VendorTypes         = []string{"Dealer", "Private Party"}
)

func bound(v float64) *float64 { return &v }

// DefaultDescriptors is the built-in criteria list, in display order.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{Key: "guarantor_fico", Label: "Guarantor FICO", Category: CategoryCreditIdentity, ValueType: TypeNumber, Tier: TierSignificant, Min: bound(300), Max: bound(850)},
		{Key: "paynet_score", Label: "PayNet Score", Category: CategoryCreditIdentity, ValueType: TypeNumber, Tier: TierSignificant, Min: bound(0), Max: bound(100)},
		{Key: "years_in_business", Label: "Years in Business", Category: CategoryCreditIdentity, ValueType: TypeNumber, Tier: TierSignificant, Min: bound(0)},
		{Key: "business_entity_type", Label: "Entity Type", Category: CategoryCreditIdentity, ValueType: TypeString, Tier: TierStrict, Options: EntityTypes},
		{Key: "is_homeowner", Label: "Is Homeowner", Category: CategoryCreditIdentity, ValueType: TypeBoolean, Tier: TierStrict},
		{Key: KeyBusinessState, Label: "State", Category: CategoryCreditIdentity, ValueType: TypeString, Tier: TierStrict, Upper: true},
		{Key: "ownership_percentage", Label: "Ownership (%)", Category: CategoryCreditIdentity, ValueType: TypeNumber, Tier: TierExperiential, Min: bound(0), Max: bound(100)},

		{Key: "annual_revenue", Label: "Annual Revenue", Category: CategoryFinancials, ValueType: TypeNumber, Tier: TierSignificant, Min: bound(0)},
		{Key: "avg_daily_balance", Label: "Avg Daily Balance", Category: CategoryFinancials, ValueType: TypeNumber, Tier: TierSignificant, Min: bound(0)},
		{Key: "nsf_count", Label: "NSF Count (Last 3mo)", Category: CategoryFinancials, ValueType: TypeNumber, Tier: TierExperiential, Min: bound(0)},
		{Key: "dscr_ratio", Label: "DSCR Ratio", Category: CategoryFinancials, ValueType: TypeNumber, Tier: TierSignificant, Min: bound(0)},
		{Key: "industry_tier", Label: "Industry Tier", Category: CategoryFinancials, ValueType: TypeNumber, Tier: TierStrict, Min: bound(1), Max: bound(3)},
		{Key: KeyIndustryNAICS, Label: "Industry NAICS", Category: CategoryFinancials, ValueType: TypeString, Tier: TierStrict},

		{Key: "has_active_bankruptcy", Label: "Has Active Bankruptcy", Category: CategoryNegativeEvents, ValueType: TypeBoolean, Tier: TierStrict},
		{Key: "years_since_bankruptcy_discharge", Label: "Years Since BK Discharge", Category: CategoryNegativeEvents, ValueType: TypeNumber, Tier: TierExperiential, Min: bound(0)},
		{Key: "has_unpaid_tax_liens", Label: "Has Unpaid Tax Liens", Category: CategoryNegativeEvents, ValueType: TypeBoolean, Tier: TierStrict},
		{Key: "years_since_last_judgment", Label: "Years Since Last Judgment", Category: CategoryNegativeEvents, ValueType: TypeNumber, Tier: TierExperiential, Min: bound(0)},

		{Key: KeyLoanAmount, Label: "Loan Amount", Category: CategoryLoanAsset, ValueType: TypeNumber, Tier: TierExperiential, Min: bound(0)},
		{Key: "ltv_ratio", Label: "LTV Ratio (%)", Category: CategoryLoanAsset, ValueType: TypeNumber, Tier: TierExperiential, Min: bound(0)},
		{Key: "equipment_type", Label: "Equipment Type", Category: CategoryLoanAsset, ValueType: TypeString, Tier: TierStrict, Options: EquipmentTypes},
		{Key: "equipment_age", Label: "Equipment Age (Years)", Category: CategoryLoanAsset, ValueType: TypeNumber, Tier: TierExperiential, Min: bound(0)},
		{Key: "equipment_condition", Label: "Condition", Category: CategoryLoanAsset, ValueType: TypeString, Tier: TierStrict, Options: EquipmentConditions},
		{Key: "vendor_type", Label: "Vendor Type", Category: CategoryLoanAsset, ValueType: TypeString, Tier: TierStrict, Options: VendorTypes},
		{Key: KeyEquipmentLocationState, Label: "Equipment Location State", Category: CategoryLoanAsset, ValueType: TypeString, Tier: TierStrict, Upper: true},
	}
}

// Default returns a registry holding the built-in criteria.
func Default() *Registry {
	r, err := NewRegistry(DefaultDescriptors()...)
	if err != nil {
		panic(err)
	}
	return r
}
