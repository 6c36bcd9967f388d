package proforma

import "github.com/hoteliq/proforma/date"

// CostRates are the USALI departmental cost rates for one property.
// Rooms, FB, Marketing, Utilities (variable share) and FFE scale with
// revenue; the rest are fixed dollar lines anchored to the base month.
type CostRates struct {
	Rooms       float64 `json:"rooms"`
	FB          float64 `json:"fb"`
	Admin       float64 `json:"admin"`
	Marketing   float64 `json:"marketing"`
	PropertyOps float64 `json:"property_ops"`
	Utilities   float64 `json:"utilities"`
	Insurance   float64 `json:"insurance"`
	Taxes       float64 `json:"taxes"`
	IT          float64 `json:"it"`
	FFE         float64 `json:"ffe"`
	Other       float64 `json:"other"`
}

// DefaultCostRates returns the industry-default departmental rates.
func DefaultCostRates() CostRates {
	return CostRates{
		Rooms:       DefaultCostRateRooms,
		FB:          DefaultCostRateFB,
		Admin:       DefaultCostRateAdmin,
		Marketing:   DefaultCostRateMarketing,
		PropertyOps: DefaultCostRatePropertyOps,
		Utilities:   DefaultCostRateUtilities,
		Insurance:   DefaultCostRateInsurance,
		Taxes:       DefaultCostRateTaxes,
		IT:          DefaultCostRateIT,
		FFE:         DefaultCostRateFFE,
		Other:       DefaultCostRateOther,
	}
}

// PropertyAssumptions is the full input set for one hotel property.
type PropertyAssumptions struct {
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`

	// Revenue drivers.
	RoomCount           int     `json:"room_count"`
	StartADR            float64 `json:"start_adr"`
	ADRGrowthRate       float64 `json:"adr_growth_rate"`
	StartOccupancy      float64 `json:"start_occupancy"`
	MaxOccupancy        float64 `json:"max_occupancy"`
	OccupancyGrowthStep float64 `json:"occupancy_growth_step"`
	OccupancyRampMonths int     `json:"occupancy_ramp_months"`

	RevShareEvents   float64 `json:"rev_share_events"`
	RevShareFB       float64 `json:"rev_share_fb"`
	RevShareOther    float64 `json:"rev_share_other"`
	CateringBoostPct float64 `json:"catering_boost_percent"`

	CostRates CostRates `json:"cost_rates"`

	BaseManagementFeeRate      float64 `json:"base_management_fee_rate"`
	IncentiveManagementFeeRate float64 `json:"incentive_management_fee_rate"`
	TaxRate                    float64 `json:"tax_rate"`

	// Acquisition.
	PurchasePrice        Money         `json:"purchase_price"`
	BuildingImprovements Money         `json:"building_improvements"`
	LandValuePercent     float64       `json:"land_value_percent"`
	Financing            FinancingType `json:"financing_type"`
	AcquisitionLTV       *float64      `json:"acquisition_ltv,omitempty"` // nil uses the global default
	AcquisitionRate      float64       `json:"acquisition_interest_rate"`
	AcquisitionTermYears int           `json:"acquisition_term_years"`
	OperatingReserve     Money         `json:"operating_reserve"`
	AcquisitionDate      date.Date     `json:"acquisition_date"`
	OperationsStart      date.Date     `json:"operations_start_date"`

	ExitCapRate float64 `json:"exit_cap_rate"`

	// Refinance.
	WillRefinance            bool      `json:"will_refinance"`
	RefinanceDate            date.Date `json:"refinance_date"`
	RefinanceLTV             float64   `json:"refinance_ltv"`
	RefinanceRate            float64   `json:"refinance_interest_rate"`
	RefinanceTermYears       int       `json:"refinance_term_years"`
	RefinanceClosingCostRate float64   `json:"refinance_closing_cost_rate"`
}

// DefaultPropertyAssumptions returns a property with every rate at its
// industry default; callers set the identity, sizing and date fields.
func DefaultPropertyAssumptions() PropertyAssumptions {
	return PropertyAssumptions{
		OccupancyRampMonths:        DefaultOccupancyRampMonths,
		RevShareEvents:             DefaultRevShareEvents,
		RevShareFB:                 DefaultRevShareFB,
		RevShareOther:              DefaultRevShareOther,
		CateringBoostPct:           DefaultCateringBoostPct,
		CostRates:                  DefaultCostRates(),
		BaseManagementFeeRate:      DefaultBaseManagementFeeRate,
		IncentiveManagementFeeRate: DefaultIncentiveManagementFeeRate,
		TaxRate:                    DefaultTaxRate,
		LandValuePercent:           DefaultLandValuePercent,
		AcquisitionRate:            DefaultLoanRate,
		AcquisitionTermYears:       DefaultTermYears,
		ExitCapRate:                DefaultExitCapRate,
		RefinanceLTV:               DefaultRefinanceLTV,
		RefinanceRate:              DefaultLoanRate,
		RefinanceTermYears:         DefaultTermYears,
		RefinanceClosingCostRate:   DefaultRefinanceClosingCostRate,
	}
}

// CompanyAssumptions describe the management company: when it starts
// operating, how it is funded and what it spends. Annual dollar figures;
// the engine divides by twelve.
type CompanyAssumptions struct {
	OperationsStart date.Date `json:"company_ops_start_date"`

	// SAFE funding tranches.
	SAFETranche1Date   date.Date `json:"safe_tranche_1_date"`
	SAFETranche1Amount float64   `json:"safe_tranche_1_amount"`
	SAFETranche2Date   date.Date `json:"safe_tranche_2_date"`
	SAFETranche2Amount float64   `json:"safe_tranche_2_amount"`

	// Overhead, annual dollars at the start year; escalates with the global
	// fixed cost rate.
	PartnerCompByYear    []float64 `json:"partner_comp_by_year"`
	StaffSalary          float64   `json:"staff_salary"`
	StaffFTE             float64   `json:"staff_fte"`
	OfficeLease          float64   `json:"office_lease_start"`
	ProfessionalServices float64   `json:"professional_services_start"`
	TechInfrastructure   float64   `json:"tech_infra_start"`
	BusinessInsurance    float64   `json:"business_insurance_start"`
}

// GlobalAssumptions apply across the whole portfolio.
type GlobalAssumptions struct {
	ModelStart      date.Date `json:"model_start_date"`
	ProjectionYears int       `json:"projection_years"`

	EventExpenseRate        float64 `json:"event_expense_rate"`
	OtherExpenseRate        float64 `json:"other_expense_rate"`
	UtilitiesVariableSplit  float64 `json:"utilities_variable_split"`
	FixedCostEscalationRate float64 `json:"fixed_cost_escalation_rate"`
	ExitCapRate             float64 `json:"exit_cap_rate"`
	CommissionRate          float64 `json:"commission_rate"`
	CompanyTaxRate          float64 `json:"company_tax_rate"`
	DefaultLTV              float64 `json:"default_ltv"`
}

// DefaultGlobalAssumptions returns the global defaults for a model starting
// at the given month.
func DefaultGlobalAssumptions(modelStart date.Date) GlobalAssumptions {
	return GlobalAssumptions{
		ModelStart:              modelStart,
		ProjectionYears:         DefaultProjectionYears,
		EventExpenseRate:        DefaultEventExpenseRate,
		OtherExpenseRate:        DefaultOtherExpenseRate,
		UtilitiesVariableSplit:  DefaultUtilitiesVariableSplit,
		FixedCostEscalationRate: DefaultFixedCostEscalationRate,
		ExitCapRate:             DefaultExitCapRate,
		CommissionRate:          DefaultCommissionRate,
		CompanyTaxRate:          DefaultCompanyTaxRate,
		DefaultLTV:              DefaultLTV,
	}
}
