package proforma

// Industry defaults applied when a property or global assumption is left
// unset. Rates are fractions of the revenue base noted per group.
const (
	// Ancillary revenue streams as shares of rooms revenue.
	DefaultRevShareEvents = 0.30
	DefaultRevShareFB     = 0.18
	DefaultRevShareOther  = 0.05
	// Catering lifts F&B above its base share.
	DefaultCateringBoostPct = 0.22

	// Departmental expense drivers.
	DefaultEventExpenseRate       = 0.65 // of events revenue
	DefaultOtherExpenseRate       = 0.60 // of other revenue
	DefaultUtilitiesVariableSplit = 0.60 // share of utilities that scales with revenue

	// USALI cost rates. Variable ones apply to current revenue, fixed ones
	// anchor to the base month and escalate.
	DefaultCostRateRooms       = 0.20
	DefaultCostRateFB          = 0.09
	DefaultCostRateAdmin       = 0.08
	DefaultCostRateMarketing   = 0.01
	DefaultCostRatePropertyOps = 0.04
	DefaultCostRateUtilities   = 0.05
	DefaultCostRateInsurance   = 0.02 // of property value / 12
	DefaultCostRateTaxes       = 0.03 // of property value / 12
	DefaultCostRateIT          = 0.005
	DefaultCostRateFFE         = 0.04
	DefaultCostRateOther       = 0.05

	// Management fees.
	DefaultBaseManagementFeeRate      = 0.085 // of total revenue
	DefaultIncentiveManagementFeeRate = 0.12  // of positive GOP

	// Acquisition financing.
	DefaultLTV       = 0.75
	DefaultLoanRate  = 0.09
	DefaultTermYears = 25

	// Refinance.
	DefaultRefinanceLTV             = 0.65
	DefaultRefinanceClosingCostRate = 0.03

	// Valuation and disposition.
	DefaultExitCapRate    = 0.085
	DefaultCommissionRate = 0.05

	DefaultTaxRate        = 0.25
	DefaultCompanyTaxRate = 0.30

	// Land share of purchase price; land does not depreciate.
	DefaultLandValuePercent = 0.25
	DepreciationYears       = 27.5

	// The revenue model uses an average month, not calendar months.
	DaysPerMonth = 30.5

	DefaultOccupancyRampMonths     = 6
	DefaultFixedCostEscalationRate = 0.03
	DefaultProjectionYears         = 10
)
