package proforma

import (
	"math"

	"github.com/hoteliq/proforma/date"
)

// MonthlyFinancials is one projected month for one property. The operating
// model works in float64; amounts are rounded when they enter the ledger or
// a report.
type MonthlyFinancials struct {
	MonthIndex int        `json:"month_index"`
	Period     date.Month `json:"period"`

	Occupancy      float64 `json:"occupancy"`
	ADR            float64 `json:"adr"`
	AvailableRooms float64 `json:"available_rooms"`
	SoldRooms      float64 `json:"sold_rooms"`

	RevenueRooms  float64 `json:"revenue_rooms"`
	RevenueEvents float64 `json:"revenue_events"`
	RevenueFB     float64 `json:"revenue_fb"`
	RevenueOther  float64 `json:"revenue_other"`
	RevenueTotal  float64 `json:"revenue_total"`

	ExpenseRooms          float64 `json:"expense_rooms"`
	ExpenseFB             float64 `json:"expense_fb"`
	ExpenseEvents         float64 `json:"expense_events"`
	ExpenseOther          float64 `json:"expense_other"`
	ExpenseMarketing      float64 `json:"expense_marketing"`
	ExpensePropertyOps    float64 `json:"expense_property_ops"`
	ExpenseUtilitiesVar   float64 `json:"expense_utilities_var"`
	ExpenseAdmin          float64 `json:"expense_admin"`
	ExpenseIT             float64 `json:"expense_it"`
	ExpenseInsurance      float64 `json:"expense_insurance"`
	ExpenseTaxes          float64 `json:"expense_taxes"`
	ExpenseUtilitiesFixed float64 `json:"expense_utilities_fixed"`
	ExpenseOtherCosts     float64 `json:"expense_other_costs"`
	ExpenseFFE            float64 `json:"expense_ffe"`

	TotalOperatingExpenses float64 `json:"total_operating_expenses"`
	TotalExpenses          float64 `json:"total_expenses"`

	GOP          float64 `json:"gop"`
	FeeBase      float64 `json:"fee_base"`
	FeeIncentive float64 `json:"fee_incentive"`
	NOI          float64 `json:"noi"`

	InterestExpense     float64 `json:"interest_expense"`
	PrincipalPayment    float64 `json:"principal_payment"`
	DebtPayment         float64 `json:"debt_payment"`
	DepreciationExpense float64 `json:"depreciation_expense"`
	IncomeTax           float64 `json:"income_tax"`
	NetIncome           float64 `json:"net_income"`
	CashFlow            float64 `json:"cash_flow"`

	PropertyValue   float64 `json:"property_value"`
	DebtOutstanding float64 `json:"debt_outstanding"`

	OperatingCashFlow   float64 `json:"operating_cash_flow"`
	FinancingCashFlow   float64 `json:"financing_cash_flow"`
	RefinancingProceeds float64 `json:"refinancing_proceeds"`
	EndingCash          float64 `json:"ending_cash"`
	CashShortfall       bool    `json:"cash_shortfall"`
}

// ProjectProperty builds the monthly pro forma for one property over the
// projection horizon.
//
// The model runs in two passes. Pass one projects operations: revenue is
// zero before the operations start, occupancy ramps in steps until it hits
// the maximum, variable costs scale with current revenue while fixed costs
// anchor to the base month's revenue level and escalate annually, and debt
// service follows the acquisition loan from the acquisition date even when
// that precedes opening. Pass two overlays a refinance: operations are debt
// independent, so only interest, principal, tax, net income and cash change
// from the refinance month onward.
func ProjectProperty(prop PropertyAssumptions, global GlobalAssumptions) []MonthlyFinancials {
	years := global.ProjectionYears
	if years <= 0 {
		years = DefaultProjectionYears
	}
	months := years * 12
	modelStart := date.MonthOf(global.ModelStart)
	opsStart := date.MonthOf(prop.OperationsStart)
	acquisition := opsStart
	if !prop.AcquisitionDate.IsZero() {
		acquisition = date.MonthOf(prop.AcquisitionDate)
	}

	// Land never depreciates; the loan is sized on the full value.
	purchasePrice := prop.PurchasePrice.Float64()
	improvements := prop.BuildingImprovements.Float64()
	landValue := purchasePrice * prop.LandValuePercent
	buildingValue := purchasePrice*(1-prop.LandValuePercent) + improvements
	monthlyDepreciation := buildingValue / DepreciationYears / 12
	totalPropertyValue := purchasePrice + improvements

	ltv := global.DefaultLTV
	if prop.AcquisitionLTV != nil {
		ltv = *prop.AcquisitionLTV
	}
	var loanAmount float64
	if prop.Financing == Financed {
		loanAmount = totalPropertyValue * ltv
	}
	monthlyRate := prop.AcquisitionRate / 12
	totalPayments := prop.AcquisitionTermYears * 12
	var monthlyPayment float64
	if loanAmount > 0 && totalPayments > 0 {
		monthlyPayment = pmtFloat(loanAmount, monthlyRate, totalPayments)
	}

	// Base month revenue anchors the fixed cost dollar amounts, so fixed
	// costs escalate with inflation instead of tracking occupancy growth.
	cateringMult := 1 + prop.CateringBoostPct
	baseRoomRev := float64(prop.RoomCount) * DaysPerMonth * prop.StartADR * prop.StartOccupancy
	baseTotalRev := baseRoomRev * (1 + prop.RevShareEvents + prop.RevShareFB*cateringMult + prop.RevShareOther)

	rampMonths := prop.OccupancyRampMonths
	if rampMonths <= 0 {
		rampMonths = DefaultOccupancyRampMonths
	}

	financials := make([]MonthlyFinancials, 0, months)
	cumulativeCash := 0.0
	prevDebtOutstanding := loanAmount
	debtMonths := 0

	for i := 0; i < months; i++ {
		current := modelStart.Add(i)
		m := MonthlyFinancials{MonthIndex: i, Period: current}

		operational := !current.Before(opsStart)
		monthsSinceOps := 0
		if operational {
			monthsSinceOps = current.Sub(opsStart)
		}
		opsYear := monthsSinceOps / 12

		m.ADR = prop.StartADR * math.Pow(1+prop.ADRGrowthRate, float64(opsYear))
		fixedCostFactor := math.Pow(1+global.FixedCostEscalationRate, float64(opsYear))

		if operational {
			steps := float64(monthsSinceOps / rampMonths)
			m.Occupancy = math.Min(prop.MaxOccupancy, prop.StartOccupancy+steps*prop.OccupancyGrowthStep)
		}

		m.AvailableRooms = float64(prop.RoomCount) * DaysPerMonth
		if operational {
			m.SoldRooms = m.AvailableRooms * m.Occupancy
		}
		m.RevenueRooms = m.SoldRooms * m.ADR
		m.RevenueEvents = m.RevenueRooms * prop.RevShareEvents
		m.RevenueFB = m.RevenueRooms * prop.RevShareFB * cateringMult
		m.RevenueOther = m.RevenueRooms * prop.RevShareOther
		m.RevenueTotal = m.RevenueRooms + m.RevenueEvents + m.RevenueFB + m.RevenueOther

		// Variable costs scale with the month's actual revenue.
		m.ExpenseRooms = m.RevenueRooms * prop.CostRates.Rooms
		m.ExpenseFB = m.RevenueFB * prop.CostRates.FB
		m.ExpenseEvents = m.RevenueEvents * global.EventExpenseRate
		m.ExpenseOther = m.RevenueOther * global.OtherExpenseRate
		m.ExpenseMarketing = m.RevenueTotal * prop.CostRates.Marketing
		m.ExpenseUtilitiesVar = m.RevenueTotal * prop.CostRates.Utilities * global.UtilitiesVariableSplit
		m.ExpenseFFE = m.RevenueTotal * prop.CostRates.FFE

		// Fixed costs are gated on operations: they use a constant base, so
		// an explicit gate is needed where variable costs go to zero on
		// their own.
		fixedGate := 0.0
		if operational {
			fixedGate = 1
		}
		m.ExpenseAdmin = baseTotalRev * prop.CostRates.Admin * fixedCostFactor * fixedGate
		m.ExpensePropertyOps = baseTotalRev * prop.CostRates.PropertyOps * fixedCostFactor * fixedGate
		m.ExpenseIT = baseTotalRev * prop.CostRates.IT * fixedCostFactor * fixedGate
		m.ExpenseInsurance = totalPropertyValue / 12 * prop.CostRates.Insurance * fixedCostFactor * fixedGate
		m.ExpenseTaxes = totalPropertyValue / 12 * prop.CostRates.Taxes * fixedCostFactor * fixedGate
		m.ExpenseUtilitiesFixed = baseTotalRev * prop.CostRates.Utilities * (1 - global.UtilitiesVariableSplit) * fixedCostFactor * fixedGate
		m.ExpenseOtherCosts = baseTotalRev * prop.CostRates.Other * fixedCostFactor * fixedGate

		m.TotalOperatingExpenses = m.ExpenseRooms + m.ExpenseFB + m.ExpenseEvents + m.ExpenseOther +
			m.ExpenseMarketing + m.ExpensePropertyOps + m.ExpenseUtilitiesVar +
			m.ExpenseAdmin + m.ExpenseIT + m.ExpenseInsurance + m.ExpenseTaxes +
			m.ExpenseUtilitiesFixed + m.ExpenseOtherCosts

		m.GOP = m.RevenueTotal - m.TotalOperatingExpenses
		m.FeeBase = m.RevenueTotal * prop.BaseManagementFeeRate
		m.FeeIncentive = math.Max(0, m.GOP*prop.IncentiveManagementFeeRate)
		m.NOI = m.GOP - m.FeeBase - m.FeeIncentive - m.ExpenseFFE
		m.TotalExpenses = m.TotalOperatingExpenses + m.FeeBase + m.FeeIncentive + m.ExpenseFFE

		// Debt service runs from the acquisition month, not operations
		// start: a financed property pays interest through any pre-opening
		// gap.
		acquired := !current.Before(acquisition)
		monthsSinceAcq := 0
		if acquired {
			monthsSinceAcq = current.Sub(acquisition)
		}
		if acquired && loanAmount > 0 {
			if debtMonths < totalPayments {
				m.DebtPayment = monthlyPayment
				if monthlyRate == 0 {
					m.PrincipalPayment = loanAmount / float64(totalPayments)
				} else {
					m.InterestExpense = prevDebtOutstanding * monthlyRate
					m.PrincipalPayment = monthlyPayment - m.InterestExpense
				}
				m.DebtOutstanding = math.Max(0, prevDebtOutstanding-m.PrincipalPayment)
				debtMonths++
			}
			prevDebtOutstanding = m.DebtOutstanding
		}

		if acquired {
			m.DepreciationExpense = monthlyDepreciation
			accumulated := math.Min(monthlyDepreciation*float64(monthsSinceAcq+1), buildingValue)
			m.PropertyValue = landValue + buildingValue - accumulated
		}

		taxableIncome := m.NOI - m.InterestExpense - m.DepreciationExpense
		if taxableIncome > 0 {
			m.IncomeTax = taxableIncome * prop.TaxRate
		}
		m.NetIncome = m.NOI - m.InterestExpense - m.DepreciationExpense - m.IncomeTax
		m.CashFlow = m.NOI - m.DebtPayment - m.IncomeTax

		m.OperatingCashFlow = m.NetIncome + m.DepreciationExpense
		m.FinancingCashFlow = -m.PrincipalPayment
		if acquired && monthsSinceAcq == 0 {
			cumulativeCash += prop.OperatingReserve.Float64()
		}
		cumulativeCash += m.CashFlow
		m.EndingCash = cumulativeCash
		m.CashShortfall = cumulativeCash < 0

		financials = append(financials, m)
	}

	if prop.WillRefinance && !prop.RefinanceDate.IsZero() {
		overlayRefinance(financials, prop, global, modelStart, acquisition, loanAmount)
	}
	return financials
}

// overlayRefinance replaces the debt fields from the refinance month onward
// and rebuilds the cash trajectory. NOI is debt independent, so the
// operating lines from pass one stand.
func overlayRefinance(financials []MonthlyFinancials, prop PropertyAssumptions, global GlobalAssumptions, modelStart, acquisition date.Month, originalLoan float64) {
	refiMonth := date.MonthOf(prop.RefinanceDate)
	refiIndex := refiMonth.Sub(modelStart)
	if refiIndex < 0 || refiIndex >= len(financials) {
		return
	}

	// Size the new loan on the refinance year's NOI, annualized when the
	// property was operational for only part of that year. Sizing on a
	// partial year would starve the new loan.
	refiYear := refiIndex / 12
	yearStart := refiYear * 12
	yearEnd := min(yearStart+12, len(financials))
	var yearNOI float64
	opsMonths := 0
	for _, m := range financials[yearStart:yearEnd] {
		yearNOI += m.NOI
		if m.RevenueTotal > 0 || m.NOI != 0 {
			opsMonths++
		}
	}
	stabilizedNOI := 0.0
	switch {
	case opsMonths >= 12:
		stabilizedNOI = yearNOI
	case opsMonths > 0:
		stabilizedNOI = yearNOI / float64(opsMonths) * 12
	}

	exitCap := prop.ExitCapRate
	if exitCap == 0 {
		exitCap = global.ExitCapRate
	}
	existingDebt := originalLoan
	if refiIndex > 0 {
		existingDebt = financials[refiIndex-1].DebtOutstanding
	}

	refi := ComputeRefinance(RefinanceInput{
		Date:          prop.RefinanceDate,
		StabilizedNOI: M(stabilizedNOI),
		ExitCapRate:   exitCap,
		RefinanceLTV:  prop.RefinanceLTV,
		OldBalance:    M(existingDebt),
		NewTerms: LoanTerms{
			AnnualRate:         prop.RefinanceRate,
			TermMonths:         prop.RefinanceTermYears * 12,
			AmortizationMonths: prop.RefinanceTermYears * 12,
		},
		ClosingCostRate: prop.RefinanceClosingCostRate,
		Rounding:        DefaultRounding,
	})
	proceeds := refi.CashOut.Float64()

	acqIndex := acquisition.Sub(modelStart)
	cumulative := 0.0
	for i := range financials {
		m := &financials[i]
		if i == acqIndex {
			cumulative += prop.OperatingReserve.Float64()
		}
		if i < refiIndex {
			cumulative += m.CashFlow
			m.EndingCash = cumulative
			m.CashShortfall = cumulative < 0
			continue
		}

		sinceRefi := i - refiIndex
		m.InterestExpense = 0
		m.PrincipalPayment = 0
		m.DebtPayment = 0
		m.DebtOutstanding = 0
		if sinceRefi < len(refi.Schedule) {
			entry := refi.Schedule[sinceRefi]
			m.InterestExpense = entry.Interest.Float64()
			m.PrincipalPayment = entry.Principal.Float64()
			m.DebtPayment = entry.Payment.Float64()
			m.DebtOutstanding = entry.EndingBalance.Float64()
		}

		taxableIncome := m.NOI - m.InterestExpense - m.DepreciationExpense
		m.IncomeTax = 0
		if taxableIncome > 0 {
			m.IncomeTax = taxableIncome * prop.TaxRate
		}
		m.NetIncome = m.NOI - m.InterestExpense - m.DepreciationExpense - m.IncomeTax
		m.CashFlow = m.NOI - m.DebtPayment - m.IncomeTax
		m.OperatingCashFlow = m.NetIncome + m.DepreciationExpense
		m.FinancingCashFlow = -m.PrincipalPayment
		m.RefinancingProceeds = 0
		if sinceRefi == 0 {
			m.RefinancingProceeds = proceeds
			m.CashFlow += proceeds
			m.FinancingCashFlow += proceeds
		}

		cumulative += m.CashFlow
		m.EndingCash = cumulative
		m.CashShortfall = cumulative < 0
	}
}

// pmtFloat is the float-domain level payment used by the operating model.
func pmtFloat(principal, monthlyRate float64, n int) float64 {
	if monthlyRate == 0 {
		return principal / float64(n)
	}
	factor := math.Pow(1+monthlyRate, float64(n))
	return principal * monthlyRate * factor / (factor - 1)
}
