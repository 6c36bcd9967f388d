package proforma

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/hoteliq/proforma/date"
)

// This file is the independent verification engine. It recomputes every
// projection figure from raw inputs using its own code paths and compares
// them against the engine's output, the way an auditor re-derives a client's
// schedules. The verifier must not share calculation code with the engine it
// checks: a shared bug would pass undetected. Hence the locally redeclared
// loan defaults, the local PMT, and the integer year/month arithmetic below.

// Intentionally local. If the canonical defaults in constants.go change,
// update these to match.
const (
	verifierProjectionYears = 10
	verifierLTV             = 0.75
	verifierInterestRate    = 0.09
	verifierTermYears       = 25
	verifierRefiLTV         = 0.65
	verifierRefiClosingRate = 0.03

	// Relative tolerance for float comparisons.
	verifierTolerance = 0.001
)

// Severity classifies a failed check in the audit report.
type Severity int

const (
	// SeverityInfo marks informational findings outside pass/fail. It is
	// the zero value so an unset severity never reads as a finding.
	SeverityInfo Severity = iota
	// SeverityMinor marks a small discrepancy, usually rounding.
	SeverityMinor
	// SeverityMaterial marks a variance large enough to affect decisions.
	SeverityMaterial
	// SeverityCritical marks a fundamental formula error.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityMaterial:
		return "material"
	case SeverityMinor:
		return "minor"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// AuditOpinion is the verifier's overall conclusion.
type AuditOpinion int

const (
	// Unqualified means no critical or material issues: a clean opinion.
	Unqualified AuditOpinion = iota
	// Qualified means material issues but no critical failures.
	Qualified
	// Adverse means critical issues: the figures cannot be relied upon.
	Adverse
)

func (o AuditOpinion) String() string {
	switch o {
	case Unqualified:
		return "UNQUALIFIED"
	case Qualified:
		return "QUALIFIED"
	case Adverse:
		return "ADVERSE"
	default:
		return "unknown"
	}
}

func (o AuditOpinion) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

// Status mirrors the opinion for dashboard consumption.
func (o AuditOpinion) Status() string {
	switch o {
	case Adverse:
		return "FAIL"
	case Qualified:
		return "WARNING"
	default:
		return "PASS"
	}
}

// CheckResult is one verified metric.
type CheckResult struct {
	Metric      string   `json:"metric"`
	Category    string   `json:"category"`
	GAAPRef     string   `json:"gaapRef"`
	Formula     string   `json:"formula"`
	Expected    float64  `json:"expected"`
	Actual      float64  `json:"actual"`
	Variance    float64  `json:"variance"`
	VariancePct float64  `json:"variancePct"`
	Passed      bool     `json:"passed"`
	Severity    Severity `json:"severity"`
}

// PropertyCheckResults groups one property's checks.
type PropertyCheckResults struct {
	PropertyName   string        `json:"propertyName"`
	PropertyType   string        `json:"propertyType"`
	Checks         []CheckResult `json:"checks"`
	Passed         int           `json:"passed"`
	Failed         int           `json:"failed"`
	CriticalIssues int           `json:"criticalIssues"`
}

// VerificationSummary totals the sweep and carries the opinion.
type VerificationSummary struct {
	TotalChecks    int          `json:"totalChecks"`
	TotalPassed    int          `json:"totalPassed"`
	TotalFailed    int          `json:"totalFailed"`
	CriticalIssues int          `json:"criticalIssues"`
	MaterialIssues int          `json:"materialIssues"`
	AuditOpinion   AuditOpinion `json:"auditOpinion"`
	OverallStatus  string       `json:"overallStatus"`
}

// VerificationReport is the full audit-style verification output.
type VerificationReport struct {
	Timestamp          string                 `json:"timestamp"`
	PropertiesChecked  int                    `json:"propertiesChecked"`
	PropertyResults    []PropertyCheckResults `json:"propertyResults"`
	CompanyChecks      []CheckResult          `json:"companyChecks"`
	ConsolidatedChecks []CheckResult          `json:"consolidatedChecks"`
	Summary            VerificationSummary    `json:"summary"`
}

func verifierWithin(expected, actual float64) bool {
	if expected == 0 && actual == 0 {
		return true
	}
	if expected == 0 {
		return math.Abs(actual) < verifierTolerance
	}
	return math.Abs((expected-actual)/expected) < verifierTolerance
}

func newCheckResult(metric, category, gaapRef, formula string, expected, actual float64, severity Severity) CheckResult {
	variance := actual - expected
	var pct float64
	switch {
	case expected != 0:
		pct = variance / expected * 100
	case actual != 0:
		pct = 100
	}
	round2 := func(v float64) float64 { return math.Round(v*100) / 100 }
	return CheckResult{
		Metric:      metric,
		Category:    category,
		GAAPRef:     gaapRef,
		Formula:     formula,
		Expected:    round2(expected),
		Actual:      round2(actual),
		Variance:    round2(variance),
		VariancePct: round2(pct),
		Passed:      verifierWithin(expected, actual),
		Severity:    severity,
	}
}

// verifierPMT is a local level-payment implementation, deliberately separate
// from PMT in the amortization module.
func verifierPMT(principal, monthlyRate float64, n int) float64 {
	if principal == 0 || n == 0 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / float64(n)
	}
	f := math.Pow(1+monthlyRate, float64(n))
	return principal * monthlyRate * f / (f - 1)
}

// yearMonth is a pure integer month index (year*12 + month-1). The verifier
// avoids richer date types so a bug there cannot mask a discrepancy here.
type yearMonth int

func ymOf(d date.Date) yearMonth { return yearMonth(d.Year()*12 + int(d.Month()) - 1) }

func (ym yearMonth) add(n int) yearMonth        { return ym + yearMonth(n) }
func (ym yearMonth) diff(x yearMonth) int       { return int(ym - x) }
func (ym yearMonth) notBefore(x yearMonth) bool { return ym >= x }

// verifierMonth is one recomputed month. Only the fields the checks need.
type verifierMonth struct {
	monthIndex             int
	occupancy              float64
	adr                    float64
	revenueRooms           float64
	revenueEvents          float64
	revenueFB              float64
	revenueOther           float64
	revenueTotal           float64
	totalOperatingExpenses float64
	expenseFFE             float64
	gop                    float64
	feeBase                float64
	feeIncentive           float64
	noi                    float64
	interestExpense        float64
	principalPayment       float64
	debtPayment            float64
	depreciationExpense    float64
	netIncome              float64
	cashFlow               float64
	operatingCashFlow      float64
	financingCashFlow      float64
	endingCash             float64
	cashShortfall          bool
}

// verifierPropertyCalc re-derives a property's monthly projection from raw
// inputs. Same business logic as the engine, separate code.
func verifierPropertyCalc(prop PropertyAssumptions, global GlobalAssumptions) []verifierMonth {
	modelStart := ymOf(global.ModelStart)
	opsStart := ymOf(prop.OperationsStart)
	acquisition := opsStart
	if !prop.AcquisitionDate.IsZero() {
		acquisition = ymOf(prop.AcquisitionDate)
	}

	price := prop.PurchasePrice.Float64()
	improvements := prop.BuildingImprovements.Float64()
	landPct := prop.LandValuePercent
	depreciableBasis := price*(1-landPct) + improvements
	monthlyDepreciation := depreciableBasis / DepreciationYears / 12

	totalValue := price + improvements
	ltv := verifierLTV
	if prop.AcquisitionLTV != nil {
		ltv = *prop.AcquisitionLTV
	} else if global.DefaultLTV != 0 {
		ltv = global.DefaultLTV
	}
	var loanAmount float64
	if prop.Financing == Financed {
		loanAmount = totalValue * ltv
	}
	loanRate := prop.AcquisitionRate
	if loanRate == 0 {
		loanRate = verifierInterestRate
	}
	termYears := prop.AcquisitionTermYears
	if termYears == 0 {
		termYears = verifierTermYears
	}
	monthlyRate := loanRate / 12
	totalPayments := termYears * 12
	monthlyPayment := verifierPMT(loanAmount, monthlyRate, totalPayments)

	years := global.ProjectionYears
	if years <= 0 {
		years = verifierProjectionYears
	}
	months := years * 12

	rampMonths := prop.OccupancyRampMonths
	if rampMonths <= 0 {
		rampMonths = DefaultOccupancyRampMonths
	}
	cateringMult := 1 + prop.CateringBoostPct
	baseRoomRev := float64(prop.RoomCount) * DaysPerMonth * prop.StartADR * prop.StartOccupancy
	baseTotalRev := baseRoomRev * (1 + prop.RevShareEvents + prop.RevShareFB*cateringMult + prop.RevShareOther)

	results := make([]verifierMonth, 0, months)
	cumulativeCash := 0.0

	for i := 0; i < months; i++ {
		current := modelStart.add(i)
		m := verifierMonth{monthIndex: i}

		operational := current.notBefore(opsStart)
		monthsSinceOps := 0
		if operational {
			monthsSinceOps = current.diff(opsStart)
		}
		opsYear := monthsSinceOps / 12
		m.adr = prop.StartADR * math.Pow(1+prop.ADRGrowthRate, float64(opsYear))
		fixedFactor := math.Pow(1+global.FixedCostEscalationRate, float64(opsYear))

		if operational {
			steps := float64(monthsSinceOps / rampMonths)
			m.occupancy = math.Min(prop.MaxOccupancy, prop.StartOccupancy+steps*prop.OccupancyGrowthStep)
		}

		availableRooms := float64(prop.RoomCount) * DaysPerMonth
		var soldRooms float64
		if operational {
			soldRooms = availableRooms * m.occupancy
		}
		m.revenueRooms = soldRooms * m.adr
		m.revenueEvents = m.revenueRooms * prop.RevShareEvents
		m.revenueFB = m.revenueRooms * prop.RevShareFB * cateringMult
		m.revenueOther = m.revenueRooms * prop.RevShareOther
		m.revenueTotal = m.revenueRooms + m.revenueEvents + m.revenueFB + m.revenueOther

		expenseRooms := m.revenueRooms * prop.CostRates.Rooms
		expenseFB := m.revenueFB * prop.CostRates.FB
		expenseEvents := m.revenueEvents * global.EventExpenseRate
		expenseOther := m.revenueOther * global.OtherExpenseRate
		expenseMarketing := m.revenueTotal * prop.CostRates.Marketing
		expenseUtilVar := m.revenueTotal * prop.CostRates.Utilities * global.UtilitiesVariableSplit
		m.expenseFFE = m.revenueTotal * prop.CostRates.FFE

		fixedGate := 0.0
		if operational {
			fixedGate = 1
		}
		expenseAdmin := baseTotalRev * prop.CostRates.Admin * fixedFactor * fixedGate
		expensePropOps := baseTotalRev * prop.CostRates.PropertyOps * fixedFactor * fixedGate
		expenseIT := baseTotalRev * prop.CostRates.IT * fixedFactor * fixedGate
		expenseInsurance := totalValue / 12 * prop.CostRates.Insurance * fixedFactor * fixedGate
		expenseTaxes := totalValue / 12 * prop.CostRates.Taxes * fixedFactor * fixedGate
		expenseUtilFixed := baseTotalRev * prop.CostRates.Utilities * (1 - global.UtilitiesVariableSplit) * fixedFactor * fixedGate
		expenseOtherCosts := baseTotalRev * prop.CostRates.Other * fixedFactor * fixedGate

		m.totalOperatingExpenses = expenseRooms + expenseFB + expenseEvents + expenseOther +
			expenseMarketing + expensePropOps + expenseUtilVar +
			expenseAdmin + expenseIT + expenseInsurance + expenseTaxes + expenseUtilFixed + expenseOtherCosts

		m.gop = m.revenueTotal - m.totalOperatingExpenses
		m.feeBase = m.revenueTotal * prop.BaseManagementFeeRate
		m.feeIncentive = math.Max(0, m.gop*prop.IncentiveManagementFeeRate)
		m.noi = m.gop - m.feeBase - m.feeIncentive - m.expenseFFE

		acquired := current.notBefore(acquisition)
		monthsSinceAcq := 0
		if acquired {
			monthsSinceAcq = current.diff(acquisition)
		}
		if acquired && loanAmount > 0 {
			m.debtPayment = monthlyPayment
			// Walk the schedule from origination; O(n^2) over the horizon
			// but immune to state-carrying bugs.
			remaining := loanAmount
			for k := 0; k < monthsSinceAcq && k < totalPayments; k++ {
				interest := remaining * monthlyRate
				remaining = math.Max(0, remaining-(monthlyPayment-interest))
			}
			m.interestExpense = remaining * monthlyRate
			m.principalPayment = monthlyPayment - m.interestExpense
		}

		if acquired {
			m.depreciationExpense = monthlyDepreciation
		}
		taxable := m.noi - m.interestExpense - m.depreciationExpense
		var tax float64
		if taxable > 0 {
			tax = taxable * prop.TaxRate
		}
		m.netIncome = m.noi - m.interestExpense - m.depreciationExpense - tax
		m.cashFlow = m.noi - m.debtPayment - tax
		m.operatingCashFlow = m.netIncome + m.depreciationExpense
		m.financingCashFlow = -m.principalPayment

		if acquired && monthsSinceAcq == 0 {
			cumulativeCash += prop.OperatingReserve.Float64()
		}
		cumulativeCash += m.cashFlow
		m.endingCash = cumulativeCash
		m.cashShortfall = cumulativeCash < 0

		results = append(results, m)
	}
	return results
}

// Verify runs the full independent verification: per-property recomputation,
// company-level fee and cash checks, and consolidated cross-property checks.
// The submitted series, when present, is the engine's own output indexed
// [property][month]; the verifier treats it as the "actual" side of the
// cross-validation.
func Verify(properties []PropertyAssumptions, global GlobalAssumptions, company CompanyAssumptions, submitted [][]MonthlyFinancials) VerificationReport {
	report := VerificationReport{
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		PropertiesChecked: len(properties),
	}

	years := global.ProjectionYears
	if years <= 0 {
		years = verifierProjectionYears
	}
	months := years * 12

	recomputed := make([][]verifierMonth, len(properties))
	for i, prop := range properties {
		recomputed[i] = verifierPropertyCalc(prop, global)
	}

	for pi, prop := range properties {
		calc := recomputed[pi]
		var checks []CheckResult
		var clientMonthly []MonthlyFinancials
		if pi < len(submitted) {
			clientMonthly = submitted[pi]
		}

		checks = append(checks, propertyFormulaChecks(prop, calc)...)
		checks = append(checks, propertyAnnualChecks(prop, calc, clientMonthly, years, months)...)

		result := PropertyCheckResults{
			PropertyName: propertyLabel(prop, pi),
			PropertyType: prop.Financing.String(),
			Checks:       checks,
		}
		for _, c := range checks {
			if c.Passed {
				result.Passed++
			} else {
				result.Failed++
				if c.Severity == SeverityCritical {
					result.CriticalIssues++
				}
			}
		}
		report.PropertyResults = append(report.PropertyResults, result)
	}

	if len(properties) > 0 {
		report.CompanyChecks = companyChecks(properties, global, company, recomputed, submitted, months)
	}
	if len(properties) > 1 {
		report.ConsolidatedChecks = consolidatedChecks(properties, recomputed, submitted)
	}

	report.Summary = summarize(report)
	return report
}

func propertyLabel(prop PropertyAssumptions, index int) string {
	if prop.Name != "" {
		return prop.Name
	}
	return fmt.Sprintf("Property %d", index+1)
}

// propertyFormulaChecks verify the per-month identities on the first
// operational month, plus depreciation and the loan payment.
func propertyFormulaChecks(prop PropertyAssumptions, calc []verifierMonth) []CheckResult {
	var checks []CheckResult

	firstOp := -1
	for i, m := range calc {
		if m.revenueRooms > 0 {
			firstOp = i
			break
		}
	}

	if firstOp >= 0 {
		m := calc[firstOp]
		checks = append(checks, newCheckResult(
			"Room Revenue (First Operational Month)", "Revenue", "ASC 606",
			fmt.Sprintf("%d rooms x $%.0f ADR x %.0f%% occ x %v days", prop.RoomCount, m.adr, m.occupancy*100, DaysPerMonth),
			float64(prop.RoomCount)*m.adr*m.occupancy*DaysPerMonth, m.revenueRooms, SeverityCritical))

		checks = append(checks, newCheckResult(
			"Events Revenue (Month 1)", "Revenue", "ASC 606",
			fmt.Sprintf("Room Rev x %.0f%% events share", prop.RevShareEvents*100),
			m.revenueRooms*prop.RevShareEvents, m.revenueEvents, SeverityMaterial))

		checks = append(checks, newCheckResult(
			"Total Revenue (Month 1)", "Revenue", "ASC 606",
			"Rooms + Events + F&B + Other",
			m.revenueRooms+m.revenueEvents+m.revenueFB+m.revenueOther, m.revenueTotal, SeverityCritical))

		checks = append(checks, newCheckResult(
			"GOP = Revenue - OpEx", "P&L", "USALI",
			"Total Revenue - Total Operating Expenses",
			m.revenueTotal-m.totalOperatingExpenses, m.gop, SeverityCritical))

		checks = append(checks, newCheckResult(
			"NOI = GOP - Fees - FF&E", "P&L", "USALI",
			"GOP - Base Fee - Incentive Fee - FF&E Reserve",
			m.gop-m.feeBase-m.feeIncentive-m.expenseFFE, m.noi, SeverityCritical))

		tax := math.Max(0, m.noi-m.interestExpense-m.depreciationExpense) * prop.TaxRate
		checks = append(checks, newCheckResult(
			"Net Income = NOI - Interest - Depreciation - Tax", "P&L", "ASC 470 / ASC 360",
			"NOI - Interest - Depreciation - Income Tax",
			m.noi-m.interestExpense-m.depreciationExpense-tax, m.netIncome, SeverityCritical))

		checks = append(checks, newCheckResult(
			"Cash Flow = NOI - Debt Service - Tax", "Cash Flow", "ASC 230",
			"NOI - Total Debt Payment (interest + principal) - Income Tax",
			m.noi-m.debtPayment-tax, m.cashFlow, SeverityCritical))

		checks = append(checks, newCheckResult(
			"Operating CF = NI + Depreciation", "Cash Flow", "ASC 230 (Indirect)",
			"Net Income + Depreciation (non-cash add-back)",
			m.netIncome+m.depreciationExpense, m.operatingCashFlow, SeverityCritical))

		checks = append(checks, newCheckResult(
			"Financing CF = -Principal", "Cash Flow", "ASC 230",
			"Negative of principal repayment (financing activity)",
			-m.principalPayment, m.financingCashFlow, SeverityMaterial))
	}

	depBasis := prop.PurchasePrice.Float64()*(1-prop.LandValuePercent) + prop.BuildingImprovements.Float64()
	var annualDepreciation float64
	for _, m := range calc {
		if m.depreciationExpense > 0 {
			annualDepreciation = m.depreciationExpense * 12
			break
		}
	}
	checks = append(checks, newCheckResult(
		"Annual Depreciation (Land Excluded)", "Balance Sheet", "ASC 360 / IRS Pub 946",
		fmt.Sprintf("$%.0f depreciable basis / %v years", depBasis, DepreciationYears),
		depBasis/DepreciationYears, annualDepreciation, SeverityCritical))

	ltv := verifierLTV
	if prop.AcquisitionLTV != nil {
		ltv = *prop.AcquisitionLTV
	}
	loanAmount := 0.0
	if prop.Financing == Financed {
		loanAmount = (prop.PurchasePrice.Float64() + prop.BuildingImprovements.Float64()) * ltv
	}
	if loanAmount > 0 {
		loanRate := prop.AcquisitionRate
		if loanRate == 0 {
			loanRate = verifierInterestRate
		}
		termYears := prop.AcquisitionTermYears
		if termYears == 0 {
			termYears = verifierTermYears
		}
		payment := verifierPMT(loanAmount, loanRate/12, termYears*12)

		var firstPayment, firstInterest, firstPrincipal float64
		for _, m := range calc {
			if m.debtPayment > 0 {
				firstPayment = m.debtPayment
				firstInterest = m.interestExpense
				firstPrincipal = m.principalPayment
				break
			}
		}
		checks = append(checks, newCheckResult(
			"Monthly Debt Service", "Debt", "ASC 470",
			fmt.Sprintf("PMT($%.0f, %.1f%%/12, %d months)", loanAmount, loanRate*100, termYears*12),
			payment, firstPayment, SeverityCritical))

		checks = append(checks, newCheckResult(
			"Interest + Principal = Debt Payment", "Debt", "ASC 470",
			"Interest Expense + Principal Payment = Total Debt Service",
			firstPayment, firstInterest+firstPrincipal, SeverityCritical))
	}
	return checks
}

// propertyAnnualChecks verify annual aggregates against the submitted
// series, plus structural properties that can genuinely fail.
func propertyAnnualChecks(prop PropertyAssumptions, calc []verifierMonth, clientMonthly []MonthlyFinancials, years, months int) []CheckResult {
	var checks []CheckResult

	sumRange := func(from, to int, f func(verifierMonth) float64) float64 {
		var s float64
		for _, m := range calc[from:min(to, len(calc))] {
			s += f(m)
		}
		return s
	}
	year1Revenue := sumRange(0, 12, func(m verifierMonth) float64 { return m.revenueTotal })
	year1NOI := sumRange(0, 12, func(m verifierMonth) float64 { return m.noi })
	lastYearRevenue := sumRange((years-1)*12, months, func(m verifierMonth) float64 { return m.revenueTotal })
	lastYearNOI := sumRange((years-1)*12, months, func(m verifierMonth) float64 { return m.noi })

	if len(clientMonthly) >= 12 {
		clientSum := func(from, to int, f func(MonthlyFinancials) float64) float64 {
			var s float64
			for _, m := range clientMonthly[from:min(to, len(clientMonthly))] {
				s += f(m)
			}
			return s
		}
		checks = append(checks, newCheckResult(
			"Year 1 Revenue (Verifier vs Engine)", "Cross-Validation", "Independence",
			"Independent recomputation vs submitted projection",
			year1Revenue, clientSum(0, 12, func(m MonthlyFinancials) float64 { return m.RevenueTotal }), SeverityCritical))
		checks = append(checks, newCheckResult(
			"Year 1 NOI (Verifier vs Engine)", "Cross-Validation", "Independence",
			"Independent recomputation vs submitted projection",
			year1NOI, clientSum(0, 12, func(m MonthlyFinancials) float64 { return m.NOI }), SeverityCritical))

		if len(clientMonthly) >= months && lastYearRevenue > 0 {
			checks = append(checks, newCheckResult(
				fmt.Sprintf("Year %d Revenue (Verifier vs Engine)", years), "Cross-Validation", "Independence",
				"Independent recomputation vs submitted projection",
				lastYearRevenue, clientSum((years-1)*12, months, func(m MonthlyFinancials) float64 { return m.RevenueTotal }), SeverityCritical))
			checks = append(checks, newCheckResult(
				fmt.Sprintf("Year %d NOI (Verifier vs Engine)", years), "Cross-Validation", "Independence",
				"Independent recomputation vs submitted projection",
				lastYearNOI, clientSum((years-1)*12, months, func(m MonthlyFinancials) float64 { return m.NOI }), SeverityCritical))
		}
	}

	if year1Revenue > 0 && lastYearRevenue > 0 {
		grew := 0.0
		severity := SeverityMaterial
		if lastYearRevenue > year1Revenue {
			grew = 1
			severity = SeverityInfo
		}
		checks = append(checks, newCheckResult(
			"Revenue Growth Direction", "Reasonableness", "Industry",
			fmt.Sprintf("Year 1 $%.0f to Year %d $%.0f (expect growth)", year1Revenue, years, lastYearRevenue),
			1, grew, severity))
	}

	if lastYearRevenue > 0 {
		margin := lastYearNOI / lastYearRevenue * 100
		inBounds := 0.0
		severity := SeverityMaterial
		if margin >= 5 && margin <= 60 {
			inBounds = 1
			severity = SeverityInfo
		}
		checks = append(checks, newCheckResult(
			"NOI Margin Reasonableness", "Reasonableness", "Industry Benchmark",
			fmt.Sprintf("Year %d margin %.1f%% (expect 5-60%%)", years, margin),
			1, inBounds, severity))
	}

	var cumulativeCashFlow, endingCash float64
	shortfallMonths := 0
	minCash := math.Inf(1)
	for _, m := range calc {
		cumulativeCashFlow += m.cashFlow
		endingCash = m.endingCash
		if m.cashShortfall {
			shortfallMonths++
		}
		if m.endingCash < minCash {
			minCash = m.endingCash
		}
	}
	checks = append(checks, newCheckResult(
		"Cumulative Cash Flow = Ending Cash", "Cash Flow", "ASC 230",
		"Ending cash balance equals sum of all monthly cash flows + operating reserve seed",
		cumulativeCashFlow+prop.OperatingReserve.Float64(), endingCash, SeverityCritical))

	checks = append(checks, newCheckResult(
		"No Negative Cash Balance", "Cash Flow", "Business Rule",
		fmt.Sprintf("Cash must never go negative; min balance $%.0f, shortfall months %d", minCash, shortfallMonths),
		0, float64(shortfallMonths), SeverityInfo))

	firstOp := -1
	for i, m := range calc {
		if m.revenueRooms > 0 {
			firstOp = i
			break
		}
	}
	if firstOp > 0 {
		var preOpRevenue float64
		for _, m := range calc[:firstOp] {
			preOpRevenue += m.revenueTotal
		}
		checks = append(checks, newCheckResult(
			"Pre-Operations Revenue = $0", "Timing", "ASC 606",
			"No revenue before operations start date",
			0, preOpRevenue, SeverityCritical))
	}
	return checks
}

// companyChecks verify the fee mechanics and the management company's own
// cash trajectory under its SAFE funding.
func companyChecks(properties []PropertyAssumptions, global GlobalAssumptions, company CompanyAssumptions, recomputed [][]verifierMonth, submitted [][]MonthlyFinancials, months int) []CheckResult {
	var checks []CheckResult

	var totalRevenue, totalFeeBase, totalFeeIncentive float64
	for _, calc := range recomputed {
		for _, m := range calc {
			totalRevenue += m.revenueTotal
			totalFeeBase += m.feeBase
			totalFeeIncentive += m.feeIncentive
		}
	}

	var expectedBase, expectedIncentive float64
	for pi, prop := range properties {
		for _, m := range recomputed[pi] {
			expectedBase += m.revenueTotal * prop.BaseManagementFeeRate
			expectedIncentive += math.Max(0, m.gop) * prop.IncentiveManagementFeeRate
		}
	}
	checks = append(checks, newCheckResult(
		"Base Fee Applied at Stated Rate", "Management Co", "ASC 606",
		"Sum of monthly base fees = sum of (monthly revenue x property base rate)",
		expectedBase, totalFeeBase, SeverityCritical))
	checks = append(checks, newCheckResult(
		"Incentive Fee Applied at Stated Rate", "Management Co", "ASC 606",
		"Sum of monthly incentive fees = sum of (monthly positive GOP x property incentive rate)",
		expectedIncentive, totalFeeIncentive, SeverityCritical))

	if len(submitted) == len(properties) && len(submitted) > 0 {
		var clientRevenue, clientFeeBase, clientFeeIncentive float64
		for _, propMonthly := range submitted {
			for _, m := range propMonthly {
				clientRevenue += m.RevenueTotal
				clientFeeBase += m.FeeBase
				clientFeeIncentive += m.FeeIncentive
			}
		}
		checks = append(checks, newCheckResult(
			"Portfolio Revenue (Verifier vs Engine)", "Cross-Validation", "Independence",
			"Total revenue across all properties and all months",
			totalRevenue, clientRevenue, SeverityCritical))
		checks = append(checks, newCheckResult(
			"Portfolio Base Fees (Verifier vs Engine)", "Cross-Validation", "Independence",
			"Total base management fees across all properties",
			totalFeeBase, clientFeeBase, SeverityCritical))
		checks = append(checks, newCheckResult(
			"Portfolio Incentive Fees (Verifier vs Engine)", "Cross-Validation", "Independence",
			"Total incentive management fees across all properties",
			totalFeeIncentive, clientFeeIncentive, SeverityCritical))
	}

	checks = append(checks, companyCashCheck(global, company, recomputed, months))
	return checks
}

// companyCashCheck walks the OpCo cash trajectory month by month: fee
// revenue in, overhead out, SAFE tranches on their dates. Underfunding is a
// business notification, not a calculation error.
func companyCashCheck(global GlobalAssumptions, company CompanyAssumptions, recomputed [][]verifierMonth, months int) CheckResult {
	modelStart := ymOf(global.ModelStart)
	opsStart := modelStart
	if !company.OperationsStart.IsZero() {
		opsStart = ymOf(company.OperationsStart)
	}
	tranche1 := modelStart
	if !company.SAFETranche1Date.IsZero() {
		tranche1 = ymOf(company.SAFETranche1Date)
	}
	hasTranche2 := !company.SAFETranche2Date.IsZero()
	var tranche2 yearMonth
	if hasTranche2 {
		tranche2 = ymOf(company.SAFETranche2Date)
	}

	cumCash := 0.0
	shortfallMonths := 0
	minCash := math.Inf(1)
	for cm := 0; cm < months; cm++ {
		current := modelStart.add(cm)
		started := current.notBefore(opsStart) && current.notBefore(tranche1)

		var feeRevenue float64
		for _, calc := range recomputed {
			if cm < len(calc) {
				feeRevenue += calc[cm].feeBase + calc[cm].feeIncentive
			}
		}

		var safeFunding float64
		if current == tranche1 {
			safeFunding += company.SAFETranche1Amount
		}
		if hasTranche2 && current == tranche2 {
			safeFunding += company.SAFETranche2Amount
		}

		var expenses float64
		if started {
			opsYear := current.diff(opsStart) / 12
			fixedFactor := math.Pow(1+global.FixedCostEscalationRate, float64(opsYear))

			var partnerComp float64
			if len(company.PartnerCompByYear) > 0 {
				idx := min(cm/12, len(company.PartnerCompByYear)-1)
				partnerComp = company.PartnerCompByYear[idx] / 12
			}
			staffComp := company.StaffFTE * company.StaffSalary * fixedFactor / 12
			overhead := (company.OfficeLease + company.ProfessionalServices +
				company.TechInfrastructure + company.BusinessInsurance) * fixedFactor / 12
			expenses = partnerComp + staffComp + overhead
		}

		cumCash += feeRevenue - expenses + safeFunding
		if cumCash < minCash {
			minCash = cumCash
		}
		if cumCash < 0 {
			shortfallMonths++
		}
	}
	if math.IsInf(minCash, 1) {
		minCash = 0
	}

	return newCheckResult(
		"No Negative Cash Balance", "Management Co", "Business Rule",
		fmt.Sprintf("Company cash must never go negative; min balance $%.0f, shortfall months %d", minCash, shortfallMonths),
		0, float64(shortfallMonths), SeverityInfo)
}

// consolidatedChecks verify cross-property aggregation and the intercompany
// fee linkage via a third calculation path.
func consolidatedChecks(properties []PropertyAssumptions, recomputed [][]verifierMonth, submitted [][]MonthlyFinancials) []CheckResult {
	var checks []CheckResult

	var directRoomRevenue, aggregateRoomRevenue float64
	for _, calc := range recomputed {
		for _, m := range calc[:min(12, len(calc))] {
			if m.revenueRooms > 0 {
				directRoomRevenue += m.revenueRooms
			}
			aggregateRoomRevenue += m.revenueRooms
		}
	}
	checks = append(checks, newCheckResult(
		"Portfolio Room Revenue Aggregation", "Consolidated", "ASC 810",
		"Sum of individual property room revenues = portfolio room revenue total",
		directRoomRevenue, aggregateRoomRevenue, SeverityCritical))

	var feesPaid, feesReceivable, portfolioRevenue float64
	for pi, prop := range properties {
		for _, m := range recomputed[pi] {
			feesPaid += m.feeBase + m.feeIncentive
			feesReceivable += m.revenueTotal*prop.BaseManagementFeeRate + math.Max(0, m.gop)*prop.IncentiveManagementFeeRate
			portfolioRevenue += m.revenueTotal
		}
	}
	checks = append(checks, newCheckResult(
		"Intercompany Fee Elimination", "Consolidated", "ASC 810",
		"Management fees paid by properties = fees receivable by management company",
		feesReceivable, feesPaid, SeverityCritical))

	if len(submitted) == len(properties) {
		var clientPortfolioRevenue float64
		for _, propMonthly := range submitted {
			for _, m := range propMonthly {
				clientPortfolioRevenue += m.RevenueTotal
			}
		}
		checks = append(checks, newCheckResult(
			"Consolidated Revenue (Verifier vs Engine)", "Cross-Validation", "Independence",
			"Portfolio-wide revenue total across all properties and months",
			portfolioRevenue, clientPortfolioRevenue, SeverityCritical))
	}
	return checks
}

// summarize totals the sweep and applies the opinion state machine: any
// critical failure is adverse, material-only failures qualify the opinion,
// a clean sweep is unqualified.
func summarize(report VerificationReport) VerificationSummary {
	var s VerificationSummary

	tally := func(checks []CheckResult) {
		for _, c := range checks {
			s.TotalChecks++
			if c.Passed {
				s.TotalPassed++
				continue
			}
			s.TotalFailed++
			switch c.Severity {
			case SeverityCritical:
				s.CriticalIssues++
			case SeverityMaterial:
				s.MaterialIssues++
			}
		}
	}
	for _, pr := range report.PropertyResults {
		tally(pr.Checks)
	}
	tally(report.CompanyChecks)
	tally(report.ConsolidatedChecks)

	switch {
	case s.CriticalIssues > 0:
		s.AuditOpinion = Adverse
	case s.MaterialIssues > 0:
		s.AuditOpinion = Qualified
	default:
		s.AuditOpinion = Unqualified
	}
	s.OverallStatus = s.AuditOpinion.Status()
	return s
}
