package proforma

import (
	"math"

	"github.com/hoteliq/proforma/date"
)

// RefinanceInput sizes a refinance against stabilized performance.
type RefinanceInput struct {
	Date date.Date

	// StabilizedNOI is the trailing-year net operating income at the
	// refinance date. Partial years are annualized by the caller.
	StabilizedNOI Money
	ExitCapRate   float64
	RefinanceLTV  float64
	MinDSCR       float64 // 0 disables the DSCR constraint

	// Old loan state at the refinance date.
	OldBalance        Money
	AccruedInterest   Money
	PrepaymentPenalty Money
	OldAccount        string // defaults to DEBT_ACQUISITION

	NewTerms        LoanTerms
	ClosingCostRate float64
	Rounding        RoundingPolicy
}

// RefinanceFlags record which sizing constraint bound and whether the
// proceeds fell short of the payoff.
type RefinanceFlags struct {
	LTVBinding      bool `json:"ltv_binding"`
	DSCRBinding     bool `json:"dscr_binding"`
	NegativeCashOut bool `json:"negative_cash_out"`
}

// RefinanceOutput is the refinance sizing and payoff result. The old loan is
// fully retired; a fresh schedule starts from the new amount at the
// refinance date.
type RefinanceOutput struct {
	Valuation    Money           `json:"valuation"`
	NewLoan      Money           `json:"new_loan_amount"`
	ClosingCosts Money           `json:"closing_costs"`
	NetProceeds  Money           `json:"net_proceeds"`
	Payoff       Money           `json:"payoff_amount"`
	CashOut      Money           `json:"cash_out"`
	Schedule     []ScheduleEntry `json:"debt_service_schedule"`
	Hooks        []JournalDelta  `json:"journal_hooks"`
	Flags        RefinanceFlags  `json:"flags"`
}

// ComputeRefinance values the property off stabilized NOI and the exit cap
// rate, sizes the new loan as the lesser of the LTV and DSCR constraints,
// retires the old loan and returns cash-out proceeds.
//
// Cash-out is floored at zero: when proceeds cannot cover the payoff the
// shortfall is flagged, not distributed as negative cash.
func ComputeRefinance(in RefinanceInput) RefinanceOutput {
	p := in.Rounding
	var out RefinanceOutput

	if in.ExitCapRate > 0 {
		out.Valuation = in.StabilizedNOI.DivF(in.ExitCapRate).Round(p)
	}

	byLTV := out.Valuation.MulF(in.RefinanceLTV).Round(p)
	out.NewLoan = byLTV
	out.Flags.LTVBinding = true
	if in.MinDSCR > 0 {
		byDSCR := maxLoanByDSCR(in.StabilizedNOI, in.MinDSCR, in.NewTerms, p)
		if byDSCR.LessThan(byLTV) {
			out.NewLoan = byDSCR
			out.Flags.LTVBinding = false
			out.Flags.DSCRBinding = true
		}
	}
	if out.NewLoan.IsNegative() {
		out.NewLoan = Money{}
	}

	out.ClosingCosts = out.NewLoan.MulF(in.ClosingCostRate).Round(p)
	out.NetProceeds = out.NewLoan.Sub(out.ClosingCosts).Round(p)
	out.Payoff = Sum(in.OldBalance, in.PrepaymentPenalty, in.AccruedInterest).Round(p)

	out.CashOut = out.NetProceeds.Sub(out.Payoff).Round(p)
	if out.CashOut.IsNegative() {
		out.CashOut = Money{}
		out.Flags.NegativeCashOut = true
	}

	out.Schedule = BuildSchedule(out.NewLoan, in.NewTerms, p)

	oldAccount := in.OldAccount
	if oldAccount == "" {
		oldAccount = AccountDebtAcquisition
	}
	out.Hooks = refinanceHooks(oldAccount, in, out)
	return out
}

// maxLoanByDSCR inverts PMT: the largest principal whose level payment keeps
// NOI / annual debt service at or above the minimum DSCR.
func maxLoanByDSCR(annualNOI Money, minDSCR float64, terms LoanTerms, p RoundingPolicy) Money {
	if !terms.valid() || minDSCR <= 0 {
		return Money{}
	}
	maxMonthly := annualNOI.DivF(minDSCR).DivF(12)
	r := terms.AnnualRate / 12
	factor := math.Pow(1+r, float64(terms.AmortizationMonths))
	return maxMonthly.MulF((factor - 1) / (r * factor)).Round(p)
}

// refinanceHooks book the new draw, the deferred closing costs, the old loan
// retirement and the penalty. Interest accrued to date clears the payable
// rather than hitting the income statement twice.
func refinanceHooks(oldAccount string, in RefinanceInput, out RefinanceOutput) []JournalDelta {
	var hooks []JournalDelta
	if !out.NewLoan.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: AccountDebtNew, Credit: out.NewLoan, Classification: Liability, Bucket: Financing, Memo: "refinance loan"},
			JournalDelta{Account: AccountCash, Debit: out.NetProceeds, Classification: Asset, Bucket: Financing, Memo: "refinance proceeds net of costs"},
		)
		if !out.ClosingCosts.IsZero() {
			hooks = append(hooks,
				JournalDelta{Account: AccountClosingCosts, Debit: out.ClosingCosts, Classification: Deferred, Bucket: Financing, Memo: "refinance closing costs"},
			)
		}
	}
	if !in.OldBalance.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: oldAccount, Debit: in.OldBalance, Classification: Liability, Bucket: Financing, Memo: "old loan retired"},
			JournalDelta{Account: AccountCash, Credit: in.OldBalance, Classification: Asset, Bucket: Financing, Memo: "old loan payoff"},
		)
	}
	if !in.PrepaymentPenalty.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: AccountPrepaymentPenalty, Debit: in.PrepaymentPenalty, Classification: Expense, Bucket: NoBucket, Memo: "prepayment penalty"},
			JournalDelta{Account: AccountCash, Credit: in.PrepaymentPenalty, Classification: Asset, Bucket: Financing, Memo: "penalty paid"},
		)
	}
	if !in.AccruedInterest.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: AccountAccruedInterest, Debit: in.AccruedInterest, Classification: Liability, Bucket: Operating, Memo: "accrued interest cleared"},
			JournalDelta{Account: AccountCash, Credit: in.AccruedInterest, Classification: Asset, Bucket: Operating, Memo: "accrued interest paid"},
		)
	}
	return hooks
}
