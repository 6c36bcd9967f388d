package proforma

import (
	"encoding/json"
	"fmt"
	"math"
)

// FinancingType selects how an acquisition is funded.
type FinancingType int

const (
	// FullEquity acquisitions carry no debt, regardless of any LTV supplied.
	FullEquity FinancingType = iota
	// Financed acquisitions size a loan from the purchase basis and an LTV.
	Financed
)

func (t FinancingType) String() string {
	switch t {
	case FullEquity:
		return "Full Equity"
	case Financed:
		return "Financed"
	default:
		return "unknown"
	}
}

// ParseFinancingType parses a string into a FinancingType.
func ParseFinancingType(s string) (FinancingType, error) {
	switch s {
	case "Full Equity":
		return FullEquity, nil
	case "Financed":
		return Financed, nil
	default:
		return 0, fmt.Errorf("unknown financing type: %q", s)
	}
}

func (t FinancingType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *FinancingType) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}
	v, err := ParseFinancingType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// LoanTerms describes a loan's rate and tenor in months.
type LoanTerms struct {
	AnnualRate         float64 `json:"rate_annual"`
	TermMonths         int     `json:"term_months"`
	AmortizationMonths int     `json:"amortization_months"`
	IOMonths           int     `json:"io_months"`
}

// valid reports whether the terms can produce any debt service. Non-positive
// rates or terms degenerate to zero debt service rather than NaN, and an
// interest-only phase covering the whole term would leave the loan unrepaid.
func (t LoanTerms) valid() bool {
	return t.AnnualRate > 0 && t.TermMonths > 0 && t.AmortizationMonths > 0 &&
		t.IOMonths >= 0 && t.IOMonths < t.TermMonths
}

// PMT is the level payment fully amortizing a principal at a monthly rate
// over n payments: P·r·(1+r)^n / ((1+r)^n − 1).
func PMT(principal Money, monthlyRate float64, n int) Money {
	if principal.IsZero() || n <= 0 {
		return Money{}
	}
	if monthlyRate == 0 {
		return principal.DivF(float64(n))
	}
	factor := math.Pow(1+monthlyRate, float64(n))
	return principal.MulF(monthlyRate * factor / (factor - 1))
}

// ScheduleEntry is one month of a debt service schedule.
type ScheduleEntry struct {
	MonthIndex       int   `json:"month"`
	BeginningBalance Money `json:"beginning_balance"`
	Interest         Money `json:"interest"`
	Principal        Money `json:"principal"`
	Payment          Money `json:"payment"`
	EndingBalance    Money `json:"ending_balance"`
	InterestOnly     bool  `json:"is_io"`
}

// BuildSchedule produces the monthly debt service schedule for a loan.
//
// During the interest-only phase the payment is interest on the full balance
// and principal stays flat. Afterwards the level amortizing payment applies;
// when the amortization tenor exceeds the loan term the remaining balance
// falls due as a balloon in the final month. The final month always clears
// the balance exactly, preventing rounding dust on the statements.
//
// Invalid terms yield a nil schedule: a loan that cannot amortize is treated
// as unlevered rather than producing NaN or dividing by zero.
func BuildSchedule(loan Money, terms LoanTerms, p RoundingPolicy) []ScheduleEntry {
	if loan.IsZero() || loan.IsNegative() || !terms.valid() {
		return nil
	}
	monthlyRate := terms.AnnualRate / 12
	amortPayment := PMT(loan, monthlyRate, terms.AmortizationMonths)

	schedule := make([]ScheduleEntry, 0, terms.TermMonths)
	balance := loan
	for m := 0; m < terms.TermMonths; m++ {
		beginning := balance.Round(p)
		isIO := m < terms.IOMonths

		var interest, principal, payment Money
		switch {
		case isIO:
			interest = balance.MulF(monthlyRate).Round(p)
			payment = interest
		case m == terms.TermMonths-1:
			// Final month: clear the remaining balance (amortizing tail or balloon).
			interest = balance.MulF(monthlyRate).Round(p)
			principal = balance.Round(p)
			payment = interest.Add(principal).Round(p)
		default:
			interest = balance.MulF(monthlyRate).Round(p)
			payment = amortPayment.Round(p)
			principal = payment.Sub(interest).Round(p)
		}

		balance = balance.Sub(principal)
		if balance.IsNegative() {
			balance = Money{}
		}
		balance = balance.Round(p)

		schedule = append(schedule, ScheduleEntry{
			MonthIndex:       m,
			BeginningBalance: beginning,
			Interest:         interest,
			Principal:        principal,
			Payment:          payment,
			EndingBalance:    balance,
			InterestOnly:     isIO,
		})
	}
	return schedule
}

// BalanceAfter returns the outstanding balance after n scheduled payments.
func BalanceAfter(schedule []ScheduleEntry, n int) Money {
	if n <= 0 || len(schedule) == 0 {
		if len(schedule) > 0 {
			return schedule[0].BeginningBalance
		}
		return Money{}
	}
	if n > len(schedule) {
		n = len(schedule)
	}
	return schedule[n-1].EndingBalance
}

// ClosingCosts breaks down acquisition or refinance closing costs.
type ClosingCosts struct {
	PctBased  Money `json:"pct_based"`
	FixedFees Money `json:"fixed_fees"`
	Total     Money `json:"total"`
}

// FinancingInput carries everything needed to size and schedule an
// acquisition loan for one property.
type FinancingInput struct {
	PurchasePrice   Money
	Improvements    Money
	Type            FinancingType
	LTV             *float64 // property-level override; nil falls back to GlobalLTV
	GlobalLTV       float64
	LoanOverride    *Money // explicit loan amount, capping LTV sizing
	Terms           LoanTerms
	ClosingCostRate float64
	FixedFees       Money
	UpfrontReserves Money
	Rounding        RoundingPolicy
}

// FinancingFlags records which sizing constraint bound and any validation
// failures. A non-empty InvalidInputs means the rest of the output is empty.
type FinancingFlags struct {
	LTVBinding      bool     `json:"ltv_binding"`
	OverrideBinding bool     `json:"override_binding"`
	InvalidInputs   []string `json:"invalid_inputs"`
}

// FinancingOutput is the full acquisition financing result.
type FinancingOutput struct {
	LoanGross      Money           `json:"loan_amount_gross"`
	LoanNet        Money           `json:"loan_amount_net"`
	ClosingCosts   ClosingCosts    `json:"closing_costs"`
	EquityRequired Money           `json:"equity_required"`
	Schedule       []ScheduleEntry `json:"debt_service_schedule"`
	Hooks          []JournalDelta  `json:"journal_hooks"`
	Flags          FinancingFlags  `json:"flags"`
}

// ComputeFinancing sizes the acquisition loan, computes closing costs and the
// equity requirement, builds the debt service schedule and the origination
// journal hooks.
//
// Sizing: Financed properties borrow (price + improvements) × LTV, where a
// property-level LTV overrides the global default; an explicit override
// amount wins when smaller. Full Equity properties never borrow. Closing
// costs are deferred, not expensed. Only interest ever reaches the income
// statement; principal reduces the liability and shows as financing cash.
// Equity contributions flow through equity accounts, never revenue.
func ComputeFinancing(in FinancingInput) FinancingOutput {
	if errs := validateFinancing(in); len(errs) > 0 {
		return FinancingOutput{Flags: FinancingFlags{InvalidInputs: errs}}
	}
	p := in.Rounding

	basis := in.PurchasePrice.Add(in.Improvements)
	var out FinancingOutput

	if in.Type == Financed {
		ltv := in.GlobalLTV
		if in.LTV != nil {
			ltv = *in.LTV
		}
		sized := basis.MulF(ltv).Round(p)
		if in.LoanOverride != nil && in.LoanOverride.LessThan(sized) {
			out.LoanGross = in.LoanOverride.Round(p)
			out.Flags.OverrideBinding = true
		} else {
			out.LoanGross = sized
			out.Flags.LTVBinding = true
		}
	}

	out.ClosingCosts = ClosingCosts{
		PctBased:  out.LoanGross.MulF(in.ClosingCostRate).Round(p),
		FixedFees: in.FixedFees.Round(p),
	}
	out.ClosingCosts.Total = out.ClosingCosts.PctBased.Add(out.ClosingCosts.FixedFees).Round(p)
	out.LoanNet = out.LoanGross.Sub(out.ClosingCosts.Total).Round(p)

	// Equity covers whatever the loan does not: purchase basis, closing
	// costs and upfront reserves.
	out.EquityRequired = Sum(basis, out.ClosingCosts.Total, in.UpfrontReserves).Sub(out.LoanGross).Round(p)

	if in.Type == Financed {
		out.Schedule = BuildSchedule(out.LoanGross, in.Terms, p)
	}
	out.Hooks = acquisitionHooks(basis, out.ClosingCosts.Total, out.LoanGross, out.EquityRequired, in.UpfrontReserves)
	return out
}

func validateFinancing(in FinancingInput) []string {
	var errs []string
	if !in.PurchasePrice.IsPositive() {
		errs = append(errs, "purchase price must be > 0")
	}
	if in.Improvements.IsNegative() {
		errs = append(errs, "building improvements must be >= 0")
	}
	if in.ClosingCostRate < 0 {
		errs = append(errs, "closing cost rate must be >= 0")
	}
	if in.Type == Financed {
		ltv := in.GlobalLTV
		if in.LTV != nil {
			ltv = *in.LTV
		}
		if ltv <= 0 || ltv > 1 {
			errs = append(errs, fmt.Sprintf("LTV %v out of range (0, 1]", ltv))
		}
	}
	return errs
}

// acquisitionHooks are the origination deltas: the property and deferred
// closing costs come on, the loan and contributed equity fund them, and the
// cash legs carry the cash flow classification.
func acquisitionHooks(basis, closing, loan, equity, reserves Money) []JournalDelta {
	hooks := []JournalDelta{
		{Account: AccountProperty, Debit: basis, Classification: Asset, Bucket: Investing, Memo: "property at cost"},
		{Account: AccountCash, Credit: basis, Classification: Asset, Bucket: Investing, Memo: "purchase price paid"},
	}
	if !closing.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: AccountClosingCosts, Debit: closing, Classification: Deferred, Bucket: Investing, Memo: "deferred closing costs"},
			JournalDelta{Account: AccountCash, Credit: closing, Classification: Asset, Bucket: Investing, Memo: "closing costs paid"},
		)
	}
	if !reserves.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: AccountReserves, Debit: reserves, Classification: Asset, Bucket: Investing, Memo: "upfront reserves"},
			JournalDelta{Account: AccountCash, Credit: reserves, Classification: Asset, Bucket: Investing, Memo: "reserves funded"},
		)
	}
	if !loan.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: AccountDebtAcquisition, Credit: loan, Classification: Liability, Bucket: Financing, Memo: "acquisition loan"},
			JournalDelta{Account: AccountCash, Debit: loan, Classification: Asset, Bucket: Financing, Memo: "loan proceeds"},
		)
	}
	if !equity.IsZero() {
		hooks = append(hooks,
			JournalDelta{Account: AccountEquityContributed, Credit: equity, Classification: Equity, Bucket: Financing, Memo: "equity contribution"},
			JournalDelta{Account: AccountCash, Debit: equity, Classification: Asset, Bucket: Financing, Memo: "equity funded"},
		)
	}
	return hooks
}
