package proforma

// Account codes used by the engine's journal hooks. Events may reference
// other accounts; unknown codes fall back to the classification carried on
// the journal delta itself.
const (
	AccountCash         = "CASH"
	AccountProperty     = "PROPERTY"
	AccountReserves     = "RESERVES"
	AccountClosingCosts = "CLOSING_COSTS"

	AccountDebtAcquisition = "DEBT_ACQUISITION"
	AccountDebtNew         = "DEBT_NEW"
	AccountDebtOld         = "DEBT_OLD"
	AccountAccruedInterest = "ACCRUED_INTEREST_PAYABLE"

	AccountEquityContributed = "EQUITY_CONTRIBUTED"
	AccountRetainedEarnings  = "RETAINED_EARNINGS"
	AccountGainOnSale        = "GAIN_ON_SALE"

	AccountInterestExpense     = "INTEREST_EXPENSE"
	AccountDepreciationExpense = "DEPRECIATION_EXPENSE"
	AccountPrepaymentPenalty   = "PREPAYMENT_PENALTY_EXPENSE"
)

// AccountDef describes one account in the chart of accounts.
type AccountDef struct {
	Code           string
	Name           string
	Classification Classification
}

// chartOfAccounts is the canonical chart used by the engine's journal hooks.
// Every account code emitted by the event builders appears here.
var chartOfAccounts = []AccountDef{
	{AccountCash, "Cash & Equivalents", Asset},
	{AccountProperty, "Property Asset", Asset},
	{AccountReserves, "Upfront Reserves", Asset},
	{AccountClosingCosts, "Deferred Closing Costs", Deferred},

	{AccountDebtAcquisition, "Acquisition Loan", Liability},
	{AccountDebtNew, "Refinance Loan", Liability},
	{AccountDebtOld, "Old Loan (retired)", Liability},
	{AccountAccruedInterest, "Accrued Interest", Liability},

	{AccountEquityContributed, "Contributed Equity", Equity},
	{AccountRetainedEarnings, "Retained Earnings", Equity},
	{AccountGainOnSale, "Gain on Sale", Equity},

	{AccountInterestExpense, "Interest Expense", Expense},
	{AccountDepreciationExpense, "Depreciation", Expense},
	{AccountPrepaymentPenalty, "Prepayment Penalty", Expense},
}

var accountIndex = func() map[string]AccountDef {
	idx := make(map[string]AccountDef, len(chartOfAccounts))
	for _, a := range chartOfAccounts {
		idx[a.Code] = a
	}
	return idx
}()

// LookupAccount returns the chart definition for a code.
func LookupAccount(code string) (AccountDef, bool) {
	a, ok := accountIndex[code]
	return a, ok
}

// debtAccounts are the liability accounts whose movement constitutes net
// borrowing in the FCFE derivation.
var debtAccounts = map[string]bool{
	AccountDebtAcquisition: true,
	AccountDebtNew:         true,
	AccountDebtOld:         true,
}
