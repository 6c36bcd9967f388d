package proforma

import (
	"github.com/google/uuid"

	"github.com/hoteliq/proforma/date"
)

// newEventID generates event identifiers. Tests swap it for a deterministic
// sequence.
var newEventID = uuid.NewString

// NewFundingEvent books an equity contribution: cash in, contributed equity
// up, both tagged financing. Contributions never touch the income statement.
func NewFundingEvent(entityID string, d date.Date, amount Money) Event {
	return Event{
		ID:       newEventID(),
		Type:     Funding,
		Date:     d,
		EntityID: entityID,
		Deltas: []JournalDelta{
			{Account: AccountCash, Debit: amount, Classification: Asset, Bucket: Financing, Memo: "equity funding received"},
			{Account: AccountEquityContributed, Credit: amount, Classification: Equity, Bucket: Financing, Memo: "equity contribution"},
		},
	}
}

// NewAcquisitionEvent wraps the origination hooks produced by
// ComputeFinancing into a single atomic event.
func NewAcquisitionEvent(entityID string, d date.Date, fin FinancingOutput) Event {
	return Event{
		ID:       newEventID(),
		Type:     Acquisition,
		Date:     d,
		EntityID: entityID,
		Deltas:   fin.Hooks,
	}
}

// NewDebtServiceEvent books one month of debt service. Interest is an
// operating expense; principal reduces the liability and is financing cash.
func NewDebtServiceEvent(entityID string, d date.Date, interest, principal Money, debtAccount string) Event {
	if debtAccount == "" {
		debtAccount = AccountDebtAcquisition
	}
	ev := Event{
		ID:       newEventID(),
		Type:     DebtService,
		Date:     d,
		EntityID: entityID,
	}
	if !interest.IsZero() {
		ev.Deltas = append(ev.Deltas,
			JournalDelta{Account: AccountInterestExpense, Debit: interest, Classification: Expense, Bucket: NoBucket, Memo: "interest expense"},
			JournalDelta{Account: AccountCash, Credit: interest, Classification: Asset, Bucket: Operating, Memo: "interest paid"},
		)
	}
	if !principal.IsZero() {
		ev.Deltas = append(ev.Deltas,
			JournalDelta{Account: debtAccount, Debit: principal, Classification: Liability, Bucket: Financing, Memo: "principal repayment"},
			JournalDelta{Account: AccountCash, Credit: principal, Classification: Asset, Bucket: Financing, Memo: "principal paid"},
		)
	}
	return ev
}

// NewRefinanceEvent wraps the refinance hooks into a single atomic event.
func NewRefinanceEvent(entityID string, d date.Date, refi RefinanceOutput) Event {
	return Event{
		ID:       newEventID(),
		Type:     Refinance,
		Date:     d,
		EntityID: entityID,
		Deltas:   refi.Hooks,
	}
}

// NewDepreciationEvent books a non-cash depreciation charge against the
// property basis.
func NewDepreciationEvent(entityID string, d date.Date, amount Money) Event {
	return Event{
		ID:       newEventID(),
		Type:     Depreciation,
		Date:     d,
		EntityID: entityID,
		Deltas: []JournalDelta{
			{Account: AccountDepreciationExpense, Debit: amount, Classification: Expense, Bucket: NoBucket, Memo: "depreciation"},
			{Account: AccountProperty, Credit: amount, Classification: Asset, Bucket: NoBucket, Memo: "accumulated depreciation"},
		},
	}
}

// NewExitEvent books the sale of a property: proceeds in, the book value
// off, commission netted against the gain, and the outstanding debt repaid.
// The gain is carried in equity so the income statement reflects operating
// performance only; the disposal reaches the return vector through the
// investing and financing movements instead.
func NewExitEvent(entityID string, d date.Date, salePrice, bookValue, commission, debtRepaid Money, debtAccount string) Event {
	if debtAccount == "" {
		debtAccount = AccountDebtAcquisition
	}
	ev := Event{
		ID:       newEventID(),
		Type:     Exit,
		Date:     d,
		EntityID: entityID,
		Deltas: []JournalDelta{
			{Account: AccountCash, Debit: salePrice, Classification: Asset, Bucket: Investing, Memo: "sale proceeds"},
			{Account: AccountProperty, Credit: bookValue, Classification: Asset, Bucket: Investing, Memo: "property disposed"},
		},
	}
	if !commission.IsZero() {
		ev.Deltas = append(ev.Deltas,
			JournalDelta{Account: AccountCash, Credit: commission, Classification: Asset, Bucket: Investing, Memo: "sale commission"},
		)
	}
	gain := salePrice.Sub(commission).Sub(bookValue)
	switch {
	case gain.IsPositive():
		ev.Deltas = append(ev.Deltas,
			JournalDelta{Account: AccountGainOnSale, Credit: gain, Classification: Equity, Bucket: NoBucket, Memo: "gain on sale"},
		)
	case gain.IsNegative():
		ev.Deltas = append(ev.Deltas,
			JournalDelta{Account: AccountGainOnSale, Debit: gain.Abs(), Classification: Equity, Bucket: NoBucket, Memo: "loss on sale"},
		)
	}
	if !debtRepaid.IsZero() {
		ev.Deltas = append(ev.Deltas,
			JournalDelta{Account: debtAccount, Debit: debtRepaid, Classification: Liability, Bucket: Financing, Memo: "loan repaid at sale"},
			JournalDelta{Account: AccountCash, Credit: debtRepaid, Classification: Asset, Bucket: Financing, Memo: "loan payoff"},
		)
	}
	return ev
}
