package proforma

import (
	"fmt"
	"slices"

	"github.com/hoteliq/proforma/date"
)

// PostingPolicy selects what the poster does with an unbalanced event.
type PostingPolicy int

const (
	// ContinueAndFlag posts the unbalanced entry anyway and records the event
	// ID in the result flags. Nothing is silently dropped; partial analysis
	// remains possible.
	ContinueAndFlag PostingPolicy = iota
	// AbortBatch stops at the first unbalanced event and returns a flagged,
	// otherwise empty result.
	AbortBatch
)

func (p PostingPolicy) String() string {
	switch p {
	case ContinueAndFlag:
		return "continue-and-flag"
	case AbortBatch:
		return "abort-batch"
	default:
		return "unknown"
	}
}

// PostingOptions configures one posting run.
type PostingOptions struct {
	Rounding RoundingPolicy
	Policy   PostingPolicy
}

// PostedEntry is one journal delta after posting: the delta plus its derived
// reporting period and resolved classification.
type PostedEntry struct {
	Period         date.Month     `json:"period"`
	EventID        string         `json:"event_id"`
	Account        string         `json:"account"`
	Debit          Money          `json:"debit"`
	Credit         Money          `json:"credit"`
	Classification Classification `json:"classification"`
	Bucket         CashFlowBucket `json:"cash_flow_bucket"`
	Memo           string         `json:"memo"`
}

// TrialBalanceEntry is the per-account line of a trial balance. Balance
// respects the account's normal side: debit-normal accounts carry
// debit−credit, credit-normal accounts credit−debit.
type TrialBalanceEntry struct {
	Account        string         `json:"account"`
	DebitTotal     Money          `json:"debit_total"`
	CreditTotal    Money          `json:"credit_total"`
	Balance        Money          `json:"balance"`
	Classification Classification `json:"classification"`
}

// PostingFlags surfaces data-quality defects found while posting.
type PostingFlags struct {
	UnbalancedEvents []string `json:"unbalanced_events"`
	HasPostingErrors bool     `json:"has_posting_errors"`
}

// Posting is the immutable result of posting a batch of events: the general
// ledger plus every derived statement. It is a pure function of the event
// list; posting the same events twice yields identical results.
type Posting struct {
	Entries          []PostedEntry        `json:"posted_entries"`
	Periods          []date.Month         `json:"periods"`
	IncomeStatements []IncomeStatement    `json:"income_statements"`
	BalanceSheets    []BalanceSheet       `json:"balance_sheets"`
	CashFlows        []CashFlowStatement  `json:"cash_flows"`
	Reconciliation   ReconciliationReport `json:"reconciliation"`
	Flags            PostingFlags         `json:"flags"`
	trialBalances    map[date.Month][]TrialBalanceEntry
}

// TrialBalance returns the period-local trial balance for one month.
func (p *Posting) TrialBalance(period date.Month) []TrialBalanceEntry {
	return p.trialBalances[period]
}

// IncomeStatementFor returns the income statement for one month, if any.
func (p *Posting) IncomeStatementFor(period date.Month) (IncomeStatement, bool) {
	for _, is := range p.IncomeStatements {
		if is.Period == period {
			return is, true
		}
	}
	return IncomeStatement{}, false
}

// BalanceSheetFor returns the balance sheet for one month, if any.
func (p *Posting) BalanceSheetFor(period date.Month) (BalanceSheet, bool) {
	for _, bs := range p.BalanceSheets {
		if bs.Period == period {
			return bs, true
		}
	}
	return BalanceSheet{}, false
}

// CashFlowFor returns the cash flow statement for one month, if any.
func (p *Posting) CashFlowFor(period date.Month) (CashFlowStatement, bool) {
	for _, cf := range p.CashFlows {
		if cf.Period == period {
			return cf, true
		}
	}
	return CashFlowStatement{}, false
}

// Post validates and posts events into account balances, then materializes
// one income statement and one cash flow statement per period (period-local
// flows) and one balance sheet per period (cumulative to date), reconciled.
//
// Events are posted in date order; same-date events keep their input order.
// An event whose debits do not equal its credits is handled per the posting
// policy: flagged, never silently dropped.
func Post(events []Event, opts PostingOptions) *Posting {
	// Stable chronological order, insertion order within a day.
	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b Event) int {
		return a.Date.Compare(b.Date)
	})

	result := &Posting{
		trialBalances: make(map[date.Month][]TrialBalanceEntry),
	}

	for _, event := range ordered {
		if !event.Balanced(opts.Rounding) {
			result.Flags.UnbalancedEvents = append(result.Flags.UnbalancedEvents, event.ID)
			result.Flags.HasPostingErrors = true
			if opts.Policy == AbortBatch {
				result.Entries = nil
				return result
			}
			// ContinueAndFlag: post the defective entry anyway.
		}
		period := event.Period()
		for _, delta := range event.Deltas {
			result.Entries = append(result.Entries, PostedEntry{
				Period:         period,
				EventID:        event.ID,
				Account:        delta.Account,
				Debit:          delta.Debit.Round(opts.Rounding),
				Credit:         delta.Credit.Round(opts.Rounding),
				Classification: classify(delta),
				Bucket:         delta.Bucket,
				Memo:           delta.Memo,
			})
		}
	}

	result.Periods = periodsOf(result.Entries)

	// Materialize statements period by period, folding net income into the
	// retained earnings balance carried by each successive balance sheet.
	var cumulativeNetIncome Money
	for _, period := range result.Periods {
		tb := trialBalance(result.Entries, period, opts.Rounding)
		result.trialBalances[period] = tb

		is := incomeStatement(tb, period, opts.Rounding)
		result.IncomeStatements = append(result.IncomeStatements, is)
		cumulativeNetIncome = cumulativeNetIncome.Add(is.NetIncome).Round(opts.Rounding)

		bs := balanceSheet(result.Entries, period, cumulativeNetIncome, opts.Rounding)
		result.BalanceSheets = append(result.BalanceSheets, bs)

		cf := cashFlowStatement(result.Entries, period, opts.Rounding)
		result.CashFlows = append(result.CashFlows, cf)
	}

	result.Reconciliation = reconcile(result.Entries, result.IncomeStatements,
		result.BalanceSheets, result.CashFlows, opts.Rounding)

	return result
}

// classify resolves an entry's classification: the chart of accounts wins,
// unknown accounts keep the classification carried on the delta.
func classify(delta JournalDelta) Classification {
	if def, ok := LookupAccount(delta.Account); ok {
		return def.Classification
	}
	return delta.Classification
}

func periodsOf(entries []PostedEntry) []date.Month {
	seen := make(map[date.Month]bool)
	var periods []date.Month
	for _, e := range entries {
		if !seen[e.Period] {
			seen[e.Period] = true
			periods = append(periods, e.Period)
		}
	}
	slices.SortFunc(periods, date.Month.Compare)
	return periods
}

// trialBalance groups one period's entries by account.
func trialBalance(entries []PostedEntry, period date.Month, p RoundingPolicy) []TrialBalanceEntry {
	return balancesWhere(entries, func(e PostedEntry) bool { return e.Period == period }, p)
}

// cumulativeTrialBalance groups all entries through a period by account; the
// balance sheet is a point-in-time snapshot of cumulative activity.
func cumulativeTrialBalance(entries []PostedEntry, through date.Month, p RoundingPolicy) []TrialBalanceEntry {
	return balancesWhere(entries, func(e PostedEntry) bool { return !e.Period.After(through) }, p)
}

func balancesWhere(entries []PostedEntry, keep func(PostedEntry) bool, p RoundingPolicy) []TrialBalanceEntry {
	type totals struct {
		debit, credit  Money
		classification Classification
	}
	byAccount := make(map[string]*totals)
	var order []string
	for _, e := range entries {
		if !keep(e) {
			continue
		}
		t, ok := byAccount[e.Account]
		if !ok {
			t = &totals{classification: e.Classification}
			byAccount[e.Account] = t
			order = append(order, e.Account)
		}
		t.debit = t.debit.Add(e.Debit)
		t.credit = t.credit.Add(e.Credit)
	}
	slices.Sort(order) // deterministic output
	result := make([]TrialBalanceEntry, 0, len(order))
	for _, account := range order {
		t := byAccount[account]
		var balance Money
		if t.classification.DebitNormal() {
			balance = t.debit.Sub(t.credit)
		} else {
			balance = t.credit.Sub(t.debit)
		}
		result = append(result, TrialBalanceEntry{
			Account:        account,
			DebitTotal:     t.debit.Round(p),
			CreditTotal:    t.credit.Round(p),
			Balance:        balance.Round(p),
			Classification: t.classification,
		})
	}
	return result
}

// cashDelta is the period's net movement of the cash account, the reference
// value for the cash flow tie-out.
func cashDelta(entries []PostedEntry, period date.Month, p RoundingPolicy) Money {
	var delta Money
	for _, e := range entries {
		if e.Period == period && e.Account == AccountCash {
			delta = delta.Add(e.Debit).Sub(e.Credit)
		}
	}
	return delta.Round(p)
}

// Describe returns a short human identifier for a posting, used in memos and
// diagnostics.
func (p *Posting) Describe() string {
	if len(p.Periods) == 0 {
		return "empty posting"
	}
	return fmt.Sprintf("%d entries over %s..%s", len(p.Entries),
		p.Periods[0], p.Periods[len(p.Periods)-1])
}
