package proforma

import (
	"encoding/json"
	"fmt"

	"github.com/hoteliq/proforma/date"
)

// CheckKind identifies one of the reconciliation invariants.
type CheckKind int

const (
	// BSBalance verifies assets = liabilities + equity each period.
	BSBalance CheckKind = iota
	// CFTieOut verifies operating+investing+financing = the period's cash delta.
	CFTieOut
	// IncomeToRetainedEarnings verifies cumulative net income equals the
	// retained earnings balance.
	IncomeToRetainedEarnings
)

func (k CheckKind) String() string {
	switch k {
	case BSBalance:
		return "BS_BALANCE"
	case CFTieOut:
		return "CF_TIEOUT"
	case IncomeToRetainedEarnings:
		return "IS_TO_RE"
	default:
		return "unknown"
	}
}

// ParseCheckKind parses a string into a CheckKind.
func ParseCheckKind(s string) (CheckKind, error) {
	switch s {
	case "BS_BALANCE":
		return BSBalance, nil
	case "CF_TIEOUT":
		return CFTieOut, nil
	case "IS_TO_RE":
		return IncomeToRetainedEarnings, nil
	default:
		return 0, fmt.Errorf("unknown reconciliation check: %q", s)
	}
}

func (k CheckKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *CheckKind) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}
	v, err := ParseCheckKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ReconciliationCheck is the outcome of one invariant on one period.
type ReconciliationCheck struct {
	Check    CheckKind  `json:"check"`
	Period   date.Month `json:"period"`
	Passed   bool       `json:"passed"`
	Expected Money      `json:"expected"`
	Actual   Money      `json:"actual"`
	Variance Money      `json:"variance"`
	GAAPRef  string     `json:"gaap_ref"`
}

// Detail describes the check for report rendering.
func (c ReconciliationCheck) Detail() string {
	return fmt.Sprintf("%s %s: expected %s, actual %s (variance %s)",
		c.Check, c.Period, c.Expected, c.Actual, c.Variance)
}

// ReconciliationReport is the full invariant sweep across all periods. The
// checks are read-only: a failure is reported, never thrown.
type ReconciliationReport struct {
	Checks    []ReconciliationCheck `json:"checks"`
	AllPassed bool                  `json:"all_passed"`
}

func newCheck(kind CheckKind, period date.Month, expected, actual Money, gaapRef string, p RoundingPolicy) ReconciliationCheck {
	variance := expected.Sub(actual).Abs().Round(p)
	return ReconciliationCheck{
		Check:    kind,
		Period:   period,
		Passed:   variance.LessThan(p.Tolerance()),
		Expected: expected,
		Actual:   actual,
		Variance: variance,
		GAAPRef:  gaapRef,
	}
}

// reconcile runs the three invariants against every period's statements.
func reconcile(entries []PostedEntry, incomes []IncomeStatement, sheets []BalanceSheet, flows []CashFlowStatement, p RoundingPolicy) ReconciliationReport {
	var report ReconciliationReport

	// Assets = Liabilities + Equity, every period.
	for _, bs := range sheets {
		report.Checks = append(report.Checks, newCheck(BSBalance, bs.Period,
			bs.TotalAssets, bs.TotalLiabilities.Add(bs.TotalEquity).Round(p), "FASB", p))
	}

	// Net cash change ties to the cash account's movement.
	for _, cf := range flows {
		report.Checks = append(report.Checks, newCheck(CFTieOut, cf.Period,
			cf.NetCashChange, cashDelta(entries, cf.Period, p), "ASC 230", p))
	}

	// Cumulative net income equals the retained earnings balance.
	var cumulativeNetIncome Money
	for _, is := range incomes {
		cumulativeNetIncome = cumulativeNetIncome.Add(is.NetIncome).Round(p)
		for _, bs := range sheets {
			if bs.Period == is.Period {
				report.Checks = append(report.Checks, newCheck(IncomeToRetainedEarnings,
					is.Period, cumulativeNetIncome, bs.RetainedEarnings(), "FASB", p))
				break
			}
		}
	}

	report.AllPassed = true
	for _, c := range report.Checks {
		if !c.Passed {
			report.AllPassed = false
			break
		}
	}
	return report
}
