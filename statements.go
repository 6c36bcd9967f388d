package proforma

import "github.com/hoteliq/proforma/date"

// StatementLine is one account line on a derived statement.
type StatementLine struct {
	Account string `json:"account"`
	Amount  Money  `json:"amount"`
}

// IncomeStatement is the period-local profit and loss: revenue and expense
// accounts reset each month, and net income rolls into retained earnings on
// the next balance sheet.
type IncomeStatement struct {
	Period        date.Month      `json:"period"`
	RevenueLines  []StatementLine `json:"revenue_accounts"`
	ExpenseLines  []StatementLine `json:"expense_accounts"`
	TotalRevenue  Money           `json:"total_revenue"`
	TotalExpenses Money           `json:"total_expenses"`
	NetIncome     Money           `json:"net_income"`
}

// BalanceSheet is a point-in-time snapshot of cumulative activity through a
// period. Assets include deferred balances; the retained earnings line
// carries cumulative net income.
type BalanceSheet struct {
	Period           date.Month      `json:"period"`
	AssetLines       []StatementLine `json:"assets"`
	LiabilityLines   []StatementLine `json:"liabilities"`
	EquityLines      []StatementLine `json:"equity"`
	TotalAssets      Money           `json:"total_assets"`
	TotalLiabilities Money           `json:"total_liabilities"`
	TotalEquity      Money           `json:"total_equity"`
	Balanced         bool            `json:"balanced"`
}

// RetainedEarnings returns the retained earnings equity line, zero if absent.
func (bs BalanceSheet) RetainedEarnings() Money {
	for _, line := range bs.EquityLines {
		if line.Account == AccountRetainedEarnings {
			return line.Amount
		}
	}
	return Money{}
}

// CashFlowStatement buckets one period's cash movements. Only cash-account
// legs carry cash impact: every balanced entry that moves cash has one.
type CashFlowStatement struct {
	Period        date.Month `json:"period"`
	Operating     Money      `json:"operating"`
	Investing     Money      `json:"investing"`
	Financing     Money      `json:"financing"`
	NetCashChange Money      `json:"net_cash_change"`
}

func incomeStatement(tb []TrialBalanceEntry, period date.Month, p RoundingPolicy) IncomeStatement {
	is := IncomeStatement{Period: period}
	for _, entry := range tb {
		switch entry.Classification {
		case Revenue:
			is.RevenueLines = append(is.RevenueLines, StatementLine{entry.Account, entry.Balance})
			is.TotalRevenue = is.TotalRevenue.Add(entry.Balance)
		case Expense:
			is.ExpenseLines = append(is.ExpenseLines, StatementLine{entry.Account, entry.Balance})
			is.TotalExpenses = is.TotalExpenses.Add(entry.Balance)
		}
	}
	is.TotalRevenue = is.TotalRevenue.Round(p)
	is.TotalExpenses = is.TotalExpenses.Round(p)
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses).Round(p)
	return is
}

func balanceSheet(entries []PostedEntry, period date.Month, cumulativeNetIncome Money, p RoundingPolicy) BalanceSheet {
	bs := BalanceSheet{Period: period}
	tb := cumulativeTrialBalance(entries, period, p)

	sawRetainedEarnings := false
	for _, entry := range tb {
		switch entry.Classification {
		case Asset, Deferred:
			bs.AssetLines = append(bs.AssetLines, StatementLine{entry.Account, entry.Balance})
		case Liability:
			bs.LiabilityLines = append(bs.LiabilityLines, StatementLine{entry.Account, entry.Balance})
		case Equity:
			amount := entry.Balance
			if entry.Account == AccountRetainedEarnings {
				amount = amount.Add(cumulativeNetIncome).Round(p)
				sawRetainedEarnings = true
			}
			bs.EquityLines = append(bs.EquityLines, StatementLine{entry.Account, amount})
		}
		// IS accounts never appear on the balance sheet.
	}

	// Without explicitly posted retained earnings, the rollforward itself is
	// the equity line.
	if !cumulativeNetIncome.IsZero() && !sawRetainedEarnings {
		bs.EquityLines = append(bs.EquityLines, StatementLine{AccountRetainedEarnings, cumulativeNetIncome.Round(p)})
	}

	for _, line := range bs.AssetLines {
		bs.TotalAssets = bs.TotalAssets.Add(line.Amount)
	}
	for _, line := range bs.LiabilityLines {
		bs.TotalLiabilities = bs.TotalLiabilities.Add(line.Amount)
	}
	for _, line := range bs.EquityLines {
		bs.TotalEquity = bs.TotalEquity.Add(line.Amount)
	}
	bs.TotalAssets = bs.TotalAssets.Round(p)
	bs.TotalLiabilities = bs.TotalLiabilities.Round(p)
	bs.TotalEquity = bs.TotalEquity.Round(p)
	bs.Balanced = WithinTolerance(bs.TotalAssets, bs.TotalLiabilities.Add(bs.TotalEquity), p.Tolerance())
	return bs
}

func cashFlowStatement(entries []PostedEntry, period date.Month, p RoundingPolicy) CashFlowStatement {
	cf := CashFlowStatement{Period: period}
	for _, e := range entries {
		if e.Period != period || e.Account != AccountCash {
			continue
		}
		impact := e.Debit.Sub(e.Credit) // debit = inflow, credit = outflow
		switch e.Bucket {
		case Operating:
			cf.Operating = cf.Operating.Add(impact)
		case Investing:
			cf.Investing = cf.Investing.Add(impact)
		case Financing:
			cf.Financing = cf.Financing.Add(impact)
		}
	}
	cf.Operating = cf.Operating.Round(p)
	cf.Investing = cf.Investing.Round(p)
	cf.Financing = cf.Financing.Round(p)
	cf.NetCashChange = Sum(cf.Operating, cf.Investing, cf.Financing).Round(p)
	return cf
}
