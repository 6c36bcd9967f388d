package proforma

import "github.com/hoteliq/proforma/date"

// FreeCashFlow is one period's free cash flow derivation from the posted
// ledger.
//
// FCFF starts from net income and deducts capex; interest is not added back
// since it already flows through net income. The golden fixtures pin this
// treatment, so changing it means re-deriving every pinned expectation.
// FCFE layers net borrowing on top.
type FreeCashFlow struct {
	Period                   date.Month `json:"period"`
	NetIncome                Money      `json:"net_income"`
	DepreciationAmortization Money      `json:"depreciation_amortization"`
	Capex                    Money      `json:"capex"`
	NetBorrowing             Money      `json:"net_borrowing"`
	FCFF                     Money      `json:"fcff"`
	FCFE                     Money      `json:"fcfe"`
}

// FreeCashFlows derives FCFF and FCFE for every posted period.
//
// Capex is the net movement of investing-bucket asset accounts other than
// cash: an asset increase is an outflow, a disposal a source. Net borrowing
// is the financing-bucket movement of the debt accounts: draws positive,
// repayments negative.
func FreeCashFlows(posting *Posting, p RoundingPolicy) []FreeCashFlow {
	flows := make([]FreeCashFlow, 0, len(posting.Periods))
	for _, period := range posting.Periods {
		fcf := FreeCashFlow{Period: period}
		if is, ok := posting.IncomeStatementFor(period); ok {
			fcf.NetIncome = is.NetIncome
		}
		for _, e := range posting.Entries {
			if e.Period != period {
				continue
			}
			switch {
			case e.Account == AccountDepreciationExpense:
				fcf.DepreciationAmortization = fcf.DepreciationAmortization.Add(e.Debit).Sub(e.Credit)
			case e.Bucket == Investing && e.Classification == Asset && e.Account != AccountCash:
				fcf.Capex = fcf.Capex.Add(e.Debit).Sub(e.Credit)
			case e.Bucket == Financing && debtAccounts[e.Account]:
				fcf.NetBorrowing = fcf.NetBorrowing.Add(e.Credit).Sub(e.Debit)
			}
		}
		fcf.DepreciationAmortization = fcf.DepreciationAmortization.Round(p)
		fcf.Capex = fcf.Capex.Round(p)
		fcf.NetBorrowing = fcf.NetBorrowing.Round(p)
		fcf.FCFF = fcf.NetIncome.Add(fcf.DepreciationAmortization).Sub(fcf.Capex).Round(p)
		fcf.FCFE = fcf.FCFF.Add(fcf.NetBorrowing).Round(p)
		flows = append(flows, fcf)
	}
	return flows
}

// EquityCashFlowVector extracts the FCFE series as a plain float vector for
// the return metrics.
func EquityCashFlowVector(flows []FreeCashFlow) []float64 {
	vector := make([]float64, len(flows))
	for i, f := range flows {
		vector[i] = f.FCFE.Float64()
	}
	return vector
}
