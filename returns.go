package proforma

// ReturnMetrics summarize an equity cash-flow vector. Negative flows are
// capital invested, positive flows are distributions.
type ReturnMetrics struct {
	TotalInvested      Money     `json:"total_invested"`
	TotalDistributions Money     `json:"total_distributions"`
	NetProfit          Money     `json:"net_profit"`
	MOIC               float64   `json:"moic"`
	DPI                float64   `json:"dpi"`
	CashOnCash         float64   `json:"cash_on_cash"`
	IRR                IRRResult `json:"irr"`
	IRRAnnual          float64   `json:"irr_annual"`
}

// ComputeReturns derives the standard return metrics from a periodic equity
// cash-flow series. MOIC and DPI both divide distributions by paid-in
// capital; cash-on-cash averages the annualized flow over invested equity.
// A vector with no invested capital yields zero ratios rather than NaN.
func ComputeReturns(flows []FreeCashFlow, periodsPerYear int, p RoundingPolicy) ReturnMetrics {
	var metrics ReturnMetrics
	for _, f := range flows {
		if f.FCFE.IsNegative() {
			metrics.TotalInvested = metrics.TotalInvested.Add(f.FCFE.Abs())
		} else {
			metrics.TotalDistributions = metrics.TotalDistributions.Add(f.FCFE)
		}
	}
	metrics.TotalInvested = metrics.TotalInvested.Round(p)
	metrics.TotalDistributions = metrics.TotalDistributions.Round(p)
	metrics.NetProfit = metrics.TotalDistributions.Sub(metrics.TotalInvested).Round(p)

	if metrics.TotalInvested.IsPositive() {
		invested := metrics.TotalInvested.Float64()
		metrics.MOIC = metrics.TotalDistributions.Float64() / invested
		metrics.DPI = metrics.MOIC

		if n := len(flows); n > 0 && periodsPerYear > 0 {
			years := float64(n) / float64(periodsPerYear)
			metrics.CashOnCash = metrics.NetProfit.Float64() / years / invested
		}
	}

	metrics.IRR = IRR(EquityCashFlowVector(flows))
	if metrics.IRR.Converged {
		metrics.IRRAnnual = AnnualizeIRR(metrics.IRR.Periodic, periodsPerYear)
	}
	return metrics
}
