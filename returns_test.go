package proforma

import (
	"math"
	"testing"
)

func flowsFromVector(fcfe ...float64) []FreeCashFlow {
	flows := make([]FreeCashFlow, len(fcfe))
	for i, v := range fcfe {
		flows[i] = FreeCashFlow{FCFE: M(v)}
	}
	return flows
}

func TestComputeReturns(t *testing.T) {
	// One year of monthly flows: 500k in, 600k back at year end.
	flows := flowsFromVector(-500_000, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 600_000)
	metrics := ComputeReturns(flows, 12, DefaultRounding)

	if !metrics.TotalInvested.Equal(M(500_000)) {
		t.Errorf("invested = %s, want %s", metrics.TotalInvested, M(500_000))
	}
	if !metrics.TotalDistributions.Equal(M(600_000)) {
		t.Errorf("distributions = %s, want %s", metrics.TotalDistributions, M(600_000))
	}
	if !metrics.NetProfit.Equal(M(100_000)) {
		t.Errorf("net profit = %s, want %s", metrics.NetProfit, M(100_000))
	}
	if math.Abs(metrics.MOIC-1.2) > 1e-9 {
		t.Errorf("MOIC = %f, want 1.2", metrics.MOIC)
	}
	if metrics.DPI != metrics.MOIC {
		t.Errorf("DPI = %f, want MOIC %f", metrics.DPI, metrics.MOIC)
	}
	// 100k profit over one year on 500k is 20% cash-on-cash.
	if math.Abs(metrics.CashOnCash-0.20) > 1e-9 {
		t.Errorf("cash-on-cash = %f, want 0.20", metrics.CashOnCash)
	}
	if !metrics.IRR.Converged {
		t.Fatal("IRR did not converge")
	}
	// (1+r)^11 = 1.2 over eleven discounting periods, annualized to twelve.
	wantPeriodic := math.Pow(1.2, 1.0/11) - 1
	if math.Abs(metrics.IRR.Periodic-wantPeriodic) > 1e-6 {
		t.Errorf("periodic IRR = %f, want %f", metrics.IRR.Periodic, wantPeriodic)
	}
	wantAnnual := math.Pow(1+wantPeriodic, 12) - 1
	if math.Abs(metrics.IRRAnnual-wantAnnual) > 1e-5 {
		t.Errorf("annual IRR = %f, want %f", metrics.IRRAnnual, wantAnnual)
	}
}

func TestComputeReturnsInterimFlows(t *testing.T) {
	flows := flowsFromVector(-500_000, 20_000, -30_000, 40_000)
	metrics := ComputeReturns(flows, 12, DefaultRounding)

	if !metrics.TotalInvested.Equal(M(530_000)) {
		t.Errorf("invested = %s, want %s", metrics.TotalInvested, M(530_000))
	}
	if !metrics.TotalDistributions.Equal(M(60_000)) {
		t.Errorf("distributions = %s, want %s", metrics.TotalDistributions, M(60_000))
	}
}

func TestComputeReturnsNoInvestedCapital(t *testing.T) {
	flows := flowsFromVector(0, 100_000)
	metrics := ComputeReturns(flows, 12, DefaultRounding)

	if metrics.MOIC != 0 || metrics.DPI != 0 || metrics.CashOnCash != 0 {
		t.Errorf("ratios = %f/%f/%f, want zeros without invested capital",
			metrics.MOIC, metrics.DPI, metrics.CashOnCash)
	}
	if metrics.IRR.Converged {
		t.Error("IRR converged without a sign change")
	}
}

func TestComputeReturnsEmpty(t *testing.T) {
	metrics := ComputeReturns(nil, 12, DefaultRounding)
	if !metrics.TotalInvested.IsZero() || !metrics.TotalDistributions.IsZero() {
		t.Error("empty series produced non-zero totals")
	}
	if metrics.IRR.Converged {
		t.Error("IRR converged on an empty series")
	}
}
