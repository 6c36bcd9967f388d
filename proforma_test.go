package proforma

import (
	"math"
	"testing"

	"github.com/hoteliq/proforma/date"
)

func projectionFixture(t *testing.T) (PropertyAssumptions, GlobalAssumptions) {
	t.Helper()
	prop := DefaultPropertyAssumptions()
	prop.PropertyID = "prop-1"
	prop.Name = "Harbor House"
	prop.RoomCount = 60
	prop.StartADR = 250
	prop.ADRGrowthRate = 0.03
	prop.StartOccupancy = 0.55
	prop.MaxOccupancy = 0.80
	prop.OccupancyGrowthStep = 0.05
	prop.PurchasePrice = M(10_000_000)
	prop.Financing = Financed
	prop.OperatingReserve = M(250_000)
	prop.AcquisitionDate = date.New(2026, 4, 1)
	prop.OperationsStart = date.New(2026, 7, 1)

	global := DefaultGlobalAssumptions(date.New(2026, 1, 1))
	global.ProjectionYears = 3
	return prop, global
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %.4f, want %.4f", name, got, want)
	}
}

func TestProjectPropertyHorizon(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	if len(months) != 36 {
		t.Fatalf("projected %d months, want 36", len(months))
	}
	if months[0].Period != date.NewMonth(2026, 1) {
		t.Errorf("first period = %s, want 2026-01", months[0].Period)
	}
	if months[35].Period != date.NewMonth(2028, 12) {
		t.Errorf("last period = %s, want 2028-12", months[35].Period)
	}
}

func TestProjectPropertyPreOperations(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	// January through June precede operations: no revenue, no occupancy, no
	// fixed operating costs.
	for _, m := range months[:6] {
		if m.RevenueTotal != 0 {
			t.Errorf("%s: revenue %.2f before operations", m.Period, m.RevenueTotal)
		}
		if m.Occupancy != 0 {
			t.Errorf("%s: occupancy %.2f before operations", m.Period, m.Occupancy)
		}
		if m.ExpenseAdmin != 0 || m.ExpenseInsurance != 0 {
			t.Errorf("%s: fixed costs incurred before operations", m.Period)
		}
	}

	// The loan starts at acquisition in April, three months before opening.
	march, april := months[2], months[3]
	if march.InterestExpense != 0 || march.DepreciationExpense != 0 {
		t.Errorf("March carries debt or depreciation before acquisition")
	}
	// 10M at 75 LTV, 9% annual: first month interest is 7.5M x 0.75%.
	approx(t, "April interest", april.InterestExpense, 7_500_000*0.0075)
	if april.DepreciationExpense <= 0 {
		t.Error("April has no depreciation after acquisition")
	}
	if april.NetIncome >= 0 {
		t.Error("pre-opening month with debt service should lose money")
	}
}

func TestProjectPropertyOpeningMonth(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	july := months[6]
	if july.Occupancy != 0.55 {
		t.Errorf("opening occupancy = %.2f, want 0.55", july.Occupancy)
	}
	approx(t, "available rooms", july.AvailableRooms, 60*30.5)
	approx(t, "sold rooms", july.SoldRooms, 60*30.5*0.55)
	approx(t, "rooms revenue", july.RevenueRooms, 60*30.5*0.55*250)
	approx(t, "events revenue", july.RevenueEvents, july.RevenueRooms*0.30)
	approx(t, "fb revenue", july.RevenueFB, july.RevenueRooms*0.18*1.22)
	approx(t, "other revenue", july.RevenueOther, july.RevenueRooms*0.05)
	approx(t, "total revenue", july.RevenueTotal,
		july.RevenueRooms+july.RevenueEvents+july.RevenueFB+july.RevenueOther)
}

func TestProjectPropertyOccupancyRamp(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	tests := []struct {
		index int
		want  float64
	}{
		{6, 0.55},  // opening
		{11, 0.55}, // month 5 of operations, first step not yet reached
		{12, 0.60}, // month 6: one ramp step
		{18, 0.65},
		{24, 0.70},
		{35, 0.75}, // four steps in; the 0.80 cap is beyond this horizon
	}
	for _, tc := range tests {
		got := months[tc.index].Occupancy
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("month %d occupancy = %.2f, want %.2f", tc.index, got, tc.want)
		}
	}

	// On a longer horizon the ramp stops at the maximum.
	global.ProjectionYears = 6
	long := ProjectProperty(prop, global)
	if got := long[71].Occupancy; math.Abs(got-0.80) > 1e-9 {
		t.Errorf("late occupancy = %.2f, want capped at 0.80", got)
	}
}

func TestProjectPropertyADRGrowsByOperatingYear(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	// Months 6..17 are operating year zero, 18..29 year one.
	approx(t, "year 0 ADR", months[6].ADR, 250)
	approx(t, "year 0 ADR late", months[17].ADR, 250)
	approx(t, "year 1 ADR", months[18].ADR, 250*1.03)
	approx(t, "year 2 ADR", months[30].ADR, 250*1.03*1.03)
}

func TestProjectPropertyFixedCostsAnchored(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	// Occupancy grows between months 6 and 12, yet fixed costs hold at the
	// base anchor within the same operating year.
	if months[6].ExpenseAdmin != months[12].ExpenseAdmin {
		t.Errorf("admin cost tracked occupancy: %.2f vs %.2f",
			months[6].ExpenseAdmin, months[12].ExpenseAdmin)
	}
	// Across an operating year boundary they escalate once.
	approx(t, "escalated admin", months[18].ExpenseAdmin, months[6].ExpenseAdmin*1.03)

	// Variable costs do track revenue.
	if months[12].ExpenseRooms <= months[6].ExpenseRooms {
		t.Error("rooms expense did not grow with occupancy")
	}
}

func TestProjectPropertyFeesAndNOI(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	for _, m := range months[6:] {
		approx(t, m.Period.String()+" base fee", m.FeeBase, m.RevenueTotal*0.085)
		if m.GOP > 0 {
			approx(t, m.Period.String()+" incentive fee", m.FeeIncentive, m.GOP*0.12)
		} else if m.FeeIncentive != 0 {
			t.Errorf("%s: incentive fee %.2f on negative GOP", m.Period, m.FeeIncentive)
		}
		approx(t, m.Period.String()+" NOI", m.NOI, m.GOP-m.FeeBase-m.FeeIncentive-m.ExpenseFFE)
	}
}

func TestProjectPropertyIdentities(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	for _, m := range months {
		approx(t, m.Period.String()+" net income",
			m.NetIncome, m.NOI-m.InterestExpense-m.DepreciationExpense-m.IncomeTax)
		approx(t, m.Period.String()+" cash flow",
			m.CashFlow, m.NOI-m.DebtPayment-m.IncomeTax)
		approx(t, m.Period.String()+" operating cash flow",
			m.OperatingCashFlow, m.NetIncome+m.DepreciationExpense)
		if m.IncomeTax < 0 {
			t.Errorf("%s: negative income tax %.2f", m.Period, m.IncomeTax)
		}
		approx(t, m.Period.String()+" debt payment",
			m.DebtPayment, m.InterestExpense+m.PrincipalPayment)
	}
}

func TestProjectPropertyDebtAmortizes(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	prev := 7_500_000.0
	for _, m := range months[3:] {
		if m.DebtOutstanding >= prev {
			t.Errorf("%s: balance %.2f did not decrease from %.2f", m.Period, m.DebtOutstanding, prev)
		}
		prev = m.DebtOutstanding
	}
}

func TestProjectPropertyCashTrajectory(t *testing.T) {
	prop, global := projectionFixture(t)
	months := ProjectProperty(prop, global)

	// The operating reserve seeds cash in the acquisition month; before that
	// the account runs at zero.
	cumulative := 0.0
	for i, m := range months {
		if i == 3 {
			cumulative += 250_000
		}
		cumulative += m.CashFlow
		approx(t, m.Period.String()+" ending cash", m.EndingCash, cumulative)
		if m.CashShortfall != (m.EndingCash < 0) {
			t.Errorf("%s: shortfall flag %v with cash %.2f", m.Period, m.CashShortfall, m.EndingCash)
		}
	}
}

func TestProjectPropertyFullEquity(t *testing.T) {
	prop, global := projectionFixture(t)
	prop.Financing = FullEquity
	months := ProjectProperty(prop, global)

	for _, m := range months {
		if m.InterestExpense != 0 || m.PrincipalPayment != 0 || m.DebtOutstanding != 0 {
			t.Errorf("%s: unlevered property carries debt", m.Period)
		}
	}
}

func TestProjectPropertyRefinanceOverlay(t *testing.T) {
	prop, global := projectionFixture(t)
	base := ProjectProperty(prop, global)

	prop.WillRefinance = true
	prop.RefinanceDate = date.New(2028, 1, 1) // month index 24
	refi := ProjectProperty(prop, global)

	const refiIndex = 24

	// Operations are debt independent: revenue and NOI match the base run
	// everywhere, and debt fields match before the refinance month.
	for i := range base {
		approx(t, base[i].Period.String()+" NOI unchanged", refi[i].NOI, base[i].NOI)
		if i < refiIndex {
			approx(t, base[i].Period.String()+" pre-refi interest", refi[i].InterestExpense, base[i].InterestExpense)
			approx(t, base[i].Period.String()+" pre-refi balance", refi[i].DebtOutstanding, base[i].DebtOutstanding)
		}
	}

	at := refi[refiIndex]
	if at.RefinancingProceeds <= 0 {
		t.Fatalf("refinance month proceeds = %.2f, want positive cash-out", at.RefinancingProceeds)
	}
	// Proceeds flow through financing cash and the cash balance.
	approx(t, "refi financing cash", at.FinancingCashFlow, -at.PrincipalPayment+at.RefinancingProceeds)
	if refi[refiIndex].EndingCash <= base[refiIndex].EndingCash {
		t.Error("cash-out did not raise the cash balance")
	}

	// The new loan replaces the old balance from the refinance month on.
	if at.DebtOutstanding <= base[refiIndex].DebtOutstanding {
		t.Error("expected a larger balance after the cash-out refinance")
	}
	for _, m := range refi[refiIndex+1:] {
		if m.RefinancingProceeds != 0 {
			t.Errorf("%s: proceeds repeat after the refinance month", m.Period)
		}
	}
}
