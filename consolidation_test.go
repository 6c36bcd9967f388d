package proforma

import "testing"

func consolidationFixture(t *testing.T) ([]PropertyStatement, *ManagementCompanyStatement) {
	t.Helper()
	properties := []PropertyStatement{
		{
			Name:              "Harbor House",
			Revenue:           M(400_000),
			OperatingExpenses: M(250_000),
			ManagementFees:    M(34_000),
			NOI:               M(116_000),
			NetIncome:         M(80_000),
			TotalAssets:       M(2_000_000),
			TotalLiabilities:  M(1_200_000),
			TotalEquity:       M(800_000),
		},
		{
			Name:              "Canyon Lodge",
			Revenue:           M(300_000),
			OperatingExpenses: M(200_000),
			ManagementFees:    M(25_500),
			NOI:               M(74_500),
			NetIncome:         M(50_000),
			TotalAssets:       M(1_500_000),
			TotalLiabilities:  M(900_000),
			TotalEquity:       M(600_000),
		},
	}
	opco := &ManagementCompanyStatement{
		FeeRevenue:        M(59_500),
		OperatingExpenses: M(45_000),
		NetIncome:         M(14_500),
		TotalAssets:       M(120_000),
		TotalLiabilities:  M(20_000),
		TotalEquity:       M(100_000),
	}
	return properties, opco
}

func TestConsolidatePropertiesOnly(t *testing.T) {
	properties, opco := consolidationFixture(t)
	out := Consolidate(PropertiesOnly, properties, opco, DefaultRounding)

	// The OpCo is out of scope and no fees are eliminated.
	if !out.Revenue.Equal(M(700_000)) {
		t.Errorf("revenue = %s, want %s", out.Revenue, M(700_000))
	}
	if !out.Expenses.Equal(M(450_000)) {
		t.Errorf("expenses = %s, want %s", out.Expenses, M(450_000))
	}
	if !out.NOI.Equal(M(190_500)) {
		t.Errorf("NOI = %s, want %s", out.NOI, M(190_500))
	}
	if !out.Eliminations.ManagementFeesEliminated.IsZero() {
		t.Errorf("eliminated %s under properties-only scope", out.Eliminations.ManagementFeesEliminated)
	}
	if out.PropertyCount != 2 {
		t.Errorf("property count = %d, want 2", out.PropertyCount)
	}
	if !out.BalanceSheetSquare {
		t.Error("combined balance sheet out of balance")
	}
}

func TestConsolidateFullEntityEliminatesFees(t *testing.T) {
	properties, opco := consolidationFixture(t)
	out := Consolidate(FullEntity, properties, opco, DefaultRounding)

	if !out.Eliminations.ManagementFeesEliminated.Equal(M(59_500)) {
		t.Errorf("eliminated = %s, want %s", out.Eliminations.ManagementFeesEliminated, M(59_500))
	}
	if !out.Eliminations.FeeLinkageBalanced {
		t.Errorf("fee linkage unbalanced, variance %s", out.Eliminations.Variance)
	}
	// 700,000 + 59,500 fee revenue - 59,500 eliminated.
	if !out.Revenue.Equal(M(700_000)) {
		t.Errorf("revenue = %s, want %s", out.Revenue, M(700_000))
	}
	// 450,000 + 45,000 OpCo overhead - 59,500 eliminated.
	if !out.Expenses.Equal(M(435_500)) {
		t.Errorf("expenses = %s, want %s", out.Expenses, M(435_500))
	}
	// Net income is untouched: the elimination nets to zero through it.
	if !out.NetIncome.Equal(M(144_500)) {
		t.Errorf("net income = %s, want %s", out.NetIncome, M(144_500))
	}
	if !out.BalanceSheetSquare {
		t.Error("combined balance sheet out of balance")
	}
}

func TestConsolidateFeeLinkageMismatch(t *testing.T) {
	properties, opco := consolidationFixture(t)
	opco.FeeRevenue = M(50_000) // OpCo books less than the properties paid

	out := Consolidate(FullEntity, properties, opco, DefaultRounding)

	if out.Eliminations.FeeLinkageBalanced {
		t.Error("mismatched fee linkage reported balanced")
	}
	if !out.Eliminations.Variance.Equal(M(9_500)) {
		t.Errorf("variance = %s, want %s", out.Eliminations.Variance, M(9_500))
	}
	// The elimination takes the lesser leg, never over-eliminating.
	if !out.Eliminations.ManagementFeesEliminated.Equal(M(50_000)) {
		t.Errorf("eliminated = %s, want %s", out.Eliminations.ManagementFeesEliminated, M(50_000))
	}
}

func TestConsolidateFullEntityWithoutOpCo(t *testing.T) {
	properties, _ := consolidationFixture(t)
	out := Consolidate(FullEntity, properties, nil, DefaultRounding)

	// Without an OpCo statement there is nothing to eliminate against.
	if !out.Eliminations.ManagementFeesEliminated.IsZero() {
		t.Errorf("eliminated %s with no OpCo", out.Eliminations.ManagementFeesEliminated)
	}
	if !out.Revenue.Equal(M(700_000)) {
		t.Errorf("revenue = %s, want %s", out.Revenue, M(700_000))
	}
}

func TestConsolidateEmpty(t *testing.T) {
	out := Consolidate(FullEntity, nil, nil, DefaultRounding)
	if out.PropertyCount != 0 {
		t.Errorf("property count = %d, want 0", out.PropertyCount)
	}
	if !out.Revenue.IsZero() || !out.NetIncome.IsZero() {
		t.Error("empty consolidation produced non-zero totals")
	}
	if !out.BalanceSheetSquare {
		t.Error("empty balance sheet reported unbalanced")
	}
}

func TestConsolidationScopeString(t *testing.T) {
	if got := PropertiesOnly.String(); got != "properties_only" {
		t.Errorf("PropertiesOnly = %q", got)
	}
	if got := FullEntity.String(); got != "full_entity" {
		t.Errorf("FullEntity = %q", got)
	}
}
