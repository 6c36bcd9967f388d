package proforma

// ConsolidationScope selects what rolls up into the consolidated view.
type ConsolidationScope int

const (
	// PropertiesOnly sums the property statements without the management
	// company, for pure portfolio operating performance.
	PropertiesOnly ConsolidationScope = iota
	// FullEntity includes the management company and eliminates the
	// intercompany management fees.
	FullEntity
)

func (s ConsolidationScope) String() string {
	switch s {
	case PropertiesOnly:
		return "properties_only"
	case FullEntity:
		return "full_entity"
	default:
		return "unknown"
	}
}

// PropertyStatement is one property's summary figures for a consolidation
// period.
type PropertyStatement struct {
	Name              string `json:"name"`
	Revenue           Money  `json:"revenue"`
	OperatingExpenses Money  `json:"operating_expenses"`
	ManagementFees    Money  `json:"management_fees"`
	NOI               Money  `json:"noi"`
	NetIncome         Money  `json:"net_income"`
	TotalAssets       Money  `json:"total_assets"`
	TotalLiabilities  Money  `json:"total_liabilities"`
	TotalEquity       Money  `json:"total_equity"`
}

// ManagementCompanyStatement is the OpCo's summary for the same period. Its
// fee revenue is the internal counterpart of the properties' management
// fees.
type ManagementCompanyStatement struct {
	FeeRevenue        Money `json:"fee_revenue"`
	OperatingExpenses Money `json:"operating_expenses"`
	NetIncome         Money `json:"net_income"`
	TotalAssets       Money `json:"total_assets"`
	TotalLiabilities  Money `json:"total_liabilities"`
	TotalEquity       Money `json:"total_equity"`
}

// Eliminations reports the intercompany fee elimination. Fees a property
// pays its manager are internal transfers, not economic activity, so they
// come out of both revenue and expense; a linkage imbalance flags a model
// bug upstream.
type Eliminations struct {
	ManagementFeesEliminated Money `json:"management_fees_eliminated"`
	FeeLinkageBalanced       bool  `json:"fee_linkage_balanced"`
	Variance                 Money `json:"variance"`
}

// Consolidated is the portfolio-level statement rollup.
type Consolidated struct {
	Scope              ConsolidationScope `json:"consolidation_type"`
	Revenue            Money              `json:"consolidated_revenue"`
	Expenses           Money              `json:"consolidated_expenses"`
	NOI                Money              `json:"consolidated_noi"`
	NetIncome          Money              `json:"consolidated_net_income"`
	Eliminations       Eliminations       `json:"intercompany_eliminations"`
	Assets             Money              `json:"consolidated_assets"`
	Liabilities        Money              `json:"consolidated_liabilities"`
	Equity             Money              `json:"consolidated_equity"`
	BalanceSheetSquare bool               `json:"balance_sheet_balanced"`
	PropertyCount      int                `json:"property_count"`
}

// Consolidate rolls property statements (and under FullEntity the management
// company) into one view, eliminating intercompany fees and re-checking the
// accounting equation on the combined balance sheet.
//
// The elimination takes the lesser of fees paid and fee revenue received, so
// an imbalance never over-eliminates; the variance and linkage flag surface
// the mismatch instead.
func Consolidate(scope ConsolidationScope, properties []PropertyStatement, opco *ManagementCompanyStatement, p RoundingPolicy) Consolidated {
	out := Consolidated{
		Scope:         scope,
		PropertyCount: len(properties),
		Eliminations:  Eliminations{FeeLinkageBalanced: true},
	}

	var feesPaid Money
	for _, prop := range properties {
		out.Revenue = out.Revenue.Add(prop.Revenue)
		out.Expenses = out.Expenses.Add(prop.OperatingExpenses)
		out.NOI = out.NOI.Add(prop.NOI)
		out.NetIncome = out.NetIncome.Add(prop.NetIncome)
		out.Assets = out.Assets.Add(prop.TotalAssets)
		out.Liabilities = out.Liabilities.Add(prop.TotalLiabilities)
		out.Equity = out.Equity.Add(prop.TotalEquity)
		feesPaid = feesPaid.Add(prop.ManagementFees)
	}

	if scope == FullEntity && opco != nil {
		out.Revenue = out.Revenue.Add(opco.FeeRevenue)
		out.Expenses = out.Expenses.Add(opco.OperatingExpenses)
		out.NetIncome = out.NetIncome.Add(opco.NetIncome)
		out.Assets = out.Assets.Add(opco.TotalAssets)
		out.Liabilities = out.Liabilities.Add(opco.TotalLiabilities)
		out.Equity = out.Equity.Add(opco.TotalEquity)

		eliminated := feesPaid
		if opco.FeeRevenue.LessThan(feesPaid) {
			eliminated = opco.FeeRevenue
		}
		out.Eliminations.ManagementFeesEliminated = eliminated.Round(p)
		out.Eliminations.Variance = feesPaid.Sub(opco.FeeRevenue).Abs().Round(p)
		out.Eliminations.FeeLinkageBalanced = WithinTolerance(feesPaid, opco.FeeRevenue, p.Tolerance())

		out.Revenue = out.Revenue.Sub(eliminated)
		out.Expenses = out.Expenses.Sub(eliminated)
	}

	out.Revenue = out.Revenue.Round(p)
	out.Expenses = out.Expenses.Round(p)
	out.NOI = out.NOI.Round(p)
	out.NetIncome = out.NetIncome.Round(p)
	out.Assets = out.Assets.Round(p)
	out.Liabilities = out.Liabilities.Round(p)
	out.Equity = out.Equity.Round(p)

	out.BalanceSheetSquare = WithinTolerance(out.Assets, out.Liabilities.Add(out.Equity), p.Tolerance())
	return out
}
