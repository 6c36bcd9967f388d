// Package renderer produces the markdown reports for engine outputs:
// per-period statements with their reconciliation sweep, investment return
// summaries, and the independent verification report.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/hoteliq/proforma"
)

// Cell wrapping splits long check names onto a second physical line, which
// markdown parsers read as an extra row. Every logical row stays on one line.
var tableOpts = md.TableOptions{AutoWrapText: false, AutoFormatHeaders: true}

// ReconciliationMarkdown renders the posting's statements and invariant
// checks as a markdown report.
func ReconciliationMarkdown(p *proforma.Posting) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Financial Statements")
	doc.PlainText(p.Describe())

	doc.H2("Income Statement by Period")
	isTable := md.TableSet{Header: []string{"Period", "Revenue", "Expenses", "Net Income"}}
	for _, is := range p.IncomeStatements {
		isTable.Rows = append(isTable.Rows, []string{
			is.Period.String(),
			is.TotalRevenue.String(),
			is.TotalExpenses.String(),
			is.NetIncome.String(),
		})
	}
	doc.CustomTable(isTable, tableOpts)

	doc.H2("Balance Sheet by Period")
	bsTable := md.TableSet{Header: []string{"Period", "Assets", "Liabilities", "Equity", "Balanced"}}
	for _, bs := range p.BalanceSheets {
		bsTable.Rows = append(bsTable.Rows, []string{
			bs.Period.String(),
			bs.TotalAssets.String(),
			bs.TotalLiabilities.String(),
			bs.TotalEquity.String(),
			yesNo(bs.Balanced),
		})
	}
	doc.CustomTable(bsTable, tableOpts)

	doc.H2("Cash Flow by Period")
	cfTable := md.TableSet{Header: []string{"Period", "Operating", "Investing", "Financing", "Net Change"}}
	for _, cf := range p.CashFlows {
		cfTable.Rows = append(cfTable.Rows, []string{
			cf.Period.String(),
			cf.Operating.String(),
			cf.Investing.String(),
			cf.Financing.String(),
			cf.NetCashChange.String(),
		})
	}
	doc.CustomTable(cfTable, tableOpts)

	doc.H2("Reconciliation")
	if p.Reconciliation.AllPassed {
		doc.PlainText("All reconciliation checks passed.")
	} else {
		doc.PlainText("Some reconciliation checks FAILED.")
	}
	recTable := md.TableSet{Header: []string{"Check", "Period", "Expected", "Actual", "Variance", "Passed"}}
	for _, c := range p.Reconciliation.Checks {
		recTable.Rows = append(recTable.Rows, []string{
			c.Check.String(),
			c.Period.String(),
			c.Expected.String(),
			c.Actual.String(),
			c.Variance.String(),
			yesNo(c.Passed),
		})
	}
	doc.CustomTable(recTable, tableOpts)

	return doc.String()
}

// ReturnsMarkdown renders the free cash flow series and its return metrics.
func ReturnsMarkdown(flows []proforma.FreeCashFlow, metrics proforma.ReturnMetrics) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Investment Returns")

	doc.H2("Free Cash Flow")
	fcfTable := md.TableSet{Header: []string{"Period", "Net Income", "D&A", "Capex", "Net Borrowing", "FCFF", "FCFE"}}
	for _, f := range flows {
		fcfTable.Rows = append(fcfTable.Rows, []string{
			f.Period.String(),
			f.NetIncome.String(),
			f.DepreciationAmortization.String(),
			f.Capex.String(),
			f.NetBorrowing.String(),
			f.FCFF.String(),
			f.FCFE.String(),
		})
	}
	doc.CustomTable(fcfTable, tableOpts)

	doc.H2("Metrics")
	irr := "did not converge"
	if metrics.IRR.Converged {
		irr = fmt.Sprintf("%.4f periodic, %.2f%% annual", metrics.IRR.Periodic, metrics.IRRAnnual*100)
	}
	doc.CustomTable(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Invested", metrics.TotalInvested.String()},
			{"Total Distributions", metrics.TotalDistributions.String()},
			{"Net Profit", metrics.NetProfit.String()},
			{"MOIC", fmt.Sprintf("%.2fx", metrics.MOIC)},
			{"DPI", fmt.Sprintf("%.2fx", metrics.DPI)},
			{"Cash on Cash", fmt.Sprintf("%.2f%%", metrics.CashOnCash*100)},
			{"IRR", irr},
		},
	}, tableOpts)

	return doc.String()
}

// VerificationMarkdown renders the independent verification report with its
// audit opinion.
func VerificationMarkdown(r proforma.VerificationReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Verification Report")
	doc.PlainText(fmt.Sprintf("Opinion: %s (%s). %d checks, %d passed, %d failed (%d critical, %d material).",
		r.Summary.AuditOpinion, r.Summary.OverallStatus,
		r.Summary.TotalChecks, r.Summary.TotalPassed, r.Summary.TotalFailed,
		r.Summary.CriticalIssues, r.Summary.MaterialIssues))

	for _, pr := range r.PropertyResults {
		doc.H2(fmt.Sprintf("%s (%s)", pr.PropertyName, pr.PropertyType))
		doc.CustomTable(checkTable(pr.Checks), tableOpts)
	}
	if len(r.CompanyChecks) > 0 {
		doc.H2("Management Company")
		doc.CustomTable(checkTable(r.CompanyChecks), tableOpts)
	}
	if len(r.ConsolidatedChecks) > 0 {
		doc.H2("Consolidated")
		doc.CustomTable(checkTable(r.ConsolidatedChecks), tableOpts)
	}

	return doc.String()
}

func checkTable(checks []proforma.CheckResult) md.TableSet {
	table := md.TableSet{Header: []string{"Metric", "GAAP Ref", "Expected", "Actual", "Variance %", "Severity", "Passed"}}
	for _, c := range checks {
		table.Rows = append(table.Rows, []string{
			c.Metric,
			c.GAAPRef,
			fmt.Sprintf("%.2f", c.Expected),
			fmt.Sprintf("%.2f", c.Actual),
			fmt.Sprintf("%.2f", c.VariancePct),
			c.Severity.String(),
			yesNo(c.Passed),
		})
	}
	return table
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
