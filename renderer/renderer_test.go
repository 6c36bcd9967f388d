package renderer

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hoteliq/proforma"
	"github.com/hoteliq/proforma/date"
)

// parseDoc parses rendered markdown with table support, so the tests assert
// the document structure rather than raw strings.
func parseDoc(t *testing.T, src string) (ast.Node, []byte) {
	t.Helper()
	source := []byte(src)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	return parser.Parse(text.NewReader(source)), source
}

func headings(t *testing.T, src string) []string {
	t.Helper()
	doc, source := parseDoc(t, src)
	var out []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			out = append(out, string(h.Text(source)))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func tableRowCounts(t *testing.T, src string) []int {
	t.Helper()
	doc, _ := parseDoc(t, src)
	var counts []int
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if _, ok := n.(*east.Table); ok && entering {
			rows := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*east.TableRow); ok {
					rows++
				}
			}
			counts = append(counts, rows)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return counts
}

func goldenPosting(t *testing.T) *proforma.Posting {
	t.Helper()
	loanOverride := proforma.M(1_000_000)
	fin := proforma.ComputeFinancing(proforma.FinancingInput{
		PurchasePrice:   proforma.M(1_500_000),
		Type:            proforma.Financed,
		GlobalLTV:       0.75,
		LoanOverride:    &loanOverride,
		Terms:           proforma.LoanTerms{AnnualRate: 0.09, TermMonths: 300, AmortizationMonths: 300},
		ClosingCostRate: 0.02,
		Rounding:        proforma.DefaultRounding,
	})
	events := []proforma.Event{
		proforma.NewFundingEvent("opco", date.New(2026, 6, 1), proforma.M(1_000_000)),
		proforma.NewAcquisitionEvent("prop-1", date.New(2026, 7, 1), fin),
		proforma.NewDebtServiceEvent("prop-1", date.New(2026, 8, 1), proforma.M(7_500), proforma.M(2_500), ""),
	}
	return proforma.Post(events, proforma.PostingOptions{Rounding: proforma.DefaultRounding})
}

func TestReconciliationMarkdown(t *testing.T) {
	posting := goldenPosting(t)
	out := ReconciliationMarkdown(posting)

	got := headings(t, out)
	want := []string{
		"Financial Statements",
		"Income Statement by Period",
		"Balance Sheet by Period",
		"Cash Flow by Period",
		"Reconciliation",
	}
	if len(got) != len(want) {
		t.Fatalf("headings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	counts := tableRowCounts(t, out)
	if len(counts) != 4 {
		t.Fatalf("found %d tables, want 4", len(counts))
	}
	// Three posted periods in each statement table.
	for i, rows := range counts[:3] {
		if rows != 3 {
			t.Errorf("table %d has %d body rows, want 3", i, rows)
		}
	}
	if counts[3] == 0 {
		t.Error("reconciliation table is empty")
	}

	if !strings.Contains(out, "All reconciliation checks passed.") {
		t.Error("missing reconciliation verdict line")
	}
	if !strings.Contains(out, "$2,510,000.00") {
		t.Error("missing August balance sheet total")
	}
}

func TestReturnsMarkdown(t *testing.T) {
	posting := goldenPosting(t)
	flows := proforma.FreeCashFlows(posting, proforma.DefaultRounding)
	metrics := proforma.ComputeReturns(flows, 12, proforma.DefaultRounding)

	out := ReturnsMarkdown(flows, metrics)

	got := headings(t, out)
	want := []string{"Investment Returns", "Free Cash Flow", "Metrics"}
	if len(got) != len(want) {
		t.Fatalf("headings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	counts := tableRowCounts(t, out)
	if len(counts) != 2 {
		t.Fatalf("found %d tables, want 2", len(counts))
	}
	if counts[0] != len(flows) {
		t.Errorf("cash flow table has %d rows, want %d", counts[0], len(flows))
	}
	if counts[1] != 7 {
		t.Errorf("metrics table has %d rows, want 7", counts[1])
	}
	// No exit event: the vector has no positive flow, so IRR cannot converge.
	if !strings.Contains(out, "did not converge") {
		t.Error("missing non-convergence note for an all-negative vector")
	}
}

func TestVerificationMarkdown(t *testing.T) {
	report := proforma.VerificationReport{
		PropertiesChecked: 1,
		PropertyResults: []proforma.PropertyCheckResults{{
			PropertyName: "Harbor House",
			PropertyType: "Financed",
			Checks: []proforma.CheckResult{
				{Metric: "Room Revenue", GAAPRef: "ASC 606", Expected: 251_625, Actual: 251_625, Passed: true},
				{Metric: "GOP", GAAPRef: "USALI", Expected: 100, Actual: 90, VariancePct: -10, Severity: proforma.SeverityCritical},
			},
			Passed: 1,
			Failed: 1,
		}},
		CompanyChecks: []proforma.CheckResult{
			{Metric: "Base Fee Applied at Stated Rate", GAAPRef: "ASC 606", Passed: true},
		},
		Summary: proforma.VerificationSummary{
			TotalChecks:    3,
			TotalPassed:    2,
			TotalFailed:    1,
			CriticalIssues: 1,
			AuditOpinion:   proforma.Adverse,
			OverallStatus:  "FAIL",
		},
	}

	out := VerificationMarkdown(report)

	got := headings(t, out)
	want := []string{"Verification Report", "Harbor House (Financed)", "Management Company"}
	if len(got) != len(want) {
		t.Fatalf("headings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !strings.Contains(out, "Opinion: ADVERSE (FAIL)") {
		t.Error("missing opinion line")
	}
	if !strings.Contains(out, "critical") {
		t.Error("missing severity column content")
	}

	counts := tableRowCounts(t, out)
	if len(counts) != 2 {
		t.Fatalf("found %d tables, want 2", len(counts))
	}
	if counts[0] != 2 || counts[1] != 1 {
		t.Errorf("table rows = %v, want [2 1]", counts)
	}

	// A long metric name must stay on one physical line; wrapped cells parse
	// as bogus extra table rows.
	found := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Base Fee Applied at Stated Rate") {
			found = true
		}
	}
	if !found {
		t.Error("long metric name was wrapped across table lines")
	}
}
