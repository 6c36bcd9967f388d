package proforma

import "math"

const (
	irrMaxIterations = 100
	irrTolerance     = 1e-8
	irrLowerBound    = -0.99
	irrUpperBound    = 100.0
)

// IRRResult reports the outcome of the root-finding. Non-convergence is a
// reported state, never an error.
type IRRResult struct {
	Converged  bool    `json:"converged"`
	Periodic   float64 `json:"irr_periodic"`
	Iterations int     `json:"iterations"`
}

// IRR solves Σ CF_t/(1+r)^t = 0 over the cash-flow vector by Newton-Raphson,
// falling back to bisection when the derivative misbehaves. The rate is
// clamped to (−0.99, 100]. A vector without both signs cannot have a root
// and reports converged=false immediately.
func IRR(cashFlows []float64) IRRResult {
	var hasPositive, hasNegative bool
	for _, cf := range cashFlows {
		if cf > 0 {
			hasPositive = true
		}
		if cf < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		return IRRResult{}
	}

	rate := 0.1
	for i := 0; i < irrMaxIterations; i++ {
		npv := NPV(rate, cashFlows)
		if math.Abs(npv) < irrTolerance {
			return IRRResult{Converged: true, Periodic: rate, Iterations: i}
		}
		derivative := npvDerivative(rate, cashFlows)
		if derivative == 0 || math.IsNaN(derivative) || math.IsInf(derivative, 0) {
			return bisectIRR(cashFlows)
		}
		next := rate - npv/derivative
		if math.IsNaN(next) || next <= irrLowerBound || next > irrUpperBound {
			return bisectIRR(cashFlows)
		}
		rate = next
	}
	// Accept a near-root even when the iteration budget ran out.
	if math.Abs(NPV(rate, cashFlows)) < 1 {
		return IRRResult{Converged: true, Periodic: rate, Iterations: irrMaxIterations}
	}
	return IRRResult{Periodic: rate, Iterations: irrMaxIterations}
}

// NPV is the net present value of the vector at a periodic rate.
func NPV(rate float64, cashFlows []float64) float64 {
	var npv float64
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

func npvDerivative(rate float64, cashFlows []float64) float64 {
	var d float64
	for t, cf := range cashFlows {
		if t == 0 {
			continue
		}
		d -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// bisectIRR is the fallback: it brackets a sign change of NPV and halves the
// interval within the same iteration budget.
func bisectIRR(cashFlows []float64) IRRResult {
	lo, hi := irrLowerBound, irrUpperBound
	npvLo := NPV(lo, cashFlows)
	if npvLo*NPV(hi, cashFlows) > 0 {
		return IRRResult{}
	}
	var mid float64
	for i := 0; i < irrMaxIterations; i++ {
		mid = (lo + hi) / 2
		npvMid := NPV(mid, cashFlows)
		if math.Abs(npvMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return IRRResult{Converged: true, Periodic: mid, Iterations: i}
		}
		if npvLo*npvMid < 0 {
			hi = mid
		} else {
			lo, npvLo = mid, npvMid
		}
	}
	if math.Abs(NPV(mid, cashFlows)) < 1 {
		return IRRResult{Converged: true, Periodic: mid, Iterations: irrMaxIterations}
	}
	return IRRResult{Periodic: mid, Iterations: irrMaxIterations}
}

// AnnualizeIRR compounds a periodic rate to annual: (1+r)^periods − 1.
func AnnualizeIRR(periodic float64, periodsPerYear int) float64 {
	if periodsPerYear <= 0 {
		return periodic
	}
	return math.Pow(1+periodic, float64(periodsPerYear)) - 1
}
