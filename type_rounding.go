package proforma

import "github.com/shopspring/decimal"

// RoundingPolicy controls the precision applied to monetary amounts at
// statement-line boundaries. It is threaded explicitly through every
// computation; nothing in this package holds it as global state.
type RoundingPolicy struct {
	Precision int32 `json:"precision"`
	Bankers   bool  `json:"bankers_rounding"`
}

// DefaultRounding is the dollars-and-cents policy used for statement lines.
var DefaultRounding = RoundingPolicy{Precision: 2}

// RatioRounding is the policy for ratios such as occupancy (0.7350).
var RatioRounding = RoundingPolicy{Precision: 4}

// RateRounding is the policy for interest rates (0.065000).
var RateRounding = RoundingPolicy{Precision: 6}

func (p RoundingPolicy) round(d decimal.Decimal) decimal.Decimal {
	if p.Bankers {
		return d.RoundBank(p.Precision)
	}
	return d.Round(p.Precision)
}

// Tolerance returns the comparison tolerance implied by the policy: one unit
// of the least significant digit. At the default precision this is $0.01.
func (p RoundingPolicy) Tolerance() Money {
	return Money{value: decimal.New(1, -p.Precision)}
}
