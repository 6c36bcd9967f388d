package proforma

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD is the reporting currency of the engine. Inputs arrive as plain numbers
// and are assumed to share it; Money exists to keep the arithmetic exact, not
// to convert currencies.
const USD = "USD"

// Money represents a monetary value as an exact decimal in a single currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M builds a Money in the reporting currency from any numeric value.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value), cur: USD}
}

func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic(fmt.Sprintf("unsupported numeric type %T", value))
	}
}

// ParseMoney parses a plain decimal amount ("1234.56") in the reporting
// currency.
func ParseMoney(s string) (Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{value: v, cur: USD}, nil
}

// MustParseMoney is ParseMoney that panics on invalid input, for literals.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// currency returns the money's currency, never nil.
func (m Money) currency() *money.Currency {
	cur := m.cur
	if cur == "" {
		cur = USD
	}
	return money.New(0, cur).Currency()
}

// String returns the formatted representation of the money value ("$1,234.56").
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Cmp(n Money) int                 { return m.value.Cmp(n.value) }

func (m Money) Neg() Money { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money { return Money{value: m.value.Abs(), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// MulF scales the amount by a plain ratio (a rate, a share, an LTV).
func (m Money) MulF(f float64) Money {
	return Money{value: m.value.Mul(decimal.NewFromFloat(f)), cur: m.cur}
}

// DivF divides the amount by a plain ratio. Division by zero panics, as a
// programming contract violation.
func (m Money) DivF(f float64) Money {
	return Money{value: m.value.Div(decimal.NewFromFloat(f)), cur: m.cur}
}

// Ratio returns m/n as a plain float ratio (for MOIC-style multiples).
func (m Money) Ratio(n Money) float64 {
	return m.value.Div(n.value).InexactFloat64()
}

// Round applies the rounding policy to the amount.
func (m Money) Round(p RoundingPolicy) Money {
	return Money{value: p.round(m.value), cur: m.cur}
}

// Float64 returns the nearest float64. It exists for the IRR root-finder,
// which solves for a rate, not a monetary amount.
func (m Money) Float64() float64 { return m.value.InexactFloat64() }

// Decimal exposes the underlying exact value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// Sum adds any number of Money values.
func Sum(ms ...Money) Money {
	var total Money
	for _, m := range ms {
		total = total.Add(m)
	}
	return total
}

// WithinTolerance reports whether a and b differ by strictly less than tol.
func WithinTolerance(a, b, tol Money) bool {
	return a.Sub(b).Abs().LessThan(tol)
}

// MarshalJSON encodes the amount as a JSON number of major units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

// UnmarshalJSON decodes a JSON number of major units in the reporting currency.
func (m *Money) UnmarshalJSON(bytes []byte) error {
	var v decimal.Decimal
	if err := json.Unmarshal(bytes, &v); err != nil {
		return fmt.Errorf("invalid money amount %q: %w", bytes, err)
	}
	*m = Money{value: v, cur: USD}
	return nil
}

var _ json.Marshaler = (*Money)(nil)
var _ json.Unmarshaler = (*Money)(nil)
