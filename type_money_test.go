package proforma

import (
	"encoding/json"
	"testing"
)

func TestMoneyArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 is the classic float trap; decimals must stay exact.
	got := M(0.1).Add(M(0.2))
	if !got.Equal(M(0.3)) {
		t.Errorf("0.1 + 0.2 = %s, want %s", got, M(0.3))
	}

	// A cent summed ten thousand times is exactly one hundred dollars.
	var total Money
	for i := 0; i < 10_000; i++ {
		total = total.Add(M(0.01))
	}
	if !total.Equal(M(100)) {
		t.Errorf("10000 cents = %s, want %s", total, M(100))
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		in   Money
		want string
	}{
		{M(1234.56), "$1,234.56"},
		{M(0), "$0.00"},
		{M(-7500), "-$7,500.00"},
		{M(1_000_000), "$1,000,000.00"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoneyMulDiv(t *testing.T) {
	if got := M(1_500_000).MulF(0.75); !got.Equal(M(1_125_000)) {
		t.Errorf("1.5M x 0.75 = %s", got)
	}
	if got := M(340_000).DivF(0.085); !got.Equal(M(4_000_000)) {
		t.Errorf("340k / 8.5%% = %s", got)
	}
}

func TestMoneyRatio(t *testing.T) {
	got := M(502_500).Ratio(M(510_000))
	want := 502_500.0 / 510_000.0
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("ratio = %v, want %v", got, want)
	}
}

func TestMoneyRound(t *testing.T) {
	tests := []struct {
		name   string
		in     Money
		policy RoundingPolicy
		want   Money
	}{
		{"half up", M(1.005), DefaultRounding, M(1.01)},
		{"bankers half to even", M(1.005), RoundingPolicy{Precision: 2, Bankers: true}, M(1)},
		{"bankers half to even up", M(1.015), RoundingPolicy{Precision: 2, Bankers: true}, M(1.02)},
		{"ratio precision", M(0.73456), RatioRounding, M(0.7346)},
		{"rate precision", M(0.0650004), RateRounding, M(0.065)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Round(tc.policy); !got.Equal(tc.want) {
				t.Errorf("Round = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRoundingTolerance(t *testing.T) {
	if got := DefaultRounding.Tolerance(); !got.Equal(M(0.01)) {
		t.Errorf("default tolerance = %s, want one cent", got)
	}
	if !WithinTolerance(M(100), M(100.009), DefaultRounding.Tolerance()) {
		t.Error("sub-cent variance rejected")
	}
	if WithinTolerance(M(100), M(100.01), DefaultRounding.Tolerance()) {
		t.Error("full-cent variance accepted")
	}
}

func TestSum(t *testing.T) {
	if got := Sum(M(1), M(2), M(3.5)); !got.Equal(M(6.5)) {
		t.Errorf("Sum = %s, want %s", got, M(6.5))
	}
	if got := Sum(); !got.IsZero() {
		t.Errorf("empty Sum = %s, want zero", got)
	}
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("1234.56")
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(M(1234.56)) {
		t.Errorf("ParseMoney(1234.56) = %s", m)
	}
	if _, err := ParseMoney("twelve"); err == nil {
		t.Error("ParseMoney accepted a non-numeric amount")
	}
	if got := MustParseMoney("-7500"); !got.Equal(M(-7500)) {
		t.Errorf("MustParseMoney(-7500) = %s", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	in := M(1234.56)
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "1234.56" {
		t.Errorf("marshaled to %s, want plain number", raw)
	}
	var out Money
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %s, want %s", out, in)
	}

	if err := json.Unmarshal([]byte(`"abc"`), &out); err == nil {
		t.Error("non-numeric money accepted")
	}
}
