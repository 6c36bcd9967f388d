package date

import (
	"slices"
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	testCases := []struct {
		in   Date
		want Month
	}{
		{New(2026, time.June, 1), NewMonth(2026, time.June)},
		{New(2026, time.June, 30), NewMonth(2026, time.June)},
		{New(2026, time.December, 31), NewMonth(2026, time.December)},
	}
	for _, tc := range testCases {
		if got := MonthOf(tc.in); got != tc.want {
			t.Errorf("MonthOf(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMonth_Arithmetic(t *testing.T) {
	jun := MustParseMonth("2026-06")
	dec := MustParseMonth("2026-12")

	if got := jun.Add(6); got != dec {
		t.Errorf("Add(6) = %v, want %v", got, dec)
	}
	if got := dec.Sub(jun); got != 6 {
		t.Errorf("Sub = %d, want 6", got)
	}
	if got := dec.Next(); got != MustParseMonth("2027-01") {
		t.Errorf("Next = %v, want 2027-01", got)
	}
	if !jun.Before(dec) || dec.Before(jun) {
		t.Errorf("Before: want %v < %v", jun, dec)
	}
}

func TestMonth_FirstLast(t *testing.T) {
	feb := MustParseMonth("2028-02") // leap year
	if got := feb.First(); got != New(2028, time.February, 1) {
		t.Errorf("First = %v", got)
	}
	if got := feb.Last(); got != New(2028, time.February, 29) {
		t.Errorf("Last = %v, want 2028-02-29", got)
	}
}

func TestMonths_Iterator(t *testing.T) {
	var got []string
	for p := range Months(MustParseMonth("2026-11"), MustParseMonth("2027-02")) {
		got = append(got, p.String())
	}
	want := []string{"2026-11", "2026-12", "2027-01", "2027-02"}
	if !slices.Equal(got, want) {
		t.Errorf("Months = %v, want %v", got, want)
	}

	// An inverted range yields nothing.
	for p := range Months(MustParseMonth("2027-01"), MustParseMonth("2026-01")) {
		t.Errorf("Months on inverted range yielded %v", p)
	}
}

func TestMonth_JSONRoundTrip(t *testing.T) {
	p := MustParseMonth("2026-08")
	b, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(b) != `"2026-08"` {
		t.Errorf("MarshalJSON = %s, want %q", b, `"2026-08"`)
	}
	var back Month
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back != p {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}
