package date

import (
	"encoding/json"
	"fmt"
	"iter"
	"time"
)

// MonthFormat is the format used to represent months as strings.
const MonthFormat = "2006-01"

// Month represents a calendar month (YYYY-MM), the reporting period of every
// derived statement. Months are totally ordered and never mutated after
// creation.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month for the given year and month.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{y: t.Year(), m: t.Month()}
}

// MonthOf returns the Month containing the given date.
func MonthOf(d Date) Month { return NewMonth(d.Year(), d.Month()) }

// Year returns the year of the month.
func (p Month) Year() int { return p.y }

// Month returns the calendar month.
func (p Month) Month() time.Month { return p.m }

// index is the number of months since year 0, the basis of all month arithmetic.
func (p Month) index() int { return p.y*12 + int(p.m) - 1 }

// Before reports whether p is strictly before x.
func (p Month) Before(x Month) bool { return p.index() < x.index() }

// After reports whether p is strictly after x.
func (p Month) After(x Month) bool { return p.index() > x.index() }

// Compare returns -1, 0 or +1 comparing p to x chronologically.
func (p Month) Compare(x Month) int {
	switch {
	case p.index() < x.index():
		return -1
	case p.index() > x.index():
		return 1
	default:
		return 0
	}
}

// IsZero reports whether p is the zero Month.
func (p Month) IsZero() bool { return p == Month{} }

// Add returns the month i months after p (before, for negative i).
func (p Month) Add(i int) Month { return NewMonth(p.y, p.m+time.Month(i)) }

// Next returns the month immediately after p.
func (p Month) Next() Month { return p.Add(1) }

// Sub returns the number of months from x to p (p - x).
func (p Month) Sub(x Month) int { return p.index() - x.index() }

// First returns the first day of the month.
func (p Month) First() Date { return New(p.y, p.m, 1) }

// Last returns the last day of the month.
func (p Month) Last() Date { return New(p.y, p.m+1, 0) }

// String formats the month in its standard YYYY-MM format.
func (p Month) String() string {
	return time.Date(p.y, p.m, 1, 0, 0, 0, 0, time.UTC).Format(MonthFormat)
}

// ParseMonth parses a Month from a YYYY-MM string.
func ParseMonth(str string) (Month, error) {
	on, err := time.Parse(MonthFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return NewMonth(on.Year(), on.Month()), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	p, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// Months returns an iterator over every month from 'from' through 'to' inclusive.
func Months(from, to Month) iter.Seq[Month] {
	return func(yield func(Month) bool) {
		for p := from; !p.After(to); p = p.Next() {
			if !yield(p) {
				return
			}
		}
	}
}

// UnmarshalJSON parses a Month from a JSON string.
func (p *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	v, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalJSON formats a Month as a JSON string.
func (p Month) MarshalJSON() ([]byte, error) {
	str := p.String()
	return json.Marshal(&str)
}

var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)
