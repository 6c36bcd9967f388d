package proforma

import (
	"encoding/json"
	"fmt"

	"github.com/hoteliq/proforma/date"
)

// EventType identifies the business transaction an event records.
type EventType int

const (
	Funding EventType = iota
	Acquisition
	DebtService
	Refinance
	Depreciation
	Exit
)

func (t EventType) String() string {
	switch t {
	case Funding:
		return "FUNDING"
	case Acquisition:
		return "ACQUISITION"
	case DebtService:
		return "DEBT_SERVICE"
	case Refinance:
		return "REFINANCE"
	case Depreciation:
		return "DEPRECIATION"
	case Exit:
		return "EXIT"
	default:
		return "unknown"
	}
}

// ParseEventType parses a string into an EventType.
func ParseEventType(s string) (EventType, error) {
	switch s {
	case "FUNDING":
		return Funding, nil
	case "ACQUISITION":
		return Acquisition, nil
	case "DEBT_SERVICE":
		return DebtService, nil
	case "REFINANCE":
		return Refinance, nil
	case "DEPRECIATION":
		return Depreciation, nil
	case "EXIT":
		return Exit, nil
	default:
		return 0, fmt.Errorf("unknown event type: %q", s)
	}
}

// Classification places an account on one statement and fixes its sign
// convention: Asset and Expense accounts are debit-normal, Liability, Equity
// and Revenue accounts are credit-normal, Deferred is a debit-normal balance
// sheet asset.
type Classification int

const (
	Asset Classification = iota
	Liability
	Equity
	Deferred
	Revenue
	Expense
)

func (c Classification) String() string {
	switch c {
	case Asset:
		return "BS_ASSET"
	case Liability:
		return "BS_LIABILITY"
	case Equity:
		return "BS_EQUITY"
	case Deferred:
		return "BS_DEFERRED"
	case Revenue:
		return "IS_REVENUE"
	case Expense:
		return "IS_EXPENSE"
	default:
		return "unknown"
	}
}

// ParseClassification parses a string into a Classification.
func ParseClassification(s string) (Classification, error) {
	switch s {
	case "BS_ASSET":
		return Asset, nil
	case "BS_LIABILITY":
		return Liability, nil
	case "BS_EQUITY":
		return Equity, nil
	case "BS_DEFERRED":
		return Deferred, nil
	case "IS_REVENUE":
		return Revenue, nil
	case "IS_EXPENSE":
		return Expense, nil
	default:
		return 0, fmt.Errorf("unknown classification: %q", s)
	}
}

// OnBalanceSheet reports whether the classification belongs to the balance
// sheet (cumulative balances) rather than the income statement (period flows).
func (c Classification) OnBalanceSheet() bool {
	return c == Asset || c == Liability || c == Equity || c == Deferred
}

// DebitNormal reports whether debits increase an account of this classification.
func (c Classification) DebitNormal() bool {
	return c == Asset || c == Deferred || c == Expense
}

// CashFlowBucket classifies a cash movement on the cash flow statement.
type CashFlowBucket int

const (
	NoBucket CashFlowBucket = iota
	Operating
	Investing
	Financing
)

func (b CashFlowBucket) String() string {
	switch b {
	case Operating:
		return "OPERATING"
	case Investing:
		return "INVESTING"
	case Financing:
		return "FINANCING"
	default:
		return "NONE"
	}
}

// ParseCashFlowBucket parses a string into a CashFlowBucket.
func ParseCashFlowBucket(s string) (CashFlowBucket, error) {
	switch s {
	case "OPERATING":
		return Operating, nil
	case "INVESTING":
		return Investing, nil
	case "FINANCING":
		return Financing, nil
	case "NONE", "":
		return NoBucket, nil
	default:
		return 0, fmt.Errorf("unknown cash flow bucket: %q", s)
	}
}

// The enums marshal as their wire strings so reports stay JSON-renderable.

func (t EventType) MarshalJSON() ([]byte, error)      { return json.Marshal(t.String()) }
func (c Classification) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }
func (b CashFlowBucket) MarshalJSON() ([]byte, error) { return json.Marshal(b.String()) }

func (t *EventType) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}
	v, err := ParseEventType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (c *Classification) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}
	v, err := ParseClassification(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (b *CashFlowBucket) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}
	v, err := ParseCashFlowBucket(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// JournalDelta is one leg of a double-entry journal entry. Exactly one of
// Debit or Credit should be non-zero.
type JournalDelta struct {
	Account        string         `json:"account"`
	Debit          Money          `json:"debit"`
	Credit         Money          `json:"credit"`
	Classification Classification `json:"classification"`
	Bucket         CashFlowBucket `json:"cash_flow_bucket"`
	Memo           string         `json:"memo"`
}

// Event is a single, atomic business transaction carrying journal deltas.
// It is the lowest-level, immutable fact from which all statements are derived.
type Event struct {
	ID       string         `json:"event_id"`
	Type     EventType      `json:"event_type"`
	Date     date.Date      `json:"date"`
	EntityID string         `json:"entity_id"`
	Deltas   []JournalDelta `json:"journal_deltas"`
}

// Period returns the reporting month the event posts into.
func (e Event) Period() date.Month { return date.MonthOf(e.Date) }

// TotalDebits sums the event's debit legs, rounded per line.
func (e Event) TotalDebits(p RoundingPolicy) Money {
	var total Money
	for _, d := range e.Deltas {
		total = total.Add(d.Debit.Round(p))
	}
	return total
}

// TotalCredits sums the event's credit legs, rounded per line.
func (e Event) TotalCredits(p RoundingPolicy) Money {
	var total Money
	for _, d := range e.Deltas {
		total = total.Add(d.Credit.Round(p))
	}
	return total
}

// Balanced reports whether the event's debits equal its credits within the
// policy tolerance. An unbalanced event is a posting defect, not a crash.
func (e Event) Balanced(p RoundingPolicy) bool {
	return WithinTolerance(e.TotalDebits(p), e.TotalCredits(p), p.Tolerance())
}
