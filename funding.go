package proforma

import (
	"fmt"
	"slices"

	"github.com/hoteliq/proforma/date"
)

// TrancheTrigger determines when a funding tranche lands. It is a sealed
// interface: Scheduled, OnAcquisition and Conditional are the only
// implementations.
type TrancheTrigger interface {
	// resolve returns the funding date, or ok=false when the trigger
	// references something unknown.
	resolve(properties map[string]PropertyFunding) (date.Date, bool)
	String() string
}

// Scheduled funds on a fixed calendar date.
type Scheduled struct{ Date date.Date }

func (t Scheduled) resolve(map[string]PropertyFunding) (date.Date, bool) { return t.Date, true }
func (t Scheduled) String() string                                       { return "on " + t.Date.String() }

// OnAcquisition funds on the acquisition date of a named property. An
// unknown property makes the trigger unresolvable.
type OnAcquisition struct{ PropertyID string }

func (t OnAcquisition) resolve(properties map[string]PropertyFunding) (date.Date, bool) {
	p, ok := properties[t.PropertyID]
	if !ok {
		return date.Date{}, false
	}
	return p.AcquisitionDate, true
}
func (t OnAcquisition) String() string { return "on acquisition of " + t.PropertyID }

// Conditional funds on a fallback date; the condition itself is opaque to
// the engine and recorded for reporting only.
type Conditional struct {
	Condition string
	Fallback  date.Date
}

func (t Conditional) resolve(map[string]PropertyFunding) (date.Date, bool) { return t.Fallback, true }
func (t Conditional) String() string {
	return fmt.Sprintf("if %s, else on %s", t.Condition, t.Fallback)
}

// FundingTranche is one committed equity tranche.
type FundingTranche struct {
	Name     string
	EntityID string
	Amount   Money
	Trigger  TrancheTrigger
}

// PropertyFunding is a property's capital requirement as seen by the
// funding module.
type PropertyFunding struct {
	PropertyID      string
	TotalCost       Money
	LoanAmount      Money
	EquityRequired  Money
	AcquisitionDate date.Date
	OperationsStart date.Date
}

// FundingInput is the full funding plan for one portfolio.
type FundingInput struct {
	Tranches   []FundingTranche
	Properties []PropertyFunding

	// The operating company's own requirement, gated at its operations start.
	OpCoID              string
	OpCoRequired        Money
	OpCoOperationsStart date.Date

	Rounding RoundingPolicy
}

// TimelineEntry is one resolved tranche on the funding timeline.
type TimelineEntry struct {
	Date       date.Date `json:"date"`
	Tranche    string    `json:"tranche"`
	EntityID   string    `json:"entity_id"`
	Amount     Money     `json:"amount"`
	Cumulative Money     `json:"cumulative"`
}

// GateCheck verifies that an entity was funded by its gate date.
type GateCheck struct {
	EntityID  string    `json:"entity_id"`
	GateDate  date.Date `json:"gate_date"`
	Required  Money     `json:"required"`
	Received  Money     `json:"received"`
	Shortfall Money     `json:"shortfall_amount"`
	Passed    bool      `json:"passed"`
}

// EquityBalance is one entity's funded equity at the end of a month.
type EquityBalance struct {
	Period   date.Month `json:"period"`
	EntityID string     `json:"entity_id"`
	Balance  Money      `json:"balance"`
}

// FundingFlags summarize the plan's health.
type FundingFlags struct {
	AllGatesPassed   bool     `json:"all_gates_passed"`
	HasShortfalls    bool     `json:"has_shortfalls"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// FundingResult is the resolved timeline, gate checks, per-entity equity
// rollforward and the journal events that post the contributions.
type FundingResult struct {
	Timeline     []TimelineEntry `json:"funding_timeline"`
	GateChecks   []GateCheck     `json:"gate_checks"`
	Rollforward  []EquityBalance `json:"equity_rollforward"`
	JournalHooks []Event         `json:"journal_hooks"`
	TotalFunded  Money           `json:"total_funded"`
	Flags        FundingFlags    `json:"flags"`
}

// ComputeFunding resolves tranches into a timeline, checks funding gates and
// builds the contribution events.
//
// Validation runs first: an invalid plan returns an empty result carrying
// only the validation errors, never a partial timeline. An unresolvable
// on-acquisition trigger is softer: the tranche is excluded with a warning
// and the rest of the plan still computes.
func ComputeFunding(in FundingInput) FundingResult {
	if errs := validateFunding(in); len(errs) > 0 {
		return FundingResult{Flags: FundingFlags{ValidationErrors: errs}}
	}
	p := in.Rounding

	properties := make(map[string]PropertyFunding, len(in.Properties))
	for _, prop := range in.Properties {
		properties[prop.PropertyID] = prop
	}

	var result FundingResult
	for _, tranche := range in.Tranches {
		d, ok := tranche.Trigger.resolve(properties)
		if !ok {
			result.Flags.Warnings = append(result.Flags.Warnings,
				fmt.Sprintf("tranche %q: trigger %s does not resolve, excluded from timeline", tranche.Name, tranche.Trigger))
			continue
		}
		result.Timeline = append(result.Timeline, TimelineEntry{
			Date:     d,
			Tranche:  tranche.Name,
			EntityID: tranche.EntityID,
			Amount:   tranche.Amount.Round(p),
		})
	}
	slices.SortStableFunc(result.Timeline, func(a, b TimelineEntry) int {
		return a.Date.Compare(b.Date)
	})

	var cumulative Money
	for i := range result.Timeline {
		cumulative = cumulative.Add(result.Timeline[i].Amount).Round(p)
		result.Timeline[i].Cumulative = cumulative
	}
	result.TotalFunded = cumulative

	// Gate checks: the OpCo by its operations start, each property's equity
	// by its acquisition date.
	if in.OpCoID != "" {
		result.GateChecks = append(result.GateChecks,
			gateCheck(in.OpCoID, in.OpCoOperationsStart, in.OpCoRequired, result.Timeline, p))
	}
	for _, prop := range in.Properties {
		result.GateChecks = append(result.GateChecks,
			gateCheck(prop.PropertyID, prop.AcquisitionDate, prop.EquityRequired, result.Timeline, p))
	}
	result.Flags.AllGatesPassed = true
	for _, g := range result.GateChecks {
		if !g.Passed {
			result.Flags.AllGatesPassed = false
			result.Flags.HasShortfalls = true
		}
	}

	result.Rollforward = equityRollforward(result.Timeline, p)

	for _, entry := range result.Timeline {
		result.JournalHooks = append(result.JournalHooks,
			NewFundingEvent(entry.EntityID, entry.Date, entry.Amount))
	}
	return result
}

func validateFunding(in FundingInput) []string {
	var errs []string
	if len(in.Tranches) == 0 {
		errs = append(errs, "no funding tranches supplied")
	}
	for _, t := range in.Tranches {
		if !t.Amount.IsPositive() {
			errs = append(errs, fmt.Sprintf("tranche %q: amount must be > 0", t.Name))
		}
		if t.Trigger == nil {
			errs = append(errs, fmt.Sprintf("tranche %q: missing trigger", t.Name))
			continue
		}
		if s, ok := t.Trigger.(Scheduled); ok && s.Date.IsZero() {
			errs = append(errs, fmt.Sprintf("tranche %q: invalid funding date", t.Name))
		}
	}
	for _, prop := range in.Properties {
		if prop.AcquisitionDate.IsZero() {
			errs = append(errs, fmt.Sprintf("property %q: invalid acquisition date", prop.PropertyID))
		}
		if prop.EquityRequired.IsNegative() {
			errs = append(errs, fmt.Sprintf("property %q: equity required must be >= 0", prop.PropertyID))
		}
	}
	return errs
}

// gateCheck sums funding received by the gate date for one entity. Tranches
// landing on the gate date itself still count.
func gateCheck(entityID string, gate date.Date, required Money, timeline []TimelineEntry, p RoundingPolicy) GateCheck {
	var received Money
	for _, entry := range timeline {
		if entry.EntityID == entityID && !entry.Date.After(gate) {
			received = received.Add(entry.Amount)
		}
	}
	received = received.Round(p)
	check := GateCheck{
		EntityID: entityID,
		GateDate: gate,
		Required: required.Round(p),
		Received: received,
	}
	if received.GreaterThanOrEqual(check.Required) {
		check.Passed = true
	} else {
		check.Shortfall = check.Required.Sub(received).Round(p)
	}
	return check
}

// equityRollforward produces month-end funded equity per entity, from the
// first funding month through the last.
func equityRollforward(timeline []TimelineEntry, p RoundingPolicy) []EquityBalance {
	if len(timeline) == 0 {
		return nil
	}
	first := date.MonthOf(timeline[0].Date)
	last := first
	entities := []string{}
	seen := map[string]bool{}
	for _, entry := range timeline {
		if m := date.MonthOf(entry.Date); last.Before(m) {
			last = m
		}
		if !seen[entry.EntityID] {
			seen[entry.EntityID] = true
			entities = append(entities, entry.EntityID)
		}
	}
	slices.Sort(entities)

	balances := make(map[string]Money, len(entities))
	var rollforward []EquityBalance
	for month := range date.Months(first, last) {
		for _, entry := range timeline {
			if date.MonthOf(entry.Date) == month {
				balances[entry.EntityID] = balances[entry.EntityID].Add(entry.Amount).Round(p)
			}
		}
		for _, id := range entities {
			rollforward = append(rollforward, EquityBalance{Period: month, EntityID: id, Balance: balances[id]})
		}
	}
	return rollforward
}
