// Package proforma is a deterministic financial statement and returns engine.
// It is an event-sourced double-entry ledger: business events (funding,
// acquisition, debt service, refinance, exit) carry balanced journal deltas
// that are posted into per-period account balances, from which the three
// financial statements are derived and reconciled.
//
// The core functionalities include:
//   - Ledger Posting: validating and posting journal events in chronological
//     order, surfacing unbalanced entries as flags rather than dropping them.
//   - Statement Generation: per-period Income Statement, Balance Sheet and
//     Cash Flow Statement, with net income rolled into retained earnings.
//   - Reconciliation: GAAP-style invariant checks (balance sheet equation,
//     cash flow tie-out, income-to-retained-earnings rollforward).
//   - Debt Amortization & Refinance: loan sizing, PMT schedules with
//     interest-only phases and balloons, refinance payoff and cash-out.
//   - Funding Gates: tranche timelines, funding-before-operations gates and
//     equity rollforwards.
//   - FCF & Returns: free cash flow to firm/equity, IRR (bounded root
//     finding), MOIC, DPI and cash-on-cash.
//   - Consolidation: multi-entity rollups with intercompany fee elimination.
//   - Independent Verification: an audit-style checker that recomputes every
//     figure from raw assumptions through a deliberately separate code path
//     and issues an audit opinion.
//
// Every function is a pure map from inputs to outputs: the engine holds no
// state, performs no I/O, and reports data-quality problems as data.
package proforma
