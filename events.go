package valuation

import (
	"iter"
	"slices"

	"github.com/etnz/valuation/date"
)

// TransactionRecord is one raw transaction event read from a broker source:
// signed count deltas per asset, plus the payment and fee amounts in the
// source currency. Records are ephemeral: they are read once per source,
// normalized, then discarded after the merge.
type TransactionRecord struct {
	On      date.Date
	Deltas  map[string]float64 // asset name -> signed count delta
	Payment Money              // transaction payment, source currency
	Fee     Money              // fee payment, source currency
}

// EventRow is one row of the unified event table. Several rows may share a
// date (multiple transactions can occur on the same day); rows sharing a date
// carry identical price columns, since prices are date-level facts.
type EventRow struct {
	On      date.Date
	Deltas  []float64 // per asset, aligned with EventTable.Assets; 0 when none
	Prices  []float64 // per asset unit price, forward-filled, never missing
	Payment float64   // transaction payment, analysis currency
	Fee     float64   // fee payment, analysis currency
}

// EventTable is the unified, date-aligned table combining price rows and
// transaction rows for every asset, the input of the valuation engine.
//
// Invariant: rows are sorted by date, monotonically non-decreasing, with
// duplicates allowed; price columns are never missing.
type EventTable struct {
	assets []string
	rows   []EventRow
}

// Assets returns the asset column names of the table.
func (t *EventTable) Assets() []string { return t.assets }

// Len returns the number of rows.
func (t *EventTable) Len() int { return len(t.rows) }

// Row returns the i-th row.
func (t *EventTable) Row(i int) EventRow { return t.rows[i] }

// Rows returns an iterator over all rows in chronological order.
func (t *EventTable) Rows() iter.Seq[EventRow] { return slices.Values(t.rows) }
