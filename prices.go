package valuation

import (
	"iter"

	"github.com/etnz/valuation/date"
)

// PriceTable holds the daily price series of a set of assets, one row per
// trading day, with gaps on non-trading days. It is owned by the acquisition
// collaborator and read-only to the valuation pipeline.
type PriceTable struct {
	assets []string // column order, first added first
	series map[string]*date.History[float64]
}

// NewPriceTable returns a new empty price table.
func NewPriceTable() *PriceTable {
	return &PriceTable{series: make(map[string]*date.History[float64])}
}

// Has reports whether the table holds a series for the asset.
func (t *PriceTable) Has(asset string) bool {
	_, ok := t.series[asset]
	return ok
}

// Assets returns the asset names in the order they were added.
func (t *PriceTable) Assets() []string { return t.assets }

// History returns the price series of an asset, or nil if unknown.
func (t *PriceTable) History(asset string) *date.History[float64] { return t.series[asset] }

// AddHistory records a whole price series for an asset, replacing any
// existing one.
func (t *PriceTable) AddHistory(asset string, h *date.History[float64]) {
	if _, ok := t.series[asset]; !ok {
		t.assets = append(t.assets, asset)
	}
	t.series[asset] = h
}

// Append records the price of an asset on a given day. An existing price for
// that day is overwritten.
func (t *PriceTable) Append(asset string, on date.Date, price float64) {
	h, ok := t.series[asset]
	if !ok {
		h = new(date.History[float64])
		t.assets = append(t.assets, asset)
		t.series[asset] = h
	}
	h.Append(on, price)
}

// From returns a copy of the table restricted to days on or after 'day'.
func (t *PriceTable) From(day date.Date) *PriceTable {
	r := NewPriceTable()
	for _, asset := range t.assets {
		r.AddHistory(asset, t.series[asset].From(day))
	}
	return r
}

// Days returns an iterator over the union of all assets' trading days, in
// chronological order without duplicates. This union is the date axis of the
// unified event table.
func (t *PriceTable) Days() iter.Seq[date.Date] {
	histories := make([]*date.History[float64], 0, len(t.assets))
	for _, asset := range t.assets {
		histories = append(histories, t.series[asset])
	}
	return date.Iterate(histories...)
}

// PriceAsOf returns the price of an asset on a given day, falling back to
// the most recent earlier price: a missing value on a calendar date means
// the market was closed, so the previous known price holds. A leading gap
// (no price yet) yields 0 so derived columns are zero, never missing.
func (t *PriceTable) PriceAsOf(asset string, on date.Date) float64 {
	h, ok := t.series[asset]
	if !ok {
		return 0
	}
	price, ok := h.ValueAsOf(on)
	if !ok {
		return 0
	}
	return price
}

// Latest returns the latest known day and price for an asset.
func (t *PriceTable) Latest(asset string) (date.Date, float64) {
	h, ok := t.series[asset]
	if !ok {
		return date.Date{}, 0
	}
	return h.Latest()
}
