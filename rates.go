package valuation

import (
	"iter"
	"maps"

	"github.com/etnz/valuation/date"
)

// RateTable holds date-indexed exchange rates, keyed by currency pair
// identifier in the usual FX market convention: the six-character
// concatenation of the base and quote ISO 4217 codes (e.g. "USDEUR" is the
// price of one USD expressed in EUR).
//
// Every currency appearing in any monetary amount must have a pair to the
// analysis currency, including the analysis currency itself via an identity
// pair (rate 1.0, see [RateTable.AddIdentity]). The identity pair keeps all
// conversion paths uniform: converting EUR to EUR reads the "EUREUR" entry
// like any other pair instead of short-circuiting.
type RateTable struct {
	pairs map[string]*date.History[float64]
}

// NewRateTable returns a new empty exchange-rate table.
func NewRateTable() *RateTable {
	return &RateTable{pairs: make(map[string]*date.History[float64])}
}

// Has reports whether the table holds any rate for the given pair.
func (t *RateTable) Has(pair string) bool {
	_, ok := t.pairs[pair]
	return ok
}

// Append records the rate of 'pair' on a given day. An existing rate for that
// day is overwritten.
func (t *RateTable) Append(pair string, on date.Date, rate float64) {
	h, ok := t.pairs[pair]
	if !ok {
		h = new(date.History[float64])
		t.pairs[pair] = h
	}
	h.Append(on, rate)
}

// AddHistory records a whole rate series for 'pair', replacing any existing one.
func (t *RateTable) AddHistory(pair string, h *date.History[float64]) {
	t.pairs[pair] = h
}

// AddIdentity materializes the identity pair for a currency (e.g. "EUREUR")
// with a constant rate of 1.0 from 'since' onward. As-of lookups then resolve
// the identity rate for any later date.
func (t *RateTable) AddIdentity(currency string, since date.Date) {
	t.Append(currency+currency, since, 1.0)
}

// Rate returns the exchange rate for 'pair' on 'on', falling back to the most
// recent rate before that day (rates hold over non-trading days). It returns
// a *MissingRateError when the pair is unknown or has no rate on or before
// the day.
func (t *RateTable) Rate(pair string, on date.Date) (float64, error) {
	h, ok := t.pairs[pair]
	if !ok {
		return 0, &MissingRateError{Pair: pair, On: on}
	}
	rate, ok := h.ValueAsOf(on)
	if !ok {
		return 0, &MissingRateError{Pair: pair, On: on}
	}
	return rate, nil
}

// Convert converts an amount from one currency to another using the rate of
// the pair on the given day. When the direct pair is absent from the table it
// falls back to the reciprocal of the inverse pair. Converting a currency to
// itself goes through the identity pair like any other conversion.
func (t *RateTable) Convert(amount float64, on date.Date, from, to string) (float64, error) {
	pair := from + to
	if !t.Has(pair) {
		inverse := to + from
		if t.Has(inverse) {
			rate, err := t.Rate(inverse, on)
			if err != nil {
				return 0, err
			}
			if rate == 0 {
				return 0, &MissingRateError{Pair: inverse, On: on}
			}
			return amount / rate, nil
		}
		return 0, &MissingRateError{Pair: pair, On: on}
	}
	rate, err := t.Rate(pair, on)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// Pairs returns an iterator over the pair identifiers held in the table, in
// no particular order.
func (t *RateTable) Pairs() iter.Seq[string] { return maps.Keys(t.pairs) }

// History returns the rate series for 'pair', or nil if unknown.
func (t *RateTable) History(pair string) *date.History[float64] { return t.pairs[pair] }
