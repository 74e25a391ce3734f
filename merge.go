package valuation

import (
	"fmt"
	"slices"

	"github.com/etnz/valuation/date"
)

// Merger combines per-broker transaction records with daily price series into
// a single unified event table, normalizing every payment into the analysis
// currency on the way.
type Merger struct {
	// AnalysisCurrency is the currency all prices and payments are
	// normalized into.
	AnalysisCurrency string
	// AssetCurrencies maps each asset name to the currency its prices are
	// quoted in.
	AssetCurrencies map[string]string
	// Rates converts source-currency amounts, each at the date of the price
	// point or transaction being converted.
	Rates *RateTable
	// FirstTransaction is the cutoff: price history and transactions before
	// that date are discarded.
	FirstTransaction date.Date
}

// convertPrices returns a copy of the price table with every price point
// expressed in the analysis currency, converted at the rate of its own day.
// Gaps stay gaps; they are forward-filled from converted points later.
func (m *Merger) convertPrices(prices *PriceTable) (*PriceTable, error) {
	converted := NewPriceTable()
	for _, asset := range prices.Assets() {
		currency, ok := m.AssetCurrencies[asset]
		if !ok {
			return nil, fmt.Errorf("no currency declared for asset %q", asset)
		}
		h := new(date.History[float64])
		for on, price := range prices.History(asset).Values() {
			v, err := m.Rates.Convert(price, on, currency, m.AnalysisCurrency)
			if err != nil {
				return nil, err
			}
			h.Append(on, v)
		}
		converted.AddHistory(asset, h)
	}
	return converted, nil
}

// normalize converts a monetary amount into the analysis currency at the rate
// of 'on'. The zero Money (no currency) normalizes to 0 without a rate lookup.
func (m *Merger) normalize(amount Money, on date.Date) (float64, error) {
	if amount.Currency() == "" && amount.IsZero() {
		return 0, nil
	}
	return m.Rates.Convert(amount.AsFloat(), on, amount.Currency(), m.AnalysisCurrency)
}

// Merge builds the unified event table from the price table and the parsed
// transaction records of every source.
//
// Prices are first normalized into the analysis currency, each point at the
// rate of its own day. Payments are converted per-row, at each row's own
// date: rows sharing a date cannot be converted in bulk because each row
// must reference its own date for the rate lookup. All sources are stacked
// (no deduplication across sources), joined with the cutoff-restricted,
// forward-filled price table, and sorted ascending by date.
func (m *Merger) Merge(prices *PriceTable, sources ...[]TransactionRecord) (*EventTable, error) {
	// Restrict before converting so no rate is required for discarded days.
	prices, err := m.convertPrices(prices.From(m.FirstTransaction))
	if err != nil {
		return nil, err
	}
	assets := prices.Assets()

	// Normalize and stack the transaction rows of all sources.
	type row struct {
		on           date.Date
		deltas       []float64
		payment, fee float64
	}
	var stacked []row
	for _, records := range sources {
		for _, rec := range records {
			if rec.On.Before(m.FirstTransaction) {
				continue
			}
			payment, err := m.normalize(rec.Payment, rec.On)
			if err != nil {
				return nil, err
			}
			fee, err := m.normalize(rec.Fee, rec.On)
			if err != nil {
				return nil, err
			}
			deltas := make([]float64, len(assets))
			for name, delta := range rec.Deltas {
				i := slices.Index(assets, name)
				if i < 0 {
					return nil, fmt.Errorf("transaction on %s references asset %q absent from the price table", rec.On, name)
				}
				deltas[i] += delta
			}
			stacked = append(stacked, row{on: rec.On, deltas: deltas, payment: payment, fee: fee})
		}
	}
	// Stable: transactions sharing a date keep source order.
	slices.SortStableFunc(stacked, func(a, b row) int { return a.on.Compare(b.on) })

	// The date axis is the union of trading days and transaction days.
	byDay := make(map[date.Date][]row)
	for _, r := range stacked {
		byDay[r.on] = append(byDay[r.on], r)
	}
	var days []date.Date
	seen := make(map[date.Date]bool)
	for on := range prices.Days() {
		days = append(days, on)
		seen[on] = true
	}
	for on := range byDay {
		if !seen[on] {
			days = append(days, on)
		}
	}
	slices.SortFunc(days, date.Date.Compare)

	// Outer join: one row per trading day, replaced by the day's transaction
	// rows when there are any, each carrying that day's price columns.
	t := &EventTable{assets: assets}
	for _, on := range days {
		priceRow := make([]float64, len(assets))
		for i, asset := range assets {
			priceRow[i] = prices.PriceAsOf(asset, on)
		}
		txs := byDay[on]
		if len(txs) == 0 {
			t.rows = append(t.rows, EventRow{On: on, Deltas: make([]float64, len(assets)), Prices: priceRow})
			continue
		}
		for _, tx := range txs {
			t.rows = append(t.rows, EventRow{On: on, Deltas: tx.deltas, Prices: priceRow, Payment: tx.payment, Fee: tx.fee})
		}
	}
	return t, nil
}
