package valuation

import "gonum.org/v1/gonum/floats"

// Valuate runs the valuation engine over the unified event table and returns
// the valuation table: per-asset holdings count, value, cost and profit plus
// the portfolio-level value, cost, profit and drawdown, one row per distinct
// date.
//
// The computation is a deterministic pipeline of forward passes over the
// table, so valuating the same event table twice yields identical results.
func Valuate(events *EventTable) *ValuationTable {
	assets := events.Assets()
	t := &ValuationTable{
		assets: assets,
		series: make(map[string]*AssetSeries, len(assets)),
	}

	// Collapse same-day rows: sum the additive columns (deltas, costs,
	// payments) per distinct date. Unit prices are not additive; they are
	// date-level facts taken from the first row of each date.
	var (
		deltas    = make([][]float64, len(assets)) // per asset, per date: summed count delta
		costFlows = make([][]float64, len(assets)) // per asset, per date: summed purchase cost
		unit      = make([][]float64, len(assets)) // per asset, per date: unit price
		payments  []float64                        // per date: summed payments + fees
	)
	last := -1 // index of the current distinct date
	for row := range events.Rows() {
		if last < 0 || t.days[last] != row.On {
			t.days = append(t.days, row.On)
			last++
			for i := range assets {
				deltas[i] = append(deltas[i], 0)
				costFlows[i] = append(costFlows[i], 0)
				// First occurrence of the date fixes the unit price.
				unit[i] = append(unit[i], row.Prices[i])
			}
			payments = append(payments, 0)
		}
		for i := range assets {
			deltas[i][last] += row.Deltas[i]
			// Cost attribution: a row's cost is its normalized payment only
			// when the row buys the asset (positive count delta). Sales and
			// pure price-update rows contribute no cost.
			if row.Deltas[i] > 0 {
				costFlows[i][last] += row.Payment
			}
		}
		payments[last] += row.Payment + row.Fee
	}

	n := len(t.days)

	// Cumulative reconstruction, per asset: flows become stocks. The value
	// is computed after the cumulative sum, since value is a stock quantity.
	for i, asset := range assets {
		s := &AssetSeries{
			Count:     cumsum(deltas[i]),
			UnitValue: unit[i],
			Cost:      cumsum(costFlows[i]),
			Value:     make([]float64, n),
			Profit:    make([]float64, n),
		}
		floats.MulTo(s.Value, s.Count, s.UnitValue)
		floats.SubTo(s.Profit, s.Value, s.Cost)
		t.series[asset] = s
	}

	// Portfolio aggregates.
	p := &t.portfolio
	p.Cost = cumsum(payments)
	p.Value = make([]float64, n)
	for _, asset := range assets {
		floats.Add(p.Value, t.series[asset].Value)
	}
	p.Profit = make([]float64, n)
	floats.SubTo(p.Profit, p.Value, p.Cost)

	// Drawdown: a single ordered scan carrying the running peak.
	p.Drawdown = make([]float64, n)
	var peak float64
	for j, v := range p.Value {
		if v > peak {
			peak = v
		}
		if peak == 0 {
			p.Drawdown[j] = 0
			continue
		}
		p.Drawdown[j] = (v - peak) / peak
	}

	return t
}

// cumsum returns the cumulative sum of a flow column as a new slice.
func cumsum(flow []float64) []float64 {
	dst := make([]float64, len(flow))
	return floats.CumSum(dst, flow)
}
