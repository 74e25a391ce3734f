package valuation

import (
	"iter"
	"slices"

	"github.com/etnz/valuation/date"
)

// AssetSeries holds the per-date derived columns of one asset. All slices
// share the indexing of [ValuationTable.Day].
type AssetSeries struct {
	Count     []float64 // cumulative net units held
	UnitValue []float64 // unit price, forward-filled
	Value     []float64 // Count x UnitValue
	Cost      []float64 // cumulative purchase cost (expense)
	Profit    []float64 // Value - Cost
}

// PortfolioSeries holds the per-date portfolio-level aggregates.
type PortfolioSeries struct {
	Value    []float64 // sum of all asset values
	Cost     []float64 // cumulative payments + fees
	Profit   []float64 // Value - Cost
	Drawdown []float64 // relative decline from the running peak, in [-1, 0]
}

// ValuationTable is the output of the valuation engine: one row per distinct
// date (same-day events collapsed by summation), holding per-asset and
// portfolio-level series. It is built once per run and immutable thereafter.
type ValuationTable struct {
	days      []date.Date
	assets    []string
	series    map[string]*AssetSeries
	portfolio PortfolioSeries
}

// Len returns the number of rows (distinct dates).
func (t *ValuationTable) Len() int { return len(t.days) }

// Day returns the date of the i-th row.
func (t *ValuationTable) Day(i int) date.Date { return t.days[i] }

// Days returns an iterator over the dates, in chronological order.
func (t *ValuationTable) Days() iter.Seq[date.Date] { return slices.Values(t.days) }

// Assets returns the asset names, in table column order.
func (t *ValuationTable) Assets() []string { return t.assets }

// Asset returns the derived series of the named asset, or nil if unknown.
func (t *ValuationTable) Asset(name string) *AssetSeries { return t.series[name] }

// Portfolio returns the portfolio-level series.
func (t *ValuationTable) Portfolio() *PortfolioSeries { return &t.portfolio }
