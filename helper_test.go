package valuation

import (
	"math"
	"testing"

	"github.com/etnz/valuation/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for test to create a date from a const string.
func day(s string) date.Date { return date.MustParse(s) }

// approx reports whether two floats are equal within a relative tolerance.
func approx(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= tol*scale
}

// setupScenario builds the unified event table of the reference scenario:
// asset "X" bought once (10 units at 100, 1000 paid plus 5 fee) on day 1,
// price rising to 120 on day 2 then dropping to 90 on day 3, and asset "Y"
// priced every day but never traded.
func setupScenario(t *testing.T) *EventTable {
	t.Helper()

	prices := NewPriceTable()
	prices.Append("X", day("2025-01-01"), 100)
	prices.Append("X", day("2025-01-02"), 120)
	prices.Append("X", day("2025-01-03"), 90)
	prices.Append("Y", day("2025-01-01"), 50)
	prices.Append("Y", day("2025-01-02"), 50)
	prices.Append("Y", day("2025-01-03"), 50)

	rates := NewRateTable()
	rates.AddIdentity("EUR", day("2025-01-01"))

	merger := &Merger{
		AnalysisCurrency: "EUR",
		AssetCurrencies:  map[string]string{"X": "EUR", "Y": "EUR"},
		Rates:            rates,
		FirstTransaction: day("2025-01-01"),
	}
	records := []TransactionRecord{
		{On: day("2025-01-01"), Deltas: map[string]float64{"X": 10}, Payment: EUR(1000), Fee: EUR(5)},
	}
	events, err := merger.Merge(prices, records)
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}
	return events
}
