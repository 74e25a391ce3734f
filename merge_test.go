package valuation

import (
	"testing"

	"github.com/etnz/valuation/date"
)

// Payments in a foreign currency are converted at each row's own date, even
// when several rows share a date label.
func TestMergeConvertsPerRow(t *testing.T) {
	prices := NewPriceTable()
	prices.Append("X", day("2025-02-03"), 10)
	prices.Append("X", day("2025-02-04"), 10)

	rates := NewRateTable()
	rates.AddIdentity("EUR", day("2025-02-03"))
	rates.Append("USDEUR", day("2025-02-03"), 0.5)
	rates.Append("USDEUR", day("2025-02-04"), 2.0)

	merger := &Merger{
		AnalysisCurrency: "EUR",
		AssetCurrencies:  map[string]string{"X": "EUR"},
		Rates:            rates,
		FirstTransaction: day("2025-02-03"),
	}
	events, err := merger.Merge(prices, []TransactionRecord{
		{On: day("2025-02-03"), Deltas: map[string]float64{"X": 1}, Payment: USD(100)},
		{On: day("2025-02-03"), Deltas: map[string]float64{"X": 1}, Payment: USD(100)},
		{On: day("2025-02-04"), Deltas: map[string]float64{"X": 1}, Payment: USD(100)},
	})
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	var payments []float64
	for row := range events.Rows() {
		payments = append(payments, row.Payment)
	}
	want := []float64{50, 50, 200}
	if len(payments) != len(want) {
		t.Fatalf("got %d rows, want %d", len(payments), len(want))
	}
	for j := range want {
		if payments[j] != want[j] {
			t.Errorf("row %d payment = %v, want %v (rate of the row's own day)", j, payments[j], want[j])
		}
	}
}

// Prices quoted in a foreign currency are normalized point by point, each at
// the rate of its own day.
func TestMergeConvertsPrices(t *testing.T) {
	prices := NewPriceTable()
	prices.Append("X", day("2025-02-03"), 100)
	prices.Append("X", day("2025-02-04"), 100)

	rates := NewRateTable()
	rates.AddIdentity("EUR", day("2025-02-03"))
	rates.Append("USDEUR", day("2025-02-03"), 0.9)
	rates.Append("USDEUR", day("2025-02-04"), 0.8)

	merger := &Merger{
		AnalysisCurrency: "EUR",
		AssetCurrencies:  map[string]string{"X": "USD"},
		Rates:            rates,
		FirstTransaction: day("2025-02-03"),
	}
	events, err := merger.Merge(prices)
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if events.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", events.Len())
	}
	if got := events.Row(0).Prices[0]; got != 90 {
		t.Errorf("day 1 price = %v, want 90", got)
	}
	if got := events.Row(1).Prices[0]; got != 80 {
		t.Errorf("day 2 price = %v, want 80", got)
	}
}

// Price history and transactions before the cutoff are discarded.
func TestMergeCutoff(t *testing.T) {
	prices := NewPriceTable()
	prices.Append("X", day("2024-12-30"), 5)
	prices.Append("X", day("2025-01-02"), 10)

	rates := NewRateTable()
	rates.AddIdentity("EUR", day("2024-12-30"))

	merger := &Merger{
		AnalysisCurrency: "EUR",
		AssetCurrencies:  map[string]string{"X": "EUR"},
		Rates:            rates,
		FirstTransaction: day("2025-01-01"),
	}
	events, err := merger.Merge(prices, []TransactionRecord{
		{On: day("2024-12-30"), Deltas: map[string]float64{"X": 99}, Payment: EUR(495)},
		{On: day("2025-01-02"), Deltas: map[string]float64{"X": 1}, Payment: EUR(10)},
	})
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if events.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (pre-cutoff rows dropped)", events.Len())
	}
	row := events.Row(0)
	if row.On != day("2025-01-02") {
		t.Errorf("row date = %s, want 2025-01-02", row.On)
	}
	if row.Deltas[0] != 1 {
		t.Errorf("delta = %v, want 1", row.Deltas[0])
	}
}

// A transaction on a non-trading day carries the most recent known price, and
// days before the first known price carry 0.
func TestMergeForwardFill(t *testing.T) {
	prices := NewPriceTable()
	prices.Append("X", day("2025-01-02"), 10)
	prices.Append("X", day("2025-01-06"), 12)
	prices.Append("Y", day("2025-01-03"), 7)
	prices.Append("Y", day("2025-01-06"), 7)

	rates := NewRateTable()
	rates.AddIdentity("EUR", day("2025-01-01"))

	merger := &Merger{
		AnalysisCurrency: "EUR",
		AssetCurrencies:  map[string]string{"X": "EUR", "Y": "EUR"},
		Rates:            rates,
		FirstTransaction: day("2025-01-01"),
	}
	events, err := merger.Merge(prices, []TransactionRecord{
		{On: day("2025-01-04"), Deltas: map[string]float64{"X": 1}, Payment: EUR(10)},
	})
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	byDay := make(map[date.Date]EventRow)
	for row := range events.Rows() {
		byDay[row.On] = row
	}
	// 2025-01-02: Y has no price yet, leading gap is 0.
	if got := byDay[day("2025-01-02")].Prices[1]; got != 0 {
		t.Errorf("Y price before first quote = %v, want 0", got)
	}
	// 2025-01-04 is not a trading day: prices are carried forward.
	row, ok := byDay[day("2025-01-04")]
	if !ok {
		t.Fatal("transaction day 2025-01-04 missing from the event table")
	}
	if row.Prices[0] != 10 || row.Prices[1] != 7 {
		t.Errorf("forward-filled prices = %v, want [10 7]", row.Prices)
	}
	if row.Deltas[0] != 1 {
		t.Errorf("delta = %v, want 1", row.Deltas[0])
	}
}

func TestMergeUnknownAsset(t *testing.T) {
	prices := NewPriceTable()
	prices.Append("X", day("2025-01-02"), 10)

	rates := NewRateTable()
	rates.AddIdentity("EUR", day("2025-01-01"))

	merger := &Merger{
		AnalysisCurrency: "EUR",
		AssetCurrencies:  map[string]string{"X": "EUR"},
		Rates:            rates,
		FirstTransaction: day("2025-01-01"),
	}
	_, err := merger.Merge(prices, []TransactionRecord{
		{On: day("2025-01-02"), Deltas: map[string]float64{"Z": 1}, Payment: EUR(10)},
	})
	if err == nil {
		t.Fatal("Merge() accepted a transaction on an unpriced asset")
	}
}
