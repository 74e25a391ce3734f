package valuation

import (
	"fmt"
	"math"

	"github.com/PaesslerAG/jsonpath"

	"github.com/etnz/valuation/date"
)

// This file contains functions to access the EODHD API, the market data
// provider supplying daily close prices for asset tickers and daily exchange
// rates for currency pairs. Responses are cached on disk with daily expiry,
// so repeated fetches within a day do not hit the provider again.

// ForexSymbol returns the EODHD symbol for a currency pair, e.g. "USDEUR.FOREX".
func ForexSymbol(pair string) string { return pair + ".FOREX" }

// FetchDaily downloads the daily adjusted close series of a symbol from
// 'from' onward.
func FetchDaily(apiKey, symbol string, from date.Date) (*date.History[float64], error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=...&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		...
	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s?fmt=json&api_token=%s&from=%s", symbol, apiKey, from)
	type info struct {
		Date  date.Date `json:"date"`
		Close float64   `json:"adjusted_close"`
	}
	content := make([]info, 0)
	if err := jwget(dailyClient(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch daily series for %q: %w", symbol, err)
	}
	h := new(date.History[float64])
	for _, i := range content {
		h.Append(i.Date, i.Close)
	}
	return h, nil
}

// FetchLatest returns the last traded price of a symbol from the real-time
// endpoint. The payload shape drifts (close is sometimes nested, sometimes a
// string "NA" outside trading hours), so the value is extracted by path and
// checked rather than decoded into a struct.
func FetchLatest(apiKey, symbol string) (float64, error) {
	addr := fmt.Sprintf("https://eodhd.com/api/real-time/%s?fmt=json&api_token=%s", symbol, apiKey)
	var jobj any
	if err := jwget(dailyClient(), addr, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("cannot fetch latest price for %q: %w", symbol, err)
	}
	path := "$.close"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("cannot read latest price for %q: %q %w", symbol, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of one
	// answer or a single answer, keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("cannot read latest price for %q: %v is not a number", symbol, jval)
	}
	return val, nil
}
