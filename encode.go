package valuation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/etnz/valuation/date"
)

// This file contains code to persist fetched market data (daily prices and
// exchange rates) in a human-readable, git-friendly JSONL file so valuation
// runs are reproducible offline.
//
// Each line is a JSON object: property 'ticker' names the series (an asset
// name, or a six-letter currency pair like "USDEUR"), property 'history' is
// an object mapping dates to values.

// currencyPairRegex checks for the format: 6 uppercase letters (3 for base, 3 for quote).
var currencyPairRegex = regexp.MustCompile(`^[A-Z]{6}$`)

type jseries struct {
	Ticker  string             `json:"ticker"`
	History map[string]float64 `json:"history"`
}

// DecodeMarket reads a market data store from 'r'. Series whose ticker is a
// currency pair identifier land in the rate table, every other series in the
// price table.
func DecodeMarket(r io.Reader) (*PriceTable, *RateTable, error) {
	prices := NewPriceTable()
	rates := NewRateTable()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		txt := scanner.Bytes()
		if len(strings.TrimSpace(string(txt))) == 0 {
			continue
		}
		var js jseries
		if err := json.Unmarshal(txt, &js); err != nil {
			return nil, nil, fmt.Errorf("market data line %d: not a correct json: %w", line, err)
		}
		h := new(date.History[float64])
		for day, value := range js.History {
			on, err := date.Parse(day)
			if err != nil {
				return nil, nil, fmt.Errorf("market data line %d ticker %q: %w", line, js.Ticker, err)
			}
			h.Append(on, value)
		}
		if currencyPairRegex.MatchString(js.Ticker) {
			rates.AddHistory(js.Ticker, h)
		} else {
			prices.AddHistory(js.Ticker, h)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("cannot read market data: %w", err)
	}
	return prices, rates, nil
}

// EncodeMarket writes price and rate series to 'w' in the market data store
// format, one series per line, tickers in alphabetical order.
func EncodeMarket(w io.Writer, prices *PriceTable, rates *RateTable) error {
	var series []jseries
	for _, asset := range prices.Assets() {
		series = append(series, toJSeries(asset, prices.History(asset)))
	}
	for pair := range rates.Pairs() {
		series = append(series, toJSeries(pair, rates.History(pair)))
	}
	slices.SortFunc(series, func(a, b jseries) int { return strings.Compare(a.Ticker, b.Ticker) })

	for _, js := range series {
		line, err := json.Marshal(js)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func toJSeries(ticker string, h *date.History[float64]) jseries {
	js := jseries{Ticker: ticker, History: make(map[string]float64, h.Len())}
	for on, v := range h.Values() {
		js.History[on.String()] = v
	}
	return js
}
