package valuation

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/etnz/valuation/date"
)

// this file contains functions to handle the import/export formats: CSV
// broker transaction files on the way in, and the three tabular artifacts
// (event log, valuation history, current status) on the way out.

// Column naming of the exported artifacts.
const (
	dateColumn               = "DATE"
	transactionPaymentColumn = "TRANSACTION_PAYMENT"
	feePaymentColumn         = "FEE_PAYMENT"
	portfolioColumn          = "PORTFOLIO"

	countSuffix     = "_COUNT"
	valueSuffix     = "_VALUE"
	unitValueSuffix = "_UNIT_VALUE"
	expenseSuffix   = "_EXPENSE"
	profitSuffix    = "_PROFIT"
	drawdownSuffix  = "_DRAWDOWN"
)

// DecodeTransactions reads one broker transaction file.
//
// The file is a CSV whose first column is the event date (YYYY-MM-DD, the
// same calendar date may appear on several rows). The source's configured
// transaction and fee columns hold payment amounts in the source currency;
// every other column must be a configured asset name and holds that asset's
// signed count delta. Empty cells read as zero.
//
// A configured column absent from the header yields a *MissingColumnError; a
// malformed date yields a *DateParseError.
func DecodeTransactions(r io.Reader, src Source, assets []string) ([]TransactionRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header of source %q: %w", src.Name, err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("source %q has an empty header", src.Name)
	}

	txCol := slices.Index(header, src.Transaction.Column)
	if txCol < 0 {
		return nil, &MissingColumnError{Source: src.Name, Column: src.Transaction.Column}
	}
	feeCol := slices.Index(header, src.Fee.Column)
	if feeCol < 0 {
		return nil, &MissingColumnError{Source: src.Name, Column: src.Fee.Column}
	}
	// Every remaining column is a count-delta column and must name a known asset.
	for i, name := range header {
		if i == 0 || i == txCol || i == feeCol {
			continue
		}
		if !slices.Contains(assets, name) {
			return nil, fmt.Errorf("source %q column %q is not a configured asset", src.Name, name)
		}
	}

	var records []TransactionRecord
	line := 1 // header was line 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read source %q: %w", src.Name, err)
		}
		line++
		on, err := date.Parse(row[0])
		if err != nil {
			return nil, &DateParseError{Source: src.Name, Line: line, Value: row[0], Err: err}
		}
		rec := TransactionRecord{On: on, Deltas: make(map[string]float64)}
		if rec.Payment, err = parseAmount(row[txCol], src.Transaction.Currency); err != nil {
			return nil, fmt.Errorf("source %q line %d column %q: %w", src.Name, line, src.Transaction.Column, err)
		}
		if rec.Fee, err = parseAmount(row[feeCol], src.Fee.Currency); err != nil {
			return nil, fmt.Errorf("source %q line %d column %q: %w", src.Name, line, src.Fee.Column, err)
		}
		for i, cell := range row {
			if i == 0 || i == txCol || i == feeCol || cell == "" {
				continue
			}
			delta, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("source %q line %d column %q: invalid count %q: %w", src.Name, line, header[i], cell, err)
			}
			rec.Deltas[header[i]] = delta
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseAmount parses a payment cell; empty cells are a zero amount.
func parseAmount(cell, currency string) (Money, error) {
	if cell == "" {
		return M(0, currency), nil
	}
	m, err := ParseMoney(cell, currency)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", cell, err)
	}
	return m, nil
}

// fmtFloat renders a numeric cell without trailing zero noise.
func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// EncodeEvents writes the unified event log (normalized payments and count
// deltas) as CSV.
func EncodeEvents(w io.Writer, t *EventTable) error {
	cw := csv.NewWriter(w)
	header := []string{dateColumn, transactionPaymentColumn, feePaymentColumn}
	for _, asset := range t.Assets() {
		header = append(header, asset+countSuffix)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for row := range t.Rows() {
		cells := []string{row.On.String(), fmtFloat(row.Payment), fmtFloat(row.Fee)}
		for _, delta := range row.Deltas {
			cells = append(cells, fmtFloat(delta))
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeValuation writes the full valuation history (per-asset and portfolio
// value, cost, profit and drawdown) as CSV.
func EncodeValuation(w io.Writer, t *ValuationTable) error {
	cw := csv.NewWriter(w)
	header := []string{dateColumn}
	for _, asset := range t.Assets() {
		header = append(header,
			asset+countSuffix,
			asset+valueSuffix,
			asset+unitValueSuffix,
			asset+expenseSuffix,
			asset+profitSuffix,
		)
	}
	header = append(header,
		portfolioColumn+valueSuffix,
		portfolioColumn+expenseSuffix,
		portfolioColumn+profitSuffix,
		portfolioColumn+drawdownSuffix,
	)
	if err := cw.Write(header); err != nil {
		return err
	}
	p := t.Portfolio()
	for i := 0; i < t.Len(); i++ {
		cells := []string{t.Day(i).String()}
		for _, asset := range t.Assets() {
			s := t.Asset(asset)
			cells = append(cells,
				fmtFloat(s.Count[i]),
				fmtFloat(s.Value[i]),
				fmtFloat(s.UnitValue[i]),
				fmtFloat(s.Cost[i]),
				fmtFloat(s.Profit[i]),
			)
		}
		cells = append(cells,
			fmtFloat(p.Value[i]),
			fmtFloat(p.Cost[i]),
			fmtFloat(p.Profit[i]),
			fmtFloat(p.Drawdown[i]),
		)
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeSnapshot writes the current status (single most-recent row, group
// and asset level) as headerless label/value CSV lines, the shape reporting
// dashboards consume directly.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	cw := csv.NewWriter(w)
	write := func(label string, value float64) error {
		return cw.Write([]string{label, fmtFloat(value)})
	}
	if err := cw.Write([]string{dateColumn, s.On.String()}); err != nil {
		return err
	}
	if err := write(portfolioColumn+valueSuffix, s.Value.AsFloat()); err != nil {
		return err
	}
	if err := write(portfolioColumn+expenseSuffix, s.Cost.AsFloat()); err != nil {
		return err
	}
	if err := write(portfolioColumn+profitSuffix, s.Profit.AsFloat()); err != nil {
		return err
	}
	if err := write(portfolioColumn+drawdownSuffix, s.Drawdown); err != nil {
		return err
	}
	for _, g := range s.Groups {
		if err := write(g.Group+valueSuffix, g.Value.AsFloat()); err != nil {
			return err
		}
	}
	for _, a := range s.Assets {
		if err := write(a.Asset+countSuffix, a.Count); err != nil {
			return err
		}
		if err := write(a.Asset+valueSuffix, a.Value.AsFloat()); err != nil {
			return err
		}
		if err := write(a.Asset+unitValueSuffix, a.UnitValue.AsFloat()); err != nil {
			return err
		}
		if err := write(a.Asset+expenseSuffix, a.Cost.AsFloat()); err != nil {
			return err
		}
		if err := write(a.Asset+profitSuffix, a.Profit.AsFloat()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
