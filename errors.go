package valuation

import (
	"fmt"

	"github.com/etnz/valuation/date"
)

// The errors below are fatal to the run that produced them: a valuation is
// only meaningful when computed over complete, correctly normalized inputs,
// so no partial result is ever emitted. Callers are expected to fix the
// inputs and rerun.

// MissingRateError reports that no exchange rate exists for a required
// currency pair on (or before) a required date.
type MissingRateError struct {
	Pair string
	On   date.Date
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for pair %q on %s", e.Pair, e.On)
}

// MissingColumnError reports that a configured transaction or fee column is
// absent from a source file.
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("source %q has no column %q", e.Source, e.Column)
}

// UnknownAssetGroupError reports that an asset does not belong to exactly one
// group. Group membership must be a strict partition of the portfolio.
type UnknownAssetGroupError struct {
	Asset  string
	Groups []string // groups claiming the asset; empty when the asset is unassigned
}

func (e *UnknownAssetGroupError) Error() string {
	if len(e.Groups) == 0 {
		return fmt.Sprintf("asset %q belongs to no group", e.Asset)
	}
	return fmt.Sprintf("asset %q belongs to %d groups %v, want exactly one", e.Asset, len(e.Groups), e.Groups)
}

// DateParseError reports a malformed date in a transaction source.
type DateParseError struct {
	Source string
	Line   int
	Value  string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("source %q line %d: invalid date %q: %v", e.Source, e.Line, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }
