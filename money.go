package valuation

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a given currency.
//
// Amounts read from broker files are carried as Money so they stay exact up
// to the point where they are normalized into the analysis currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money of the given amount and currency.
func M(value float64, currency string) Money {
	return Money{value: decimal.NewFromFloat(value), cur: currency}
}

// ParseMoney parses a decimal string (e.g. "1000.50") into a Money of the
// given currency.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d, cur: currency}, nil
}

// currency returns the money's full currency metadata.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// Currency returns the money's currency code.
func (m Money) Currency() string { return m.cur }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.value.IsZero() }

// Equal reports whether two money values have the same amount and currency.
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }

// Add returns the sum of two money values. Currencies must match, except
// that the "" currency is weak and adopts the other operand's.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }

// Neg returns the negated amount.
func (m Money) Neg() Money { return Money{value: m.value.Neg(), cur: m.cur} }

// AsFloat returns the amount as a float64, losing exactness. The valuation
// engine works in float64 columns, so amounts cross over here.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// String returns the amount formatted according to its currency conventions
// (e.g. "€1,005.00").
func (m Money) String() string {
	c := m.currency()
	dec := m.value.Round(int32(c.Fraction)).Shift(int32(c.Fraction))
	return c.Formatter().Format(dec.IntPart())
}

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}
