package pnl

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// jsonPrecision is the number of decimal places kept when amounts and rates
// are encoded.
const jsonPrecision = 8

// Money is an amount in major units (e.g. 12.5 EUR) of an ISO 4217 currency.
// An empty currency is weak: it takes the currency of the other operand.
type Money struct {
	amount decimal.Decimal
	code   string
}

// M builds a Money.
func M[T number](v T, currency string) Money { return Money{toDecimal(v), currency} }

func (m Money) with(d decimal.Decimal) Money { return Money{d, m.code} }

func (m Money) Currency() string          { return m.code }
func (m Money) Decimal() decimal.Decimal  { return m.amount }
func (m Money) Neg() Money                { return m.with(m.amount.Neg()) }
func (m Money) Mul(q Quantity) Money      { return m.with(m.amount.Mul(q.d)) }
func (m Money) Div(q Quantity) Money      { return m.with(m.amount.Div(q.d)) }
func (m Money) IsZero() bool              { return m.amount.IsZero() }
func (m Money) IsPositive() bool          { return m.amount.IsPositive() }
func (m Money) IsNegative() bool          { return m.amount.IsNegative() }
func (m Money) GreaterThan(n Money) bool  { return m.amount.GreaterThan(n.amount) }
func (m Money) GreaterThanOrEqual(n Money) bool {
	return m.amount.GreaterThanOrEqual(n.amount)
}

// Equal reports whether both amount and currency are equal.
func (m Money) Equal(n Money) bool { return m.code == n.code && m.amount.Equal(n.amount) }

func (m Money) Add(n Money) Money { return Money{m.amount.Add(n.amount), common(m, n)} }
func (m Money) Sub(n Money) Money { return Money{m.amount.Sub(n.amount), common(m, n)} }

// common returns the currency of an operation on m and n. It panics when
// both are set and differ.
func common(m, n Money) string {
	switch {
	case m.code == "":
		return n.code
	case n.code == "", m.code == n.code:
		return m.code
	}
	panic(fmt.Sprintf("currency mismatch %s != %s", m.code, n.code))
}

// Convert multiplies by a forex rate and relabels the amount in currency to.
func (m Money) Convert(rate decimal.Decimal, to string) Money {
	return Money{m.amount.Mul(rate), to}
}

// Ratio returns m / n as a plain decimal.
func (m Money) Ratio(n Money) decimal.Decimal { return m.amount.Div(n.amount) }

// AsFloat is meant for statistics and display only.
func (m Money) AsFloat() float64 { return m.amount.InexactFloat64() }

// String formats m with the currency's symbol and fraction digits.
func (m Money) String() string {
	c := money.New(0, m.code).Currency()
	minor := m.amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return c.Formatter().Format(minor)
}

// SignedString is like String with an explicit '+' on gains and "-" for zero.
func (m Money) SignedString() string {
	switch {
	case m.amount.IsZero():
		return "-"
	case m.amount.IsPositive():
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON encodes the amount only, records carry their currency separately.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.Round(jsonPrecision).MarshalJSON()
}

// ValidateCurrency checks that code is a known ISO 4217 currency.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}
