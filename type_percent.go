package pnl

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio (0.05 for 5%) that may be undefined, for instance when
// the denominator is zero.
type Percent struct {
	value decimal.Decimal
	valid bool
}

// NewPercent returns num / den, undefined when den is zero.
func NewPercent(num, den Money) Percent {
	if den.IsZero() {
		return Percent{}
	}
	return Percent{value: num.Ratio(den), valid: true}
}

// Valid reports whether the ratio is defined.
func (p Percent) Valid() bool { return p.valid }

// Ratio returns the ratio and whether it is defined.
func (p Percent) Ratio() (decimal.Decimal, bool) { return p.value, p.valid }

func (p Percent) Equal(q Percent) bool {
	return p.valid == q.valid && p.value.Equal(q.value)
}

func (p Percent) String() string {
	if !p.valid {
		return "n/a"
	}
	return p.value.Shift(2).StringFixed(2) + "%"
}

func (p Percent) SignedString() string {
	if !p.valid {
		return "n/a"
	}
	res := fmt.Sprintf("%s%%", p.value.Shift(2).StringFixed(2))
	if p.value.IsPositive() {
		res = "+" + res
	}
	if res == "0.00%" {
		return "-"
	}
	return res
}

// MarshalJSON encodes an undefined ratio as null.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	return p.value.Round(jsonPrecision).MarshalJSON()
}
