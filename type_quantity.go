package pnl

import "github.com/shopspring/decimal"

// number lists the types amounts and quantities can be built from.
type number interface {
	int | int32 | int64 | uint | uint32 | uint64 | float32 | float64 | decimal.Decimal
}

func toDecimal[T number](v T) decimal.Decimal {
	switch x := any(v).(type) {
	case decimal.Decimal:
		return x
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return decimal.NewFromUint64(uint64(x))
	case uint32:
		return decimal.NewFromUint64(uint64(x))
	case uint64:
		return decimal.NewFromUint64(x)
	}
	panic("unreachable")
}

// Quantity is a signed number of shares. Fractional shares are allowed.
type Quantity struct{ d decimal.Decimal }

// Q builds a Quantity.
func Q[T number](v T) Quantity { return Quantity{toDecimal(v)} }

func (q Quantity) Add(o Quantity) Quantity { return Quantity{q.d.Add(o.d)} }
func (q Quantity) Sub(o Quantity) Quantity { return Quantity{q.d.Sub(o.d)} }
func (q Quantity) Mul(o Quantity) Quantity { return Quantity{q.d.Mul(o.d)} }
func (q Quantity) Div(o Quantity) Quantity { return Quantity{q.d.Div(o.d)} }

func (q Quantity) Equal(o Quantity) bool              { return q.d.Equal(o.d) }
func (q Quantity) GreaterThan(o Quantity) bool        { return q.d.GreaterThan(o.d) }
func (q Quantity) GreaterThanOrEqual(o Quantity) bool { return q.d.GreaterThanOrEqual(o.d) }

func (q Quantity) IsZero() bool     { return q.d.IsZero() }
func (q Quantity) IsPositive() bool { return q.d.IsPositive() }
func (q Quantity) IsNegative() bool { return q.d.IsNegative() }

func (q Quantity) Decimal() decimal.Decimal { return q.d }
func (q Quantity) String() string           { return q.d.String() }

// MinQ returns the smaller of a and b.
func MinQ(a, b Quantity) Quantity {
	if b.d.LessThan(a.d) {
		return b
	}
	return a
}

func (q Quantity) MarshalJSON() ([]byte, error)  { return q.d.MarshalJSON() }
func (q *Quantity) UnmarshalJSON(b []byte) error { return q.d.UnmarshalJSON(b) }
