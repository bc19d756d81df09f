package pnl

import (
	"testing"

	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a short helper for test dates.
func day(s string) date.Date { return date.MustParse(s) }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// closeBar returns a bar with every price set to v.
func closeBar(v float64) Bar {
	d := dec(v)
	return Bar{Open: d, High: d, Low: d, Close: d}
}

// assertMoney reports an error when got is not want, both amount and currency.
func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s %s, want %s %s", name, got.Decimal(), got.Currency(), want.Decimal(), want.Currency())
	}
}

func assertQuantity(t *testing.T, name string, got Quantity, want float64) {
	t.Helper()
	if !got.Equal(Q(want)) {
		t.Errorf("%s = %s, want %v", name, got, want)
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want float64) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %v", name, got, want)
	}
}

// buy returns an EUR buy already normalized (forex rate 1).
func buy(on string, symbol string, qty, cost float64) Transaction {
	return normalized(NewBuy(day(on), symbol, Q(qty), EUR(cost), EUR(0)))
}

// sell returns an EUR sell already normalized (forex rate 1).
func sell(on string, symbol string, qty, proceeds float64) Transaction {
	return normalized(NewSell(day(on), symbol, Q(qty), EUR(proceeds), EUR(0)))
}

func normalized(tx Transaction) Transaction {
	tx.LocalCost = tx.Cost
	tx.ForexRate = decimal.NewFromInt(1)
	tx.ForexDate = tx.Date
	tx.CostPerShare = tx.Cost.Div(tx.Quantity)
	return tx
}

// days returns every day between from and to, both included.
func days(from, to string) []date.Date {
	return date.Range{From: day(from), To: day(to)}.Days()
}
