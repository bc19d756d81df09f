package pnl

import (
	"testing"
)

func TestAggregate(t *testing.T) {
	on := day("2024-01-03")
	positions := []DailyPosition{
		{
			Symbol:     "AAPL",
			Realized:   &Realized{TransactionCost: EUR(3), PL: EUR(77)},
			Unrealized: &Unrealized{TotalCost: EUR(600)},
			Valuation:  &Valuation{TotalValue: EUR(660)},
		},
		{
			Symbol:     "MSFT",
			Unrealized: &Unrealized{TotalCost: EUR(400)},
			Valuation:  &Valuation{TotalValue: EUR(440)},
		},
		{
			Symbol:   "TSLA",
			Realized: &Realized{TransactionCost: EUR(1), PL: EUR(-21)},
		},
	}

	got := Aggregate(on, "EUR", positions, EUR(2000), EUR(12))
	if got.Date != on {
		t.Errorf("Date = %s, want %s", got.Date, on)
	}
	assertMoney(t, "TotalCost", got.TotalCost, EUR(1000))
	assertMoney(t, "TotalValue", got.TotalValue, EUR(1100))
	assertMoney(t, "TotalPL", got.TotalPL, EUR(100))
	assertMoney(t, "TotalInvested", got.TotalInvested, EUR(2000))
	assertMoney(t, "TotalDividends", got.TotalDividends, EUR(12))
	assertMoney(t, "TransactionCost", got.TransactionCost, EUR(4))
	assertMoney(t, "TotalRealizedPL", got.TotalRealizedPL, EUR(56))

	ratio, ok := got.TotalPLPercentage.Ratio()
	if !ok {
		t.Fatal("TotalPLPercentage is not valid")
	}
	if s := ratio.StringFixed(4); s != "0.0909" {
		t.Errorf("TotalPLPercentage = %s, want 0.0909", s)
	}
}

func TestAggregate_NoValue(t *testing.T) {
	got := Aggregate(day("2024-01-03"), "EUR", nil, Money{}, Money{})
	assertMoney(t, "TotalValue", got.TotalValue, EUR(0))
	assertMoney(t, "TotalPL", got.TotalPL, EUR(0))
	assertMoney(t, "TotalInvested", got.TotalInvested, EUR(0))
	// undefined over a zero value
	if got.TotalPLPercentage.Valid() {
		t.Errorf("TotalPLPercentage = %s, want invalid", got.TotalPLPercentage)
	}
	if s := got.TotalPLPercentage.String(); s != "n/a" {
		t.Errorf("TotalPLPercentage.String() = %q, want n/a", s)
	}
}
