package pnl

import "github.com/etnz/pnl/date"

// DailyTotal sums every position of one day.
type DailyTotal struct {
	Date              date.Date
	TotalCost         Money
	TotalValue        Money
	TotalInvested     Money
	TotalPL           Money   // TotalValue - TotalCost
	TotalPLPercentage Percent // TotalPL / TotalValue, undefined when TotalValue is zero
	TotalDividends    Money
	TransactionCost   Money // fees of the realized blocks
	TotalRealizedPL   Money
}

// Aggregate computes the totals of one day.
//
// invested is the net invested capital on that day and dividends the sum of
// every symbol's dividends received so far.
func Aggregate(on date.Date, base string, positions []DailyPosition, invested, dividends Money) DailyTotal {
	zero := M(0, base)
	t := DailyTotal{
		Date:            on,
		TotalCost:       zero,
		TotalValue:      zero,
		TotalInvested:   zero.Add(invested),
		TotalDividends:  zero.Add(dividends),
		TransactionCost: zero,
		TotalRealizedPL: zero,
	}
	for _, p := range positions {
		if p.Unrealized != nil {
			t.TotalCost = t.TotalCost.Add(p.Unrealized.TotalCost)
		}
		if p.Valuation != nil {
			t.TotalValue = t.TotalValue.Add(p.Valuation.TotalValue)
		}
		if p.Realized != nil {
			t.TransactionCost = t.TransactionCost.Add(p.Realized.TransactionCost)
			t.TotalRealizedPL = t.TotalRealizedPL.Add(p.Realized.PL)
		}
	}
	t.TotalPL = t.TotalValue.Sub(t.TotalCost)
	t.TotalPLPercentage = NewPercent(t.TotalPL, t.TotalValue)
	return t
}
