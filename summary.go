package pnl

import (
	"github.com/etnz/pnl/date"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a totals series as a whole.
type Summary struct {
	From, To        date.Date
	Days            int
	Last            DailyTotal
	MeanDailyReturn float64 // mean of the daily returns
	Volatility      float64 // standard deviation of the daily returns
	MaxDrawdown     float64 // largest drop of the compounded returns from a previous peak, as a ratio
	BestDay         float64
	WorstDay        float64
}

// Summarize computes descriptive statistics over sorted daily totals.
//
// The gain of a day is its unrealized P&L plus the realized P&L and dividends
// received so far; buys, sells and cash flows leave it unchanged. The daily
// return of day t is the change of gain divided by the market value of day
// t-1, days without a previous value are skipped. The drawdown is measured on
// the index compounding those returns.
func Summarize(totals []DailyTotal) Summary {
	var s Summary
	if len(totals) == 0 {
		return s
	}
	s.From, s.To, s.Days = totals[0].Date, totals[len(totals)-1].Date, len(totals)
	s.Last = totals[len(totals)-1]

	gain := func(t DailyTotal) Money { return t.TotalPL.Add(t.TotalRealizedPL).Add(t.TotalDividends) }
	var returns []float64
	index, peak, drawdown := 1.0, 1.0, 0.0
	for i := 1; i < len(totals); i++ {
		prev, t := totals[i-1], totals[i]
		if !prev.TotalValue.IsPositive() {
			continue
		}
		r := gain(t).Sub(gain(prev)).AsFloat() / prev.TotalValue.AsFloat()
		returns = append(returns, r)
		index *= 1 + r
		peak = max(peak, index)
		drawdown = max(drawdown, (peak-index)/peak)
	}
	s.MaxDrawdown = drawdown
	if len(returns) > 0 {
		s.MeanDailyReturn = stat.Mean(returns, nil)
		s.BestDay, s.WorstDay = floats.Max(returns), floats.Min(returns)
	}
	if len(returns) > 1 {
		s.Volatility = stat.StdDev(returns, nil)
	}
	return s
}
