package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/pnl"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the last day of a series with its statistics.
func SummaryMarkdown(s pnl.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if s.Days == 0 {
		doc.H1("Portfolio Summary")
		doc.PlainText("No day to report.")
		return doc.String()
	}

	last := s.Last
	doc.H1(fmt.Sprintf("Portfolio Summary on %s", s.To))
	doc.PlainText(fmt.Sprintf("Total Market Value: %s", last.TotalValue))

	doc.Table(md.TableSet{
		Alignment: right(2),
		Header:    []string{md.Bold("Total P&L"), md.Bold(last.TotalPL.SignedString())},
		Rows: [][]string{
			{"Cost", last.TotalCost.String()},
			{"P&L %", percent(last.TotalPLPercentage)},
			{"Realized P&L", last.TotalRealizedPL.SignedString()},
			{"Dividends", last.TotalDividends.String()},
			{"Transaction Costs", last.TransactionCost.String()},
			{"Net Invested", last.TotalInvested.String()},
		},
	})

	doc.H2(fmt.Sprintf("Statistics over %d days since %s", s.Days, s.From))
	doc.Table(md.TableSet{
		Alignment: right(2),
		Header:    []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Mean Daily Return", ratio(s.MeanDailyReturn)},
			{"Volatility", ratio(s.Volatility)},
			{"Best Day", ratio(s.BestDay)},
			{"Worst Day", ratio(s.WorstDay)},
			{"Max Drawdown", ratio(-s.MaxDrawdown)},
		},
	})

	return doc.String()
}
