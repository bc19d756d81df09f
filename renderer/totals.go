package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/pnl"
	md "github.com/nao1215/markdown"
)

// TotalsMarkdown renders one row per day.
func TotalsMarkdown(totals []pnl.DailyTotal) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if len(totals) == 0 {
		doc.H1("Portfolio Totals")
		doc.PlainText("No day to report.")
		return doc.String()
	}
	doc.H1(fmt.Sprintf("Portfolio Totals from %s to %s", totals[0].Date, totals[len(totals)-1].Date))

	table := md.TableSet{
		Alignment: right(8),
		Header:    []string{"Date", "Value", "Cost", "P&L", "P&L %", "Realized P&L", "Dividends", "Invested"},
	}
	for _, t := range totals {
		table.Rows = append(table.Rows, []string{
			t.Date.String(),
			t.TotalValue.String(),
			t.TotalCost.String(),
			t.TotalPL.SignedString(),
			percent(t.TotalPLPercentage),
			t.TotalRealizedPL.SignedString(),
			t.TotalDividends.String(),
			t.TotalInvested.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
