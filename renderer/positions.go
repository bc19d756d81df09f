package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/date"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders the open and closed positions of one day.
func PositionsMarkdown(on date.Date, positions []pnl.DailyPosition) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Positions on %s", on))

	open := md.TableSet{
		Alignment: right(7),
		Header:    []string{"Symbol", "Quantity", "Cost per Share", "Total Cost", "Close", "Value", "P&L"},
	}
	realized := md.TableSet{
		Alignment: right(6),
		Header:    []string{"Symbol", "Quantity", "Bought at", "Sold at", "Fees", "P&L"},
	}
	for _, p := range positions {
		if p.Date != on {
			continue
		}
		if u, v := p.Unrealized, p.Valuation; u != nil && v != nil {
			closing := v.Close.String()
			if v.PriceDate != on {
				closing += fmt.Sprintf(" (%s)", v.PriceDate)
			}
			open.Rows = append(open.Rows, []string{
				p.Symbol,
				u.Quantity.String(),
				u.CostPerShare.String(),
				u.TotalCost.String(),
				closing,
				v.TotalValue.String(),
				v.TotalValue.Sub(u.TotalCost).SignedString(),
			})
		}
		if r := p.Realized; r != nil {
			realized.Rows = append(realized.Rows, []string{
				p.Symbol,
				r.Quantity.String(),
				r.BuyCostPerShare.String(),
				r.SellCostPerShare.String(),
				r.TransactionCost.String(),
				r.PL.SignedString(),
			})
		}
	}

	if len(open.Rows) == 0 && len(realized.Rows) == 0 {
		doc.PlainText("No position.")
		return doc.String()
	}
	if len(open.Rows) > 0 {
		doc.H2("Held")
		doc.Table(open)
	}
	if len(realized.Rows) > 0 {
		doc.H2("Realized")
		doc.Table(realized)
	}
	return doc.String()
}
