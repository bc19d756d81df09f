// Package renderer turns computed portfolio histories into markdown reports.
package renderer

import (
	"fmt"

	"github.com/etnz/pnl"
	md "github.com/nao1215/markdown"
)

// percent formats a ratio, "n/a" when undefined.
func percent(p pnl.Percent) string { return p.SignedString() }

// ratio formats a plain float ratio as a signed percentage.
func ratio(r float64) string { return fmt.Sprintf("%+.2f%%", r*100) }

// right aligns every column but the first one.
func right(columns int) []md.TableAlignment {
	a := make([]md.TableAlignment, columns)
	a[0] = md.AlignLeft
	for i := 1; i < columns; i++ {
		a[i] = md.AlignRight
	}
	return a
}
