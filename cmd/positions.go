package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pnl/date"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// positionsCmd displays the positions of one day.
type positionsCmd struct {
	date string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the positions held and realized on a day" }
func (*positionsCmd) Usage() string {
	return `pnl positions [-d <date>]

  Displays the open positions with their market value and the realized
  positions on a given day.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the report (YYYY-MM-DD). Defaults to today.")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := date.Today()
	if c.date != "" {
		d, err := date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		on = d
	}
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	// dividends received so far need the whole history.
	res, err := a.compute(ctx, "", on.String(), 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PositionsMarkdown(on, res.StocksHeld))
	return subcommands.ExitSuccess
}
