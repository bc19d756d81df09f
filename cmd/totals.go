package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/date"
	"github.com/etnz/pnl/renderer"
	"github.com/etnz/pnl/store"
	"github.com/google/subcommands"
)

// totalsCmd displays the daily totals.
type totalsCmd struct {
	from   string
	to     string
	stored bool
}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "display the portfolio totals day by day" }
func (*totalsCmd) Usage() string {
	return `pnl totals [-from <date>] [-to <date>] [-stored]

  Displays the market value, cost, P&L, dividends and net invested capital of
  every day. With -stored, totals are read from the database instead of being
  computed.
`
}

func (c *totalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD). Defaults to the first ledger record.")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&c.stored, "stored", false, "Read the totals from the database.")
}

func (c *totalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var totals []pnl.DailyTotal
	if c.stored {
		totals, err = c.load(ctx, a)
	} else {
		var res *pnl.Result
		res, err = a.compute(ctx, c.from, c.to, 0)
		if res != nil {
			totals = res.Totals
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.TotalsMarkdown(totals))
	return subcommands.ExitSuccess
}

// load reads the saved totals, the whole table when no range is given.
func (c *totalsCmd) load(ctx context.Context, a *app) ([]pnl.DailyTotal, error) {
	if a.cfg.Database == "" {
		return nil, fmt.Errorf("no database configured, use -db or the database key")
	}
	r := date.Range{From: date.New(1, 1, 1), To: date.Today()}
	var err error
	if c.from != "" {
		if r.From, err = date.Parse(c.from); err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if c.to != "" {
		if r.To, err = date.Parse(c.to); err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
	}
	s, err := store.Open(a.cfg.Database, a.log)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Totals(ctx, r)
}
