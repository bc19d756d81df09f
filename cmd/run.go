package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// runCmd computes the daily history and prints it.
type runCmd struct {
	from   string
	to     string
	output string
	format string
	save   bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compute the daily positions and totals of the portfolio" }
func (*runCmd) Usage() string {
	return `pnl run [-from <date>] [-to <date>] [-o <file>] [-format json|md] [-save]

  Reconstructs the portfolio day by day from the ledger and the market data,
  and prints the positions, totals and net invested capital of every day.
  The range defaults to the first ledger record up to today.

Usage Examples:
$ pnl run -from 2024-01-01 -o result.json
$ pnl -db pnl.db run -save
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day to compute (YYYY-MM-DD). Defaults to the first ledger record.")
	f.StringVar(&c.to, "to", "", "Last day to compute (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
	f.StringVar(&c.format, "format", "json", "Output format: json or md.")
	f.BoolVar(&c.save, "save", false, "Persist the result in the database.")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "json" && c.format != "md" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	res, err := a.compute(ctx, c.from, c.to, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := c.write(w, res); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.save {
		runID, err := a.save(ctx, res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving result: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Saved run %s to %s\n", runID, a.cfg.Database)
	}
	return subcommands.ExitSuccess
}

func (c *runCmd) write(w io.Writer, res *pnl.Result) error {
	if c.format == "md" {
		_, err := io.WriteString(w, renderer.TotalsMarkdown(res.Totals))
		return err
	}
	return pnl.EncodeResult(w, res)
}
