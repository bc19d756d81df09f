package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pnl"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
	check      bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `pnl fmt [-o <file>] [-check]

  Validates and formats the ledger file. This command reads all records,
  sorts them by date, and writes them back in a canonical JSONL format.
  By default, the ledger is formatted in-place.

  With -check, the ledger is also normalized into the base currency, which
  needs the forex rates of the market data.

Usage Examples:
$ pnl fmt
$ pnl -ledger trades.jsonl fmt -check -o /dev/stdout
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Output file. Defaults to the ledger file itself.")
	f.BoolVar(&p.check, "check", false, "Also validate amounts and convert them with the market data.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := decodeLedger(a.cfg.Ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.check {
		market, err := decodeMarket(a.cfg.Market)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if _, err := a.engine(market).Normalize(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid ledger: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	var buf bytes.Buffer
	if err := pnl.EncodeLedger(&buf, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	output := p.outputFile
	if output == "" {
		output = a.cfg.Ledger
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %d records into %s\n", ledger.Len(), output)
	return subcommands.ExitSuccess
}
