package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/pnl"
	"github.com/google/subcommands"
)

// importCmd merges daily-bar provider documents into a market data file.
type importCmd struct {
	output string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import daily bars into the market data file" }
func (*importCmd) Usage() string {
	return `pnl import [-o <market file>] <document>...

  Reads daily-bar documents as returned by Alpha Vantage (TIME_SERIES_DAILY,
  TIME_SERIES_DAILY_ADJUSTED and FX_DAILY) and merges them into the market data
  file. Forex pairs must involve the base currency.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Market data file to update. Defaults to the first configured market file.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: no document to import\n")
		return subcommands.ExitUsageError
	}
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	output := c.output
	if output == "" && len(a.cfg.Market) > 0 {
		output = a.cfg.Market[0]
	}
	if output == "" {
		fmt.Fprintf(os.Stderr, "Error: no market data file, use -o or the market key\n")
		return subcommands.ExitUsageError
	}

	m, err := decodeMarket([]string{output})
	if errors.Is(err, fs.ErrNotExist) {
		a.log.Warn().Str("file", output).Msg("market data file does not exist, creating it")
		m, err = pnl.NewMarketData(), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, path := range f.Args() {
		if err := importFile(m, path, a.cfg.Base); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		a.log.Info().Str("file", path).Msg("imported")
	}

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := pnl.EncodeMarketData(out, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	a.log.Info().
		Str("file", output).
		Strs("symbols", m.Symbols()).
		Strs("currencies", m.Currencies()).
		Msg("market data saved")
	return subcommands.ExitSuccess
}

func importFile(m *pnl.MarketData, path, base string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.ImportDailyBars(f, base)
}
