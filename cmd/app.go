// Package cmd implements the CLI application computing a portfolio daily P&L history.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/config"
	"github.com/etnz/pnl/date"
	"github.com/etnz/pnl/logger"
	"github.com/etnz/pnl/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd, groups[cmd.Name()])
	}
}

// Commands returns every subcommand of the application.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&runCmd{},
		&scheduleCmd{},
		&totalsCmd{},
		&positionsCmd{},
		&summaryCmd{},
		&importCmd{},
		&fmtCmd{},
	}
}

var groups = map[string]string{
	"run":       "compute",
	"schedule":  "compute",
	"totals":    "reports",
	"positions": "reports",
	"summary":   "reports",
	"import":    "data",
	"fmt":       "data",
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file. Defaults to $PNL_CONFIG, then pnl.yaml if it exists.")
var ledgerFile = flag.String("ledger", "", "Path to the ledger file (JSONL format). Overrides the configuration.")
var marketFiles = flag.String("market", "", "Comma separated list of market data files. Overrides the configuration.")
var baseCurrency = flag.String("base", "", "Base currency. Overrides the configuration.")
var databaseFile = flag.String("db", "", "Path to the SQLite database. Overrides the configuration.")
var logLevel = flag.String("log-level", "", "Log level: debug, info, warn, error or disabled. Overrides the configuration.")

// app is what every command needs: the configuration and a logger.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

// setup loads the configuration, applies the global flags and builds the logger.
func setup() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.Ledger = *ledgerFile
	}
	if *marketFiles != "" {
		cfg.Market = strings.Split(*marketFiles, ",")
	}
	if *baseCurrency != "" {
		cfg.Base = strings.ToUpper(*baseCurrency)
	}
	if *databaseFile != "" {
		cfg.Database = *databaseFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.PrettyLog})
	logger.SetGlobalLogger(log)
	return &app{cfg: cfg, log: log}, nil
}

// decodeLedger reads the raw ledger file.
func decodeLedger(path string) (*pnl.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := pnl.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("ledger %q: %w", path, err)
	}
	return l, nil
}

// decodeMarket reads and merges market data files, later files win.
func decodeMarket(paths []string) (*pnl.MarketData, error) {
	m := pnl.NewMarketData()
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		data, err := pnl.DecodeMarketData(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("market data %q: %w", path, err)
		}
		m.Merge(data)
	}
	return m, nil
}

// engine returns an engine configured by the application.
func (a *app) engine(market *pnl.MarketData) *pnl.Engine {
	e := pnl.New(a.cfg.Base, market)
	e.ForexLookback = a.cfg.ForexLookback
	e.PriceLookback = a.cfg.PriceLookback
	e.Workers = a.cfg.Workers
	e.Log = a.log
	return e
}

// dayRange resolves the report range.
//
// to defaults to today. from defaults to the window when set, otherwise to
// the first ledger record.
func dayRange(l *pnl.Ledger, from, to string, window int) (date.Range, error) {
	end := date.Today()
	if to != "" {
		d, err := date.Parse(to)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
		end = d
	}
	if from != "" {
		d, err := date.Parse(from)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
		if d.After(end) {
			return date.Range{}, fmt.Errorf("start date %s is after end date %s", d, end)
		}
		return date.Range{From: d, To: end}, nil
	}
	if window > 0 {
		return date.LastDays(window, end), nil
	}
	r, ok := pnl.HistoryRange(l, end)
	if !ok {
		return date.Range{}, errors.New("the ledger is empty")
	}
	return r, nil
}

// compute loads the inputs and runs the engine over [from, to].
func (a *app) compute(ctx context.Context, from, to string, window int) (*pnl.Result, error) {
	raw, err := decodeLedger(a.cfg.Ledger)
	if err != nil {
		return nil, err
	}
	market, err := decodeMarket(a.cfg.Market)
	if err != nil {
		return nil, err
	}
	r, err := dayRange(raw, from, to, window)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("range", r.String()).Str("ledger", a.cfg.Ledger).Msg("computing")
	return a.engine(market).Process(ctx, raw, r.Days())
}

// save persists the result in the configured database.
func (a *app) save(ctx context.Context, res *pnl.Result) (string, error) {
	if a.cfg.Database == "" {
		return "", errors.New("no database configured, use -db or the database key")
	}
	s, err := store.Open(a.cfg.Database, a.log)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.Save(ctx, a.cfg.Base, res)
}
