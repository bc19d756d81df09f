package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

// scheduleCmd recomputes and saves the history on a cron schedule.
type scheduleCmd struct {
	cron   string
	window int
	now    bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "recompute and save the portfolio history periodically" }
func (*scheduleCmd) Usage() string {
	return `pnl schedule [-cron <expr>] [-window <days>] [-now]

  Runs until interrupted. On every tick of the cron schedule the ledger and
  market data files are read again, the last days are recomputed and saved
  in the database. Saving a day twice updates it in place.

Usage Examples:
# every weekday at 22:00
$ pnl -db pnl.db schedule -cron "0 22 * * 1-5" -window 30
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cron, "cron", "", "Cron schedule (minute hour dom month dow). Overrides the configuration.")
	f.IntVar(&c.window, "window", -1, "Number of days recomputed, 0 for the whole history. Overrides the configuration.")
	f.BoolVar(&c.now, "now", false, "Also run once immediately.")
}

func (c *scheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.cron != "" {
		a.cfg.Schedule = c.cron
	}
	if c.window >= 0 {
		a.cfg.Window = c.window
	}
	if a.cfg.Database == "" {
		fmt.Fprintf(os.Stderr, "Error: no database configured, use -db or the database key\n")
		return subcommands.ExitUsageError
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cron.PrintfLogger(&a.log)
	scheduler := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	job := func() { a.tick(ctx) }
	if _, err := scheduler.AddFunc(a.cfg.Schedule, job); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", a.cfg.Schedule, err)
		return subcommands.ExitUsageError
	}

	if c.now {
		job()
	}
	scheduler.Start()
	a.log.Info().Str("schedule", a.cfg.Schedule).Int("window", a.cfg.Window).Msg("scheduler started")

	<-ctx.Done()
	<-scheduler.Stop().Done()
	a.log.Info().Msg("scheduler stopped")
	return subcommands.ExitSuccess
}

// tick recomputes the configured window and saves it. Errors are logged, the
// next tick tries again.
func (a *app) tick(ctx context.Context) {
	res, err := a.compute(ctx, "", "", a.cfg.Window)
	if err != nil {
		a.log.Error().Err(err).Msg("scheduled run failed")
		return
	}
	runID, err := a.save(ctx, res)
	if err != nil {
		a.log.Error().Err(err).Msg("cannot save scheduled run")
		return
	}
	a.log.Info().Str("run", runID).Int("days", len(res.Totals)).Msg("scheduled run saved")
}
