package pnl

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/pnl/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result is the complete materialized history computed by the Engine.
type Result struct {
	StocksHeld []DailyPosition
	Totals     []DailyTotal
	Invested   []DailyInvested
}

// Engine reconstructs the daily positions and totals of a portfolio.
//
// It holds no state between runs: the same ledger and market data always
// produce the same Result.
type Engine struct {
	Base          string      // base currency
	Market        *MarketData // read-only
	ForexLookback int         // days searched back when normalizing, DefaultForexLookback if <= 0
	PriceLookback int         // days searched back when valuing, DefaultPriceLookback if <= 0
	Workers       int         // days computed concurrently, 1 if <= 0
	Log           zerolog.Logger
}

// New returns an engine with default bounds and a silent logger.
func New(base string, market *MarketData) *Engine {
	return &Engine{
		Base:          base,
		Market:        market,
		ForexLookback: DefaultForexLookback,
		PriceLookback: DefaultPriceLookback,
		Workers:       1,
		Log:           zerolog.Nop(),
	}
}

// HistoryRange returns the range from the first ledger record to today.
func HistoryRange(l *Ledger, today date.Date) (date.Range, bool) {
	first, ok := l.First()
	if !ok {
		return date.Range{}, false
	}
	return date.AllHistory(first, today), true
}

// Normalize converts a raw ledger into the engine base currency.
func (e *Engine) Normalize(l *Ledger) (*Ledger, error) {
	return Normalize(l, e.Market, e.Base, e.ForexLookback)
}

// Process normalizes a raw ledger and runs the engine on it.
func (e *Engine) Process(ctx context.Context, raw *Ledger, days []date.Date) (*Result, error) {
	l, err := e.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, l, days)
}

// Run computes the positions and totals of every day in days.
//
// Days are sorted and deduplicated first. Any error aborts the whole batch,
// no partial result is returned.
func (e *Engine) Run(ctx context.Context, l *Ledger, days []date.Date) (*Result, error) {
	if !l.Normalized() {
		return nil, fmt.Errorf("ledger is not normalized")
	}
	if l.Base() != e.Base {
		return nil, fmt.Errorf("ledger normalized in %s, engine base is %s", l.Base(), e.Base)
	}
	days = slices.Clone(days)
	slices.SortFunc(days, date.Date.Compare)
	days = slices.Compact(days)

	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}
	enricher := &Enricher{Market: e.Market, Base: e.Base, Lookback: e.PriceLookback}

	expanded := Expand(l, days)
	perDay := make([][]DailyPosition, len(days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, day := range expanded {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			positions, err := e.positions(day, enricher)
			if err != nil {
				return err
			}
			perDay[i] = positions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	paid, err := e.dividendsBetween(l, days, enricher)
	if err != nil {
		return nil, err
	}

	invested := Invested(e.Base, expanded)
	res := &Result{Invested: invested}
	zero := M(0, e.Base)
	running := make(map[string]Money) // dividends received per symbol
	total := zero                     // Σ running
	receive := func(symbol string, amount Money) Money {
		acc, ok := running[symbol]
		if !ok {
			acc = zero
		}
		acc = acc.Add(amount)
		running[symbol] = acc
		total = total.Add(amount)
		return acc
	}
	next := 0
	for i, on := range days {
		for ; next < len(paid) && paid[next].Date.Before(on); next++ {
			receive(paid[next].Symbol, paid[next].Valuation.Dividend)
		}
		positions := perDay[i]
		for _, p := range positions {
			if v := p.Valuation; v != nil {
				v.TotalDividends = receive(p.Symbol, v.Dividend)
			}
		}
		t := Aggregate(on, e.Base, positions, invested[i].TotalInvested, total)
		res.Totals = append(res.Totals, t)
		res.StocksHeld = append(res.StocksHeld, positions...)
		e.Log.Debug().
			Str("date", on.String()).
			Int("positions", len(positions)).
			Str("value", t.TotalValue.Decimal().String()).
			Msg("day computed")
	}

	e.Log.Info().
		Int("days", len(days)).
		Int("transactions", len(l.transactions)).
		Int("positions", len(res.StocksHeld)).
		Msg("portfolio reconstructed")
	return res, nil
}

// dividendsBetween values the dividends paid on days that are not in days,
// from the first ledger record up to the last day. They keep the running
// totals of a partial range equal to the ones of the whole history.
//
// Only the paying symbol is valued on such a day. The result is in date order.
func (e *Engine) dividendsBetween(l *Ledger, days []date.Date, enricher *Enricher) ([]DailyPosition, error) {
	first, ok := l.First()
	if !ok || len(days) == 0 {
		return nil, nil
	}
	last := days[len(days)-1]
	var res []DailyPosition
	for _, symbol := range l.Symbols() {
		for on, bar := range e.Market.priceSeries(symbol).Values() {
			if on.After(last) {
				break
			}
			if on.Before(first) || bar.Dividend.IsZero() {
				continue
			}
			if _, requested := slices.BinarySearchFunc(days, on, date.Date.Compare); requested {
				continue
			}
			txs := bySymbol(l.TransactionsAsOf(on))[symbol]
			positions, err := e.positions(Day{On: on, Transactions: txs}, enricher)
			if err != nil {
				return nil, err
			}
			for _, p := range positions {
				if p.Valuation != nil && !p.Valuation.Dividend.IsZero() {
					res = append(res, p)
				}
			}
		}
	}
	slices.SortStableFunc(res, func(a, b DailyPosition) int { return a.Date.Compare(b.Date) })
	return res, nil
}

// positions computes the positions of one day, symbols in alphabetical order.
func (e *Engine) positions(day Day, enricher *Enricher) ([]DailyPosition, error) {
	groups := bySymbol(day.Transactions)
	symbols := make([]string, 0, len(groups))
	for s := range groups {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)

	var res []DailyPosition
	for _, symbol := range symbols {
		m, ok := MatchLots(symbol, groups[symbol])
		if !ok {
			e.Log.Debug().Str("symbol", symbol).Str("date", day.On.String()).Msg("sells without buys, position dropped")
			continue
		}
		p, ok := MergePosition(day.On, e.Base, m)
		if !ok {
			continue
		}
		if err := enricher.Enrich(&p); err != nil {
			return nil, fmt.Errorf("cannot value %s on %s: %w", symbol, day.On, err)
		}
		res = append(res, p)
	}
	return res, nil
}
