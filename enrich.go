package pnl

import (
	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// Enricher attaches market data to open positions.
type Enricher struct {
	Market   *MarketData
	Base     string
	Lookback int // maximum number of days searched back, DefaultPriceLookback if <= 0
}

func (e *Enricher) attempts() int {
	if e.Lookback <= 0 {
		return DefaultPriceLookback
	}
	return e.Lookback
}

// Enrich fills the Valuation of a position holding shares. Positions with no
// open quantity are left untouched.
//
// A missing bar on the position date (week-end, holiday) is looked up on the
// previous days. Dividends are only counted on the exact day of the bar, so
// that a bar reused for a week-end does not pay twice. TotalDividends is left
// to the caller, it depends on previous days.
func (e *Enricher) Enrich(p *DailyPosition) error {
	if p.Unrealized == nil {
		return nil
	}
	price, err := e.find(p.Symbol, e.Market.priceSeries(p.Symbol), p)
	if err != nil {
		return err
	}

	rate, forexDate := decimal.NewFromInt(1), p.Date
	if cur := p.Unrealized.Currency; cur != e.Base {
		fx, err := e.find(cur, e.Market.forexSeries(cur), p)
		if err != nil {
			return err
		}
		rate, forexDate = fx.bar.Close, fx.on
	}

	qty := p.Unrealized.Quantity
	bar := price.bar
	v := &Valuation{
		PriceDate:      price.on,
		ForexDate:      forexDate,
		Open:           M(bar.Open.Mul(rate), e.Base),
		High:           M(bar.High.Mul(rate), e.Base),
		Low:            M(bar.Low.Mul(rate), e.Base),
		Close:          M(bar.Close.Mul(rate), e.Base),
		Volume:         bar.Volume,
		ForexRate:      rate,
		Dividend:       M(0, e.Base),
		TotalDividends: M(0, e.Base),
	}
	v.TotalValue = v.Close.Mul(qty)
	if price.shift == 0 && !bar.Dividend.IsZero() {
		v.Dividend = M(bar.Dividend.Mul(rate), e.Base).Mul(qty)
	}
	p.Valuation = v
	return nil
}

// find runs the bounded search for a position. An unknown series is missing
// data, a known series with nothing recent enough is stale.
func (e *Enricher) find(series string, h *date.History[Bar], p *DailyPosition) (lookup, error) {
	if h == nil {
		return lookup{}, &MissingMarketDataError{Series: series, On: p.Date, Days: 1}
	}
	res := search(h, p.Date, e.attempts())
	if !res.found {
		return lookup{}, &StaleMarketDataError{Symbol: series, On: p.Date, Cap: e.attempts(), Last: res.last}
	}
	return res, nil
}
