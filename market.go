package pnl

import (
	"slices"

	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// Default bounds of the backward day search.
const (
	DefaultForexLookback = 100
	DefaultPriceLookback = 30
)

// Bar is one day of market data. Forex bars only use the OHLC fields, their
// Close is the value of one unit of the currency in the base currency.
type Bar struct {
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   decimal.Decimal `json:"volume"`
	Dividend decimal.Decimal `json:"dividend"`
}

// MarketData holds the daily bars of securities (by symbol) and of currencies
// (by currency code). The engine never modifies it.
type MarketData struct {
	prices map[string]*date.History[Bar]
	forex  map[string]*date.History[Bar]
}

// NewMarketData returns a new empty market data collection.
func NewMarketData() *MarketData {
	return &MarketData{
		prices: make(map[string]*date.History[Bar]),
		forex:  make(map[string]*date.History[Bar]),
	}
}

// SetPrice records the bar of a security on a given day.
func (m *MarketData) SetPrice(symbol string, on date.Date, bar Bar) {
	h, ok := m.prices[symbol]
	if !ok {
		h = new(date.History[Bar])
		m.prices[symbol] = h
	}
	h.Append(on, bar)
}

// SetForex records the bar of a currency on a given day.
func (m *MarketData) SetForex(currency string, on date.Date, bar Bar) {
	h, ok := m.forex[currency]
	if !ok {
		h = new(date.History[Bar])
		m.forex[currency] = h
	}
	h.Append(on, bar)
}

// Merge copies every bar of o into m. On a day present in both, o wins.
func (m *MarketData) Merge(o *MarketData) {
	for symbol, h := range o.prices {
		for on, bar := range h.Values() {
			m.SetPrice(symbol, on, bar)
		}
	}
	for currency, h := range o.forex {
		for on, bar := range h.Values() {
			m.SetForex(currency, on, bar)
		}
	}
}

// Symbols returns the symbols with price data, sorted.
func (m *MarketData) Symbols() []string {
	s := make([]string, 0, len(m.prices))
	for k := range m.prices {
		s = append(s, k)
	}
	slices.Sort(s)
	return s
}

// Currencies returns the currencies with forex data, sorted.
func (m *MarketData) Currencies() []string {
	s := make([]string, 0, len(m.forex))
	for k := range m.forex {
		s = append(s, k)
	}
	slices.Sort(s)
	return s
}

// priceSeries returns the history of a symbol, nil if unknown.
func (m *MarketData) priceSeries(symbol string) *date.History[Bar] {
	if m == nil {
		return nil
	}
	return m.prices[symbol]
}

// forexSeries returns the history of a currency, nil if unknown.
func (m *MarketData) forexSeries(currency string) *date.History[Bar] {
	if m == nil {
		return nil
	}
	return m.forex[currency]
}

// lookup is the outcome of a bounded backward search: either found, with the
// bar and the number of days shifted back, or not found. last is the day of
// the most recent bar before the search start, zero if there is none.
type lookup struct {
	bar   Bar
	on    date.Date // effective day of the bar
	shift int
	found bool
	last  date.Date
}

// search looks for a bar on day 'from', then the day before, and so on, for at
// most 'attempts' days. A nil history is never found.
func search(h *date.History[Bar], from date.Date, attempts int) lookup {
	on, bar, ok := h.ValueAsOf(from)
	if !ok {
		return lookup{}
	}
	shift := from.Sub(on)
	if shift >= attempts {
		return lookup{last: on}
	}
	return lookup{bar: bar, on: on, shift: shift, found: true, last: on}
}
