package pnl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// marketFile is the on-disk layout of market data.
//
//	{"prices": {"AAPL": {"2024-01-02": {"open": 1, ...}}}, "forex": {"USD": {"2024-01-02": {"close": 0.91}}}}
type marketFile struct {
	Prices map[string]map[date.Date]Bar `json:"prices"`
	Forex  map[string]map[date.Date]Bar `json:"forex"`
}

// DecodeMarketData reads market data from its JSON representation.
func DecodeMarketData(r io.Reader) (*MarketData, error) {
	var f marketFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("cannot decode market data: %w", err)
	}
	m := NewMarketData()
	for symbol, series := range f.Prices {
		for on, bar := range series {
			m.SetPrice(symbol, on, bar)
		}
	}
	for currency, series := range f.Forex {
		for on, bar := range series {
			m.SetForex(currency, on, bar)
		}
	}
	return m, nil
}

// EncodeMarketData writes market data in its JSON representation.
func EncodeMarketData(w io.Writer, m *MarketData) error {
	f := marketFile{
		Prices: make(map[string]map[date.Date]Bar, len(m.prices)),
		Forex:  make(map[string]map[date.Date]Bar, len(m.forex)),
	}
	for symbol, h := range m.prices {
		f.Prices[symbol] = make(map[date.Date]Bar, h.Len())
		for on, bar := range h.Values() {
			f.Prices[symbol][on] = bar
		}
	}
	for currency, h := range m.forex {
		f.Forex[currency] = make(map[date.Date]Bar, h.Len())
		for on, bar := range h.Values() {
			f.Forex[currency][on] = bar
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// Daily bar provider documents (Alpha Vantage shape).
const (
	pathStockSeries = `$["Time Series (Daily)"]`
	pathStockSymbol = `$["Meta Data"]["2. Symbol"]`
	pathFXSeries    = `$["Time Series FX (Daily)"]`
	pathFXFrom      = `$["Meta Data"]["2. From Symbol"]`
	pathFXTo        = `$["Meta Data"]["3. To Symbol"]`
)

// ImportDailyBars merges a daily-bar provider document into the market data.
//
// Stock documents (TIME_SERIES_DAILY or TIME_SERIES_DAILY_ADJUSTED) are stored
// under their symbol. Forex documents (FX_DAILY) are stored as the value of the
// foreign currency in base: either directly when the quote currency is base, or
// inverted when the from currency is base.
func (m *MarketData) ImportDailyBars(r io.Reader, base string) error {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("cannot decode daily bars: %w", err)
	}

	if series, err := jsonpath.Get(pathStockSeries, doc); err == nil {
		symbol, err := jsonString(pathStockSymbol, doc)
		if err != nil {
			return err
		}
		return eachBar(series, func(on date.Date, bar Bar) { m.SetPrice(symbol, on, bar) })
	}

	series, err := jsonpath.Get(pathFXSeries, doc)
	if err != nil {
		return fmt.Errorf("document has neither %s nor %s", pathStockSeries, pathFXSeries)
	}
	from, err := jsonString(pathFXFrom, doc)
	if err != nil {
		return err
	}
	to, err := jsonString(pathFXTo, doc)
	if err != nil {
		return err
	}
	switch base {
	case to:
		return eachBar(series, func(on date.Date, bar Bar) { m.SetForex(from, on, bar) })
	case from:
		return eachBar(series, func(on date.Date, bar Bar) { m.SetForex(to, on, invert(bar)) })
	default:
		return fmt.Errorf("forex pair %s%s does not involve base currency %s", from, to, base)
	}
}

// jsonString evaluates a jsonpath expected to resolve to a string.
func jsonString(path string, doc any) (string, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("error parsing %q: not a string: %v", path, v)
	}
	return strings.ToUpper(strings.TrimSpace(s)), nil
}

// eachBar decodes a provider series object {"2024-01-02": {"1. open": "1.0", ...}}.
func eachBar(series any, f func(date.Date, Bar)) error {
	obj, ok := series.(map[string]any)
	if !ok {
		return fmt.Errorf("daily series is not an object")
	}
	for day, raw := range obj {
		on, err := date.Parse(day)
		if err != nil {
			return err
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("bar of %s is not an object", day)
		}
		var bar Bar
		for key, value := range fields {
			// keys look like "4. close"
			_, name, _ := strings.Cut(key, " ")
			d, err := providerDecimal(value)
			if err != nil {
				return fmt.Errorf("bar of %s, field %q: %w", day, key, err)
			}
			switch name {
			case "open":
				bar.Open = d
			case "high":
				bar.High = d
			case "low":
				bar.Low = d
			case "close":
				bar.Close = d
			case "volume":
				bar.Volume = d
			case "dividend amount":
				bar.Dividend = d
			}
		}
		f(on, bar)
	}
	return nil
}

func providerDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case string:
		return decimal.NewFromString(t)
	case float64:
		return decimal.NewFromFloat(t), nil
	default:
		return decimal.Zero, fmt.Errorf("unexpected value %v", v)
	}
}

// invert turns a base→foreign quote into a foreign→base one.
func invert(bar Bar) Bar {
	one := decimal.NewFromInt(1)
	inv := func(d decimal.Decimal) decimal.Decimal {
		if d.IsZero() {
			return d
		}
		return one.Div(d)
	}
	// high and low swap when inverted
	return Bar{Open: inv(bar.Open), High: inv(bar.Low), Low: inv(bar.High), Close: inv(bar.Close)}
}
