package pnl

import (
	"encoding/json"
	"io"
)

// MarshalJSON implements the json.Marshaler interface for Realized.
func (r Realized) MarshalJSON() ([]byte, error) {
	var w object
	w.set("quantity", r.Quantity).
		set("cost_per_share_buy", r.BuyCostPerShare).
		set("cost_per_share_sell", r.SellCostPerShare).
		set("transaction_cost", r.TransactionCost).
		set("pl", r.PL).
		set("currency", r.Currency)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Unrealized.
func (u Unrealized) MarshalJSON() ([]byte, error) {
	var w object
	w.set("quantity", u.Quantity).
		set("cost_per_share", u.CostPerShare).
		set("total_cost", u.TotalCost).
		set("average_fx_rate", u.AverageFxRate.Round(jsonPrecision)).
		set("transaction_cost", u.TransactionCost).
		set("currency", u.Currency)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Valuation.
func (v Valuation) MarshalJSON() ([]byte, error) {
	var w object
	w.set("price_date", v.PriceDate).
		set("forex_date", v.ForexDate).
		set("open", v.Open).
		set("high", v.High).
		set("low", v.Low).
		set("close", v.Close).
		set("volume", v.Volume).
		set("forex_rate", v.ForexRate.Round(jsonPrecision)).
		set("total_value", v.TotalValue).
		set("dividend", v.Dividend).
		set("total_dividends", v.TotalDividends)
	return w.MarshalJSON()
}

// MarshalJSON flattens the valuation into the position object.
func (p DailyPosition) MarshalJSON() ([]byte, error) {
	var w object
	w.set("date", p.Date).
		set("symbol", p.Symbol).
		setNonZero("realized", p.Realized).
		setNonZero("unrealized", p.Unrealized)
	if p.Valuation != nil {
		w.inline(p.Valuation)
	}
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for DailyTotal.
func (t DailyTotal) MarshalJSON() ([]byte, error) {
	var w object
	w.set("date", t.Date).
		set("total_cost", t.TotalCost).
		set("total_value", t.TotalValue).
		set("total_invested", t.TotalInvested).
		set("total_pl", t.TotalPL).
		set("total_pl_percentage", t.TotalPLPercentage).
		set("total_dividends", t.TotalDividends).
		set("transaction_cost", t.TransactionCost).
		set("total_realized_pl", t.TotalRealizedPL)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for DailyInvested.
func (d DailyInvested) MarshalJSON() ([]byte, error) {
	var w object
	w.set("date", d.Date).
		set("net_flow", d.NetFlow).
		set("total_invested", d.TotalInvested)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Result.
func (r Result) MarshalJSON() ([]byte, error) {
	var w object
	w.set("stocks_held", nonNil(r.StocksHeld)).
		set("totals", nonNil(r.Totals)).
		set("invested", nonNil(r.Invested))
	return w.MarshalJSON()
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// EncodeResult writes the result as indented JSON.
func EncodeResult(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
