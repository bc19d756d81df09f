package pnl

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Normalize validates a raw ledger and converts every transaction into the base
// currency.
//
// The forex rate of a foreign currency is the close of its forex bar on the
// trade date, or on the closest day before it, searched back for at most
// lookback days. The returned ledger is a new one, l is left untouched.
func Normalize(l *Ledger, market *MarketData, base string, lookback int) (*Ledger, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, fmt.Errorf("invalid base currency: %w", err)
	}
	if l.Normalized() {
		if l.base != base {
			return nil, fmt.Errorf("ledger already normalized in %s, not %s", l.base, base)
		}
		return l, nil
	}
	if lookback <= 0 {
		lookback = DefaultForexLookback
	}

	symbolCurrency := make(map[string]string)
	txs := make([]Transaction, len(l.transactions))
	for i, tx := range l.transactions {
		if err := tx.validate(); err != nil {
			return nil, err
		}
		if cur, ok := symbolCurrency[tx.Symbol]; ok && cur != tx.Currency {
			return nil, invalidf(tx.seq, "%s on %s: traded in %s, previously in %s", tx.Symbol, tx.Date, tx.Currency, cur)
		}
		symbolCurrency[tx.Symbol] = tx.Currency

		rate, on := decimal.NewFromInt(1), tx.Date
		if tx.Currency != base {
			res := search(market.forexSeries(tx.Currency), tx.Date, lookback)
			if !res.found || !res.bar.Close.IsPositive() {
				return nil, &MissingMarketDataError{Series: tx.Currency, On: tx.Date, Days: lookback}
			}
			rate, on = res.bar.Close, res.on
		}

		tx.LocalCost = M(tx.Cost.Decimal(), tx.Currency)
		tx.Cost = tx.Cost.Convert(rate, base)
		tx.Fee = tx.Fee.Convert(rate, base)
		tx.ForexRate = rate
		tx.ForexDate = on
		tx.CostPerShare = tx.Cost.Div(tx.Quantity)
		txs[i] = tx
	}

	flows := make([]CashFlow, len(l.flows))
	for i, f := range l.flows {
		if err := f.validate(base); err != nil {
			return nil, err
		}
		f.Amount = M(f.Amount.Decimal(), base)
		flows[i] = f
	}

	return &Ledger{base: base, transactions: txs, flows: flows}, nil
}
