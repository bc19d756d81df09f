package pnl

import (
	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// Realized is the closed part of a position: the buy quantity matched by sells.
type Realized struct {
	Quantity         Quantity // matched quantity, min(bought, sold)
	BuyCostPerShare  Money
	SellCostPerShare Money
	TransactionCost  Money
	PL               Money // (sell - buy) * quantity - transaction cost
	Currency         string
}

// Unrealized is the open part of a position.
type Unrealized struct {
	Quantity        Quantity
	CostPerShare    Money
	TotalCost       Money
	AverageFxRate   decimal.Decimal // quantity weighted forex rate of the open lots
	TransactionCost Money           // fees of the open lots
	Currency        string
}

// Valuation is the market data attached to an open position, in base currency.
type Valuation struct {
	PriceDate      date.Date // day of the price actually used
	ForexDate      date.Date // day of the forex rate actually used
	Open           Money
	High           Money
	Low            Money
	Close          Money
	Volume         decimal.Decimal
	ForexRate      decimal.Decimal
	TotalValue     Money
	Dividend       Money // dividend received that day
	TotalDividends Money // dividends received since the first ledger record
}

// DailyPosition is the state of one symbol on one day.
type DailyPosition struct {
	Date       date.Date
	Symbol     string
	Realized   *Realized
	Unrealized *Unrealized
	Valuation  *Valuation // nil when nothing is held
}

// side aggregates quantities and costs of one side of a position.
type side struct {
	quantity Quantity
	cost     Money
	fee      Money
	fxQty    decimal.Decimal // Σ forex rate × quantity
}

func (s *side) addLot(l Lot) {
	s.quantity = s.quantity.Add(l.Quantity)
	s.cost = s.cost.Add(l.Cost())
	s.fee = s.fee.Add(l.Fee)
	s.fxQty = s.fxQty.Add(l.ForexRate.Mul(l.Quantity.d))
}

func (s *side) addSell(tx Transaction) {
	s.quantity = s.quantity.Add(tx.Quantity)
	s.cost = s.cost.Add(tx.Cost)
	s.fee = s.fee.Add(tx.Fee)
	s.fxQty = s.fxQty.Add(tx.ForexRate.Mul(tx.Quantity.d))
}

// perShare returns cost / quantity, zero for an empty side.
func (s *side) perShare() Money {
	if s.quantity.IsZero() {
		return M(0, s.cost.Currency())
	}
	return s.cost.Div(s.quantity)
}

// MergePosition collapses the buy and sell sides of a match into one position.
//
// The open side nets buys minus sells (the open set only holds buys), a zero
// net is discarded. It returns false when the position is fully closed and
// nothing was ever realized.
func MergePosition(on date.Date, base string, m Match) (DailyPosition, bool) {
	p := DailyPosition{Date: on, Symbol: m.Symbol}
	currency := ""
	if len(m.Open) > 0 {
		currency = m.Open[0].Currency
	} else if len(m.Realized) > 0 {
		currency = m.Realized[0].Currency
	}
	zero := M(0, base)

	if len(m.Sells) > 0 {
		buys, sells := side{cost: zero, fee: zero}, side{cost: zero, fee: zero}
		for _, l := range m.Realized {
			buys.addLot(l)
		}
		for _, tx := range m.Sells {
			sells.addSell(tx)
		}
		matched := MinQ(buys.quantity, sells.quantity)
		buyCPS, sellCPS := buys.perShare(), sells.perShare()
		fees := buys.fee.Add(sells.fee)
		p.Realized = &Realized{
			Quantity:         matched,
			BuyCostPerShare:  buyCPS,
			SellCostPerShare: sellCPS,
			TransactionCost:  fees,
			PL:               sellCPS.Sub(buyCPS).Mul(matched).Sub(fees),
			Currency:         currency,
		}
	}

	open := side{cost: zero, fee: zero}
	for _, l := range m.Open {
		open.addLot(l)
	}
	if net := open.quantity; net.IsPositive() {
		p.Unrealized = &Unrealized{
			Quantity:        net,
			CostPerShare:    open.perShare(),
			TotalCost:       open.cost,
			AverageFxRate:   open.fxQty.Div(net.d),
			TransactionCost: open.fee,
			Currency:        currency,
		}
	}

	if p.Realized == nil && p.Unrealized == nil {
		return DailyPosition{}, false
	}
	return p, true
}
