package pnl

import (
	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// Lot is an open slice of a Buy: what is left of it after previous sells.
type Lot struct {
	Symbol       string
	Date         date.Date // acquisition date
	Quantity     Quantity  // remaining quantity
	CostPerShare Money
	ForexRate    decimal.Decimal
	Fee          Money
	Currency     string
}

// Cost returns the cost of the remaining quantity.
func (l Lot) Cost() Money { return l.CostPerShare.Mul(l.Quantity) }

func newLot(tx Transaction) Lot {
	return Lot{
		Symbol:       tx.Symbol,
		Date:         tx.Date,
		Quantity:     tx.Quantity,
		CostPerShare: tx.CostPerShare,
		ForexRate:    tx.ForexRate,
		Fee:          tx.Fee,
		Currency:     tx.Currency,
	}
}

// splitLot cuts q shares out of l. The taken part carries the lot fee, the
// rest keeps the cost per share and forex rate with a zero fee.
func splitLot(l Lot, q Quantity) (taken, rest Lot) {
	taken, rest = l, l
	taken.Quantity = q
	rest.Quantity = l.Quantity.Sub(q)
	rest.Fee = M(0, l.Fee.Currency())
	return taken, rest
}

// lotQueue is a FIFO of lots. Lots are never removed from the backing slice,
// consumption moves the head index forward.
type lotQueue struct {
	lots []Lot
	head int
}

func (q *lotQueue) push(l Lot) { q.lots = append(q.lots, l) }

// open returns the lots not yet consumed.
func (q *lotQueue) open() []Lot { return q.lots[q.head:] }

// consume takes quantity shares from the oldest lots and returns the consumed
// slices. It stops when the queue is empty.
func (q *lotQueue) consume(quantity Quantity) []Lot {
	var consumed []Lot
	for quantity.IsPositive() && q.head < len(q.lots) {
		current := q.lots[q.head]
		if current.Quantity.GreaterThan(quantity) {
			taken, rest := splitLot(current, quantity)
			consumed = append(consumed, taken)
			q.lots[q.head] = rest
			return consumed
		}
		consumed = append(consumed, current)
		quantity = quantity.Sub(current.Quantity)
		q.head++
	}
	return consumed
}

// Match is the partition of one symbol's history into its realized and
// unrealized parts.
type Match struct {
	Symbol   string
	Realized []Lot         // buy slices closed by the sells
	Sells    []Transaction // every sell, all realized
	Open     []Lot         // unrealized lots, oldest first
}

// MatchLots partitions the cumulative transactions of one symbol.
//
// Sells without any buy are dropped: the symbol has no position. When the
// sells cover every buy the whole history is realized. Otherwise buy lots are
// consumed in ledger order, the lot crossing zero is split.
func MatchLots(symbol string, txs []Transaction) (Match, bool) {
	m := Match{Symbol: symbol}
	var queue lotQueue
	var bought, sold Quantity
	for _, tx := range txs {
		if tx.Symbol != symbol {
			continue
		}
		switch tx.Type {
		case Buy:
			queue.push(newLot(tx))
			bought = bought.Add(tx.Quantity)
		case Sell:
			m.Sells = append(m.Sells, tx)
			sold = sold.Add(tx.Quantity)
		}
	}

	switch {
	case len(queue.lots) == 0:
		return Match{}, false
	case len(m.Sells) == 0:
		m.Open = queue.open()
	case sold.GreaterThanOrEqual(bought):
		m.Realized = queue.consume(bought)
	default:
		m.Realized = queue.consume(sold)
		m.Open = queue.open()
	}
	return m, true
}
