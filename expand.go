package pnl

import "github.com/etnz/pnl/date"

// Day is the cumulative content of the ledger as of one day: every record
// dated on or before On.
type Day struct {
	On           date.Date
	Transactions []Transaction
	Flows        []CashFlow
}

// Expand returns, for each day, the prefix of the ledger up to that day.
//
// Prefixes share the ledger memory and must be treated as read-only.
func Expand(l *Ledger, days []date.Date) []Day {
	res := make([]Day, len(days))
	for i, on := range days {
		res[i] = Day{
			On:           on,
			Transactions: l.TransactionsAsOf(on),
			Flows:        l.FlowsAsOf(on),
		}
	}
	return res
}

// bySymbol groups transactions by symbol, keeping the ledger order within each group.
func bySymbol(txs []Transaction) map[string][]Transaction {
	groups := make(map[string][]Transaction)
	for _, tx := range txs {
		groups[tx.Symbol] = append(groups[tx.Symbol], tx)
	}
	return groups
}
