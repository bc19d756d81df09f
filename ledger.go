package pnl

import (
	"slices"
	"sort"

	"github.com/etnz/pnl/date"
)

// Ledger is an immutable, chronologically sorted list of transactions and cash flows.
//
// The sort happens once, when the ledger is built, and is stable: records of
// the same day keep the order in which they were recorded. Accessors return
// read-only views that must not be modified.
type Ledger struct {
	base         string // set once normalized
	transactions []Transaction
	flows        []CashFlow
}

// NewLedger returns a ledger holding a sorted copy of transactions and flows.
func NewLedger(transactions []Transaction, flows []CashFlow) *Ledger {
	l := &Ledger{
		transactions: slices.Clone(transactions),
		flows:        slices.Clone(flows),
	}
	for i := range l.transactions {
		if l.transactions[i].seq == 0 {
			l.transactions[i].seq = i + 1
		}
	}
	for i := range l.flows {
		if l.flows[i].seq == 0 {
			l.flows[i].seq = len(l.transactions) + i + 1
		}
	}
	slices.SortStableFunc(l.transactions, func(a, b Transaction) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(l.flows, func(a, b CashFlow) int { return a.Date.Compare(b.Date) })
	return l
}

// Base returns the base currency, empty until the ledger is normalized.
func (l *Ledger) Base() string { return l.base }

// Normalized reports whether transaction costs are expressed in the base currency.
func (l *Ledger) Normalized() bool { return l.base != "" }

// Transactions returns all the transactions in chronological order.
func (l *Ledger) Transactions() []Transaction { return slices.Clip(l.transactions) }

// Flows returns all the cash flows in chronological order.
func (l *Ledger) Flows() []CashFlow { return slices.Clip(l.flows) }

// Len returns the number of records in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) + len(l.flows) }

// TransactionsAsOf returns the transactions dated on or before day.
func (l *Ledger) TransactionsAsOf(day date.Date) []Transaction {
	n := sort.Search(len(l.transactions), func(i int) bool { return l.transactions[i].Date.After(day) })
	return slices.Clip(l.transactions[:n])
}

// FlowsAsOf returns the cash flows dated on or before day.
func (l *Ledger) FlowsAsOf(day date.Date) []CashFlow {
	n := sort.Search(len(l.flows), func(i int) bool { return l.flows[i].Date.After(day) })
	return slices.Clip(l.flows[:n])
}

// First returns the date of the earliest record, false if the ledger is empty.
func (l *Ledger) First() (date.Date, bool) {
	var first date.Date
	if len(l.transactions) > 0 {
		first = l.transactions[0].Date
	}
	if len(l.flows) > 0 && (first.IsZero() || l.flows[0].Date.Before(first)) {
		first = l.flows[0].Date
	}
	return first, !first.IsZero()
}

// Symbols returns the traded symbols in alphabetical order.
func (l *Ledger) Symbols() []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, tx := range l.transactions {
		if _, ok := seen[tx.Symbol]; !ok {
			seen[tx.Symbol] = struct{}{}
			symbols = append(symbols, tx.Symbol)
		}
	}
	slices.Sort(symbols)
	return symbols
}
