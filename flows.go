package pnl

import (
	"github.com/etnz/pnl/date"
)

// DailyInvested is the net invested capital on one day.
type DailyInvested struct {
	Date          date.Date
	NetFlow       Money // deposits minus withdrawals of that day
	TotalInvested Money // deposits minus withdrawals since inception
}

// MergeFlows returns the signed net amount of the flows dated on day.
//
// Flows of the same type are first summed, then a deposit counts positive, a
// withdrawal negative, and a day with both yields deposit - withdrawal. It
// returns false when no flow happened that day.
func MergeFlows(on date.Date, flows []CashFlow) (Money, bool) {
	var deposit, withdrawal Money
	var deposits, withdrawals int
	for _, f := range flows {
		if f.Date != on {
			continue
		}
		switch f.Type {
		case Deposit:
			deposit = deposit.Add(f.Amount)
			deposits++
		case Withdrawal:
			withdrawal = withdrawal.Add(f.Amount)
			withdrawals++
		}
	}
	switch {
	case deposits > 0 && withdrawals > 0:
		return deposit.Sub(withdrawal), true
	case deposits > 0:
		return deposit, true
	case withdrawals > 0:
		return withdrawal.Neg(), true
	default:
		return Money{}, false
	}
}

// Invested computes the net invested capital of each expanded day from its
// flow prefix.
func Invested(base string, days []Day) []DailyInvested {
	zero := M(0, base)
	res := make([]DailyInvested, len(days))
	for i, d := range days {
		total := zero
		for _, f := range d.Flows {
			switch f.Type {
			case Deposit:
				total = total.Add(f.Amount)
			case Withdrawal:
				total = total.Sub(f.Amount)
			}
		}
		res[i] = DailyInvested{Date: d.On, NetFlow: zero, TotalInvested: total}
		if net, ok := MergeFlows(d.On, d.Flows); ok {
			res[i].NetFlow = zero.Add(net)
		}
	}
	return res
}
