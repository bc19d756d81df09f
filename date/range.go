package date

import (
	"fmt"
	"iter"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// AllHistory returns the range from the first ledger day up to today.
func AllHistory(first, today Date) Range { return Range{From: first, To: today} }

// LastDays returns the range of the last n days ending today (today included).
func LastDays(n int, today Date) Range {
	if n < 1 {
		n = 1
	}
	return Range{From: today.Add(1 - n), To: today}
}

// Len returns the number of days in the range, 0 if the range is empty.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Sub(r.From) + 1
}

// All iterates over every day of the range in chronological order.
func (r Range) All() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Days returns every day of the range in chronological order.
func (r Range) Days() []Date {
	days := make([]Date, 0, r.Len())
	for d := range r.All() {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
