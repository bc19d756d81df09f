package pnl

import (
	"fmt"

	"github.com/etnz/pnl/date"
)

// MissingMarketDataError is returned when a forex or price lookup exhausted
// its backward search without finding a value.
type MissingMarketDataError struct {
	Series string    // symbol or currency
	On     date.Date // day the lookup started from
	Days   int       // number of days searched
}

func (e *MissingMarketDataError) Error() string {
	if e.Days <= 1 {
		return fmt.Sprintf("no market data for %s on %s", e.Series, e.On)
	}
	return fmt.Sprintf("no market data for %s on %s or in the %d days before", e.Series, e.On, e.Days-1)
}

// StaleMarketDataError is returned when the enrichment fallback search reached
// its cap: the last known value is too old to be used.
type StaleMarketDataError struct {
	Symbol string
	On     date.Date
	Cap    int
	Last   date.Date // day of the last known value, zero if there is none
}

func (e *StaleMarketDataError) Error() string {
	msg := fmt.Sprintf("market data for %s on %s is stale: nothing in the last %d days", e.Symbol, e.On, e.Cap)
	if !e.Last.IsZero() {
		msg += fmt.Sprintf(", last value on %s", e.Last)
	}
	return msg
}

// InvalidLedgerError reports a malformed ledger entry.
type InvalidLedgerError struct {
	Line   int // 1-based position in the ledger, 0 when unknown
	Reason string
}

func (e *InvalidLedgerError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid ledger entry #%d: %s", e.Line, e.Reason)
	}
	return "invalid ledger entry: " + e.Reason
}

func invalidf(line int, format string, args ...any) error {
	return &InvalidLedgerError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
