package pnl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ledgerLine is a specialized struct holding every field a ledger line may have.
type ledgerLine struct {
	Command  string          `json:"command"`
	Date     date.Date       `json:"date"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Fee      decimal.Decimal `json:"fee"`
	Currency string          `json:"currency"`
	Memo     string          `json:"memo"`
}

// DecodeLedger decodes transactions from a stream of JSONL data from an io.Reader,
// decodes each line into the appropriate record, and returns a sorted Ledger.
//
// Values are not validated here, see Normalize.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var (
		txs   []Transaction
		flows []CashFlow
	)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var l ledgerLine
		if err := json.Unmarshal(lineBytes, &l); err != nil {
			return nil, &InvalidLedgerError{Line: line, Reason: err.Error()}
		}

		switch l.Command {
		case string(Buy), string(Sell):
			txs = append(txs, Transaction{
				Symbol:   l.Symbol,
				Date:     l.Date,
				Type:     TxType(l.Command),
				Quantity: Q(l.Quantity),
				Cost:     M(l.Amount, l.Currency),
				Fee:      M(l.Fee, l.Currency),
				Currency: l.Currency,
				Memo:     l.Memo,
				seq:      line,
			})
		case string(Deposit), string(Withdrawal):
			flows = append(flows, CashFlow{
				Date:   l.Date,
				Type:   FlowType(l.Command),
				Amount: M(l.Amount, l.Currency),
				Memo:   l.Memo,
				seq:    line,
			})
		default:
			return nil, invalidf(line, "unknown command %q", l.Command)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ledger: %w", err)
	}
	return NewLedger(txs, flows), nil
}

// EncodeLedger writes the ledger as JSONL, one record per line, in chronological order.
// Costs are written as stored: call it on a raw ledger to round-trip the input.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, tx := range l.Transactions() {
		var o object
		o.set("command", tx.Type).
			set("date", tx.Date).
			set("symbol", tx.Symbol).
			set("quantity", tx.Quantity).
			set("amount", tx.Cost)
		if !tx.Fee.IsZero() {
			o.set("fee", tx.Fee)
		}
		o.set("currency", tx.Cost.Currency()).
			setNonZero("memo", tx.Memo)
		if err := writeLine(w, &o); err != nil {
			return err
		}
	}
	for _, f := range l.Flows() {
		var o object
		o.set("command", f.Type).
			set("date", f.Date).
			set("amount", f.Amount).
			setNonZero("currency", f.Amount.Currency()).
			setNonZero("memo", f.Memo)
		if err := writeLine(w, &o); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, o *object) error {
	b, err := o.MarshalJSON()
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
