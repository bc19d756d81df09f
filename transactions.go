package pnl

import (
	"github.com/etnz/pnl/date"
	"github.com/shopspring/decimal"
)

// TxType identifies the side of a Transaction.
type TxType string

const (
	Buy  TxType = "buy"
	Sell TxType = "sell"
)

// FlowType identifies the direction of a CashFlow.
type FlowType string

const (
	Deposit    FlowType = "deposit"
	Withdrawal FlowType = "withdraw"
)

// Transaction is a Buy or a Sell of a security.
//
// Before normalization Cost and Fee are expressed in Currency. Normalize
// converts them into the base currency and stamps ForexRate, ForexDate,
// LocalCost and CostPerShare.
type Transaction struct {
	Symbol   string
	Date     date.Date
	Type     TxType
	Quantity Quantity
	Cost     Money // total cost of the trade, fee excluded
	Fee      Money // transaction cost
	Currency string
	Memo     string

	LocalCost    Money           // Cost in Currency, set by Normalize
	ForexRate    decimal.Decimal // value of one unit of Currency in the base currency
	ForexDate    date.Date       // day the ForexRate was read from
	CostPerShare Money           // Cost / Quantity in the base currency

	seq int // 1-based position in the ledger as it was read
}

// NewBuy creates a new Buy transaction.
func NewBuy(day date.Date, symbol string, quantity Quantity, cost, fee Money) Transaction {
	return Transaction{Symbol: symbol, Date: day, Type: Buy, Quantity: quantity, Cost: cost, Fee: fee, Currency: cost.Currency()}
}

// NewSell creates a new Sell transaction. Cost holds the proceeds of the sale.
func NewSell(day date.Date, symbol string, quantity Quantity, proceeds, fee Money) Transaction {
	return Transaction{Symbol: symbol, Date: day, Type: Sell, Quantity: quantity, Cost: proceeds, Fee: fee, Currency: proceeds.Currency()}
}

// validate checks the raw fields of the transaction.
func (t Transaction) validate() error {
	switch {
	case t.Symbol == "":
		return invalidf(t.seq, "missing symbol")
	case t.Date.IsZero():
		return invalidf(t.seq, "%s: missing date", t.Symbol)
	case t.Type != Buy && t.Type != Sell:
		return invalidf(t.seq, "%s on %s: unknown transaction type %q", t.Symbol, t.Date, t.Type)
	case !t.Quantity.IsPositive():
		return invalidf(t.seq, "%s on %s: quantity must be positive, got %s", t.Symbol, t.Date, t.Quantity)
	case t.Cost.IsNegative():
		return invalidf(t.seq, "%s on %s: negative cost %s", t.Symbol, t.Date, t.Cost.Decimal())
	case t.Fee.IsNegative():
		return invalidf(t.seq, "%s on %s: negative fee %s", t.Symbol, t.Date, t.Fee.Decimal())
	case t.Currency == "":
		return invalidf(t.seq, "%s on %s: missing currency", t.Symbol, t.Date)
	}
	if err := ValidateCurrency(t.Currency); err != nil {
		return invalidf(t.seq, "%s on %s: %v", t.Symbol, t.Date, err)
	}
	return nil
}

// CashFlow is an external deposit or withdrawal of cash, in the base currency.
type CashFlow struct {
	Date   date.Date
	Type   FlowType
	Amount Money
	Memo   string

	seq int
}

// NewDeposit creates a new Deposit.
func NewDeposit(day date.Date, amount Money) CashFlow {
	return CashFlow{Date: day, Type: Deposit, Amount: amount}
}

// NewWithdrawal creates a new Withdrawal.
func NewWithdrawal(day date.Date, amount Money) CashFlow {
	return CashFlow{Date: day, Type: Withdrawal, Amount: amount}
}

func (f CashFlow) validate(base string) error {
	switch {
	case f.Date.IsZero():
		return invalidf(f.seq, "cash flow: missing date")
	case f.Type != Deposit && f.Type != Withdrawal:
		return invalidf(f.seq, "cash flow on %s: unknown type %q", f.Date, f.Type)
	case !f.Amount.IsPositive():
		return invalidf(f.seq, "%s on %s: amount must be positive, got %s", f.Type, f.Date, f.Amount.Decimal())
	case f.Amount.Currency() != "" && f.Amount.Currency() != base:
		return invalidf(f.seq, "%s on %s: currency %s is not the base currency %s", f.Type, f.Date, f.Amount.Currency(), base)
	}
	return nil
}
