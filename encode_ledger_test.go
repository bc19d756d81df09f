package pnl

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleLedger = `{"command":"buy","date":"2024-01-05","symbol":"AAPL","quantity":10,"amount":1850.5,"fee":1.5,"currency":"USD","memo":"first"}
{"command":"sell","date":"2024-01-09","symbol":"AAPL","quantity":4,"amount":800,"currency":"USD"}
{"command":"buy","date":"2024-01-02","symbol":"MC.PA","quantity":2,"amount":1400,"currency":"EUR"}
{"command":"deposit","date":"2024-01-01","amount":5000,"currency":"EUR"}
{"command":"withdraw","date":"2024-01-10","amount":200}
`

func TestDecodeLedger(t *testing.T) {
	l, err := DecodeLedger(strings.NewReader(sampleLedger))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if l.Normalized() {
		t.Error("Normalized() = true, want false")
	}
	if got := l.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}

	txs := l.Transactions()
	if len(txs) != 3 {
		t.Fatalf("len(Transactions()) = %d, want 3", len(txs))
	}
	if txs[0].Symbol != "MC.PA" {
		t.Errorf("Transactions()[0].Symbol = %q, want MC.PA (sorted by date)", txs[0].Symbol)
	}

	aapl := txs[1]
	if aapl.Type != Buy || aapl.Date != day("2024-01-05") {
		t.Errorf("Transactions()[1] = %s on %s, want buy on 2024-01-05", aapl.Type, aapl.Date)
	}
	assertQuantity(t, "Quantity", aapl.Quantity, 10)
	assertMoney(t, "Cost", aapl.Cost, USD(1850.5))
	assertMoney(t, "Fee", aapl.Fee, USD(1.5))
	if aapl.Currency != "USD" || aapl.Memo != "first" || aapl.seq != 1 {
		t.Errorf("Transactions()[1] currency %q memo %q seq %d, want USD first 1", aapl.Currency, aapl.Memo, aapl.seq)
	}

	if txs[2].Type != Sell {
		t.Errorf("Transactions()[2].Type = %s, want sell", txs[2].Type)
	}
	assertMoney(t, "sell Fee", txs[2].Fee, USD(0))

	flows := l.Flows()
	if len(flows) != 2 {
		t.Fatalf("len(Flows()) = %d, want 2", len(flows))
	}
	if flows[0].Type != Deposit || flows[1].Type != Withdrawal {
		t.Errorf("Flows() types = %s, %s, want deposit, withdraw", flows[0].Type, flows[1].Type)
	}
	assertMoney(t, "deposit", flows[0].Amount, EUR(5000))
	if cur := flows[1].Amount.Currency(); cur != "" {
		t.Errorf("withdrawal currency = %q, want none", cur)
	}

	if got, want := l.Symbols(), []string{"AAPL", "MC.PA"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"syntax", "{\"command\":\"buy\"\n", 1},
		{"unknown command", `{"command":"deposit","date":"2024-01-01","amount":1}` + "\n\n" + `{"command":"dividend","date":"2024-01-02"}`, 3},
		{"bad date", `{"command":"buy","date":"yesterday"}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tt.input))
			var invalid *InvalidLedgerError
			if !errors.As(err, &invalid) {
				t.Fatalf("DecodeLedger() error = %v, want an InvalidLedgerError", err)
			}
			if invalid.Line != tt.line {
				t.Errorf("Line = %d, want %d", invalid.Line, tt.line)
			}
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	l, err := DecodeLedger(strings.NewReader(sampleLedger))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	want := `{"command":"buy","date":"2024-01-02","symbol":"MC.PA","quantity":2,"amount":1400,"currency":"EUR"}
{"command":"buy","date":"2024-01-05","symbol":"AAPL","quantity":10,"amount":1850.5,"fee":1.5,"currency":"USD","memo":"first"}
{"command":"sell","date":"2024-01-09","symbol":"AAPL","quantity":4,"amount":800,"currency":"USD"}
{"command":"deposit","date":"2024-01-01","amount":5000,"currency":"EUR"}
{"command":"withdraw","date":"2024-01-10","amount":200}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeLedger() =\n%s\nwant\n%s", got, want)
	}
}

// TestEncodeLedger_Stable checks that a ledger read back from its encoding
// encodes to the same bytes.
func TestEncodeLedger_Stable(t *testing.T) {
	l, err := DecodeLedger(strings.NewReader(sampleLedger))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	var first bytes.Buffer
	if err := EncodeLedger(&first, l); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	again, err := DecodeLedger(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("DecodeLedger() of the encoding error = %v", err)
	}
	if again.Len() != l.Len() {
		t.Errorf("Len() = %d, want %d", again.Len(), l.Len())
	}
	var second bytes.Buffer
	if err := EncodeLedger(&second, again); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("second encoding differs:\n%s\nwant\n%s", second.Bytes(), first.Bytes())
	}
}
