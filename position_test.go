package pnl

import (
	"testing"
)

func mergeAt(t *testing.T, on string, symbol string, txs ...Transaction) (DailyPosition, bool) {
	t.Helper()
	m, ok := MatchLots(symbol, txs)
	if !ok {
		return DailyPosition{}, false
	}
	return MergePosition(day(on), "EUR", m)
}

func TestMergePosition_PartialClose(t *testing.T) {
	p, ok := mergeAt(t, "2024-01-03", "AAPL",
		buy("2024-01-01", "AAPL", 10, 1000),
		sell("2024-01-03", "AAPL", 4, 480),
	)
	if !ok {
		t.Fatal("MergePosition() ok = false, want true")
	}
	if p.Date != day("2024-01-03") {
		t.Errorf("Date = %s, want 2024-01-03", p.Date)
	}
	if p.Realized == nil || p.Unrealized == nil {
		t.Fatalf("MergePosition() = %+v, want realized and unrealized parts", p)
	}
	assertQuantity(t, "Realized.Quantity", p.Realized.Quantity, 4)
	assertMoney(t, "Realized.BuyCostPerShare", p.Realized.BuyCostPerShare, EUR(100))
	assertMoney(t, "Realized.SellCostPerShare", p.Realized.SellCostPerShare, EUR(120))
	assertMoney(t, "Realized.PL", p.Realized.PL, EUR(80))

	assertQuantity(t, "Unrealized.Quantity", p.Unrealized.Quantity, 6)
	assertMoney(t, "Unrealized.CostPerShare", p.Unrealized.CostPerShare, EUR(100))
	assertMoney(t, "Unrealized.TotalCost", p.Unrealized.TotalCost, EUR(600))
	assertDecimal(t, "Unrealized.AverageFxRate", p.Unrealized.AverageFxRate, 1)
}

func TestMergePosition_FullClose(t *testing.T) {
	p, ok := mergeAt(t, "2024-01-02", "AAPL",
		buy("2024-01-01", "AAPL", 10, 1000),
		sell("2024-01-02", "AAPL", 10, 1200),
	)
	if !ok {
		t.Fatal("MergePosition() ok = false, want true")
	}
	if p.Realized == nil {
		t.Fatal("Realized = nil, want the closed quantity")
	}
	assertQuantity(t, "Realized.Quantity", p.Realized.Quantity, 10)
	assertMoney(t, "Realized.PL", p.Realized.PL, EUR(200))
	if p.Unrealized != nil || p.Valuation != nil {
		t.Errorf("MergePosition() = %+v, want no open part", p)
	}
}

func TestMergePosition_OpenOnly(t *testing.T) {
	p, ok := mergeAt(t, "2024-01-02", "AAPL",
		buy("2024-01-01", "AAPL", 10, 1000),
		buy("2024-01-02", "AAPL", 10, 1200),
	)
	if !ok {
		t.Fatal("MergePosition() ok = false, want true")
	}
	if p.Realized != nil {
		t.Errorf("Realized = %+v, want nil", p.Realized)
	}
	if p.Unrealized == nil {
		t.Fatal("Unrealized = nil, want the open lots")
	}
	assertQuantity(t, "Unrealized.Quantity", p.Unrealized.Quantity, 20)
	// weighted average of the open lots
	assertMoney(t, "Unrealized.CostPerShare", p.Unrealized.CostPerShare, EUR(110))
	assertMoney(t, "Unrealized.TotalCost", p.Unrealized.TotalCost, EUR(2200))
}

func TestMergePosition_Fees(t *testing.T) {
	b := normalized(NewBuy(day("2024-01-01"), "AAPL", Q(10), EUR(1000), EUR(2)))
	s := normalized(NewSell(day("2024-01-02"), "AAPL", Q(4), EUR(480), EUR(1)))
	p, ok := mergeAt(t, "2024-01-02", "AAPL", b, s)
	if !ok {
		t.Fatal("MergePosition() ok = false, want true")
	}

	// the consumed slice carries the buy fee.
	assertMoney(t, "Realized.TransactionCost", p.Realized.TransactionCost, EUR(3))
	assertMoney(t, "Realized.PL", p.Realized.PL, EUR(77))
	assertMoney(t, "Unrealized.TransactionCost", p.Unrealized.TransactionCost, EUR(0))
}

func TestMergePosition_ForexAverage(t *testing.T) {
	b1 := normalized(NewBuy(day("2024-01-01"), "AAPL", Q(10), USD(1000), USD(0)))
	b1.ForexRate = dec(0.9)
	b2 := normalized(NewBuy(day("2024-01-02"), "AAPL", Q(30), USD(3000), USD(0)))
	b2.ForexRate = dec(0.8)

	m, ok := MatchLots("AAPL", []Transaction{b1, b2})
	if !ok {
		t.Fatal("MatchLots() ok = false, want true")
	}
	p, ok := MergePosition(day("2024-01-02"), "USD", m)
	if !ok {
		t.Fatal("MergePosition() ok = false, want true")
	}
	if got := p.Unrealized.Currency; got != "USD" {
		t.Errorf("Unrealized.Currency = %q, want USD", got)
	}
	// (0.9*10 + 0.8*30) / 40
	assertDecimal(t, "Unrealized.AverageFxRate", p.Unrealized.AverageFxRate, 0.825)
}

func TestMergePosition_SellsOnly(t *testing.T) {
	if _, ok := mergeAt(t, "2024-01-02", "AAPL", sell("2024-01-01", "AAPL", 5, 500)); ok {
		t.Error("MergePosition() ok = true, want false")
	}
}
