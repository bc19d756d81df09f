package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "pnl.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var days = date.Range{From: date.MustParse("2024-01-01"), To: date.MustParse("2024-01-03")}

// compute runs the engine over days on a two symbols portfolio, without MSFT
// when withMSFT is false.
func compute(t *testing.T, withMSFT bool) *pnl.Result {
	t.Helper()
	eur := func(v float64) pnl.Money { return pnl.M(v, "EUR") }
	txs := []pnl.Transaction{
		pnl.NewBuy(days.From, "AAPL", pnl.Q(10), eur(1000), eur(0)),
		pnl.NewSell(days.To, "AAPL", pnl.Q(4), eur(480), eur(1)),
	}
	if withMSFT {
		txs = append(txs, pnl.NewBuy(days.From, "MSFT", pnl.Q(1), eur(300), eur(0)))
	}
	ledger := pnl.NewLedger(txs, []pnl.CashFlow{pnl.NewDeposit(days.From, eur(2000))})

	m := pnl.NewMarketData()
	for i, c := range []int64{100, 105, 110} {
		m.SetPrice("AAPL", days.From.Add(i), pnl.Bar{Close: decimal.NewFromInt(c)})
		m.SetPrice("MSFT", days.From.Add(i), pnl.Bar{Close: decimal.NewFromInt(300 + c)})
	}
	res, err := pnl.New("EUR", m).Process(context.Background(), ledger, days.Days())
	require.NoError(t, err)
	return res
}

func TestOpen_Schema(t *testing.T) {
	s := newTestStore(t)
	rows, err := s.conn.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())
	for _, table := range []string{"runs", "positions", "totals", "invested"} {
		assert.True(t, found[table], table)
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	res := compute(t, true)

	runID, err := s.Save(ctx, "EUR", res)
	require.NoError(t, err)
	assert.Len(t, runID, 26, "a ULID")

	totals, err := s.Totals(ctx, days)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	for i, got := range totals {
		want := res.Totals[i]
		assert.Equal(t, want.Date, got.Date)
		assert.True(t, want.TotalValue.Equal(got.TotalValue), "value on %s", got.Date)
		assert.True(t, want.TotalCost.Equal(got.TotalCost), "cost on %s", got.Date)
		assert.True(t, want.TotalRealizedPL.Equal(got.TotalRealizedPL), "realized on %s", got.Date)
		assert.True(t, want.TotalPLPercentage.Equal(got.TotalPLPercentage), "percentage on %s", got.Date)
	}

	positions, err := s.Positions(ctx, days.To)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, runID, positions[0].RunID)
	var record map[string]any
	require.NoError(t, json.Unmarshal(positions[0].Record, &record))
	assert.Equal(t, "AAPL", record["symbol"])
	assert.Contains(t, record, "realized")

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, days.From, runs[0].From)
	assert.Equal(t, days.To, runs[0].To)
	assert.Equal(t, 3, runs[0].Days)
	assert.WithinDuration(t, time.Now(), runs[0].CreatedAt, time.Minute)
}

func TestSave_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Save(ctx, "EUR", compute(t, true))
	require.NoError(t, err)
	before, err := s.Positions(ctx, days.To)
	require.NoError(t, err)

	second, err := s.Save(ctx, "EUR", compute(t, true))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second, "run ids sort by creation")

	after, err := s.Positions(ctx, days.To)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range after {
		assert.Equal(t, before[i].UID, after[i].UID, "uid survives the upsert")
		assert.JSONEq(t, string(before[i].Record), string(after[i].Record))
		assert.Equal(t, second, after[i].RunID)
	}

	var count int
	require.NoError(t, s.conn.QueryRow(`SELECT COUNT(*) FROM totals`).Scan(&count))
	assert.Equal(t, 3, count, "no duplicate day")

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "latest first")
}

func TestSave_RemovedPosition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Save(ctx, "EUR", compute(t, true))
	require.NoError(t, err)
	_, err = s.Save(ctx, "EUR", compute(t, false))
	require.NoError(t, err)

	positions, err := s.Positions(ctx, days.From)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "AAPL", positions[0].Symbol)
}

func TestSave_Empty(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(context.Background(), "EUR", &pnl.Result{})
	assert.Error(t, err)

	totals, err := s.Totals(context.Background(), days)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

// TestSave_Window saves a whole history then its last two days only: the
// dividends saved by the second run continue the ones of the first.
func TestSave_Window(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	eur := func(v float64) pnl.Money { return pnl.M(v, "EUR") }
	from, today := date.MustParse("2024-01-01"), date.MustParse("2024-01-06")
	ledger := pnl.NewLedger([]pnl.Transaction{
		pnl.NewBuy(from, "AAPL", pnl.Q(10), eur(1000), eur(0)),
	}, nil)
	m := pnl.NewMarketData()
	for i := range 5 {
		bar := pnl.Bar{Close: decimal.NewFromInt(100)}
		if i == 1 {
			bar.Dividend = decimal.NewFromInt(1)
		}
		m.SetPrice("AAPL", from.Add(i), bar)
	}
	e := pnl.New("EUR", m)

	for _, r := range []date.Range{date.AllHistory(from, today), date.LastDays(2, today)} {
		res, err := e.Process(ctx, ledger, r.Days())
		require.NoError(t, err)
		_, err = s.Save(ctx, "EUR", res)
		require.NoError(t, err)
	}

	totals, err := s.Totals(ctx, date.AllHistory(from, today))
	require.NoError(t, err)
	require.Len(t, totals, 6)
	prev := eur(0)
	for _, tot := range totals {
		assert.True(t, tot.TotalDividends.GreaterThanOrEqual(prev), "dividends decrease on %s", tot.Date)
		prev = tot.TotalDividends
	}
	assert.True(t, totals[4].TotalDividends.Equal(eur(10)), "got %s on 2024-01-05", totals[4].TotalDividends)
	assert.True(t, totals[5].TotalDividends.Equal(eur(10)), "got %s on 2024-01-06", totals[5].TotalDividends)
}
