// Package store persists computed portfolio histories in SQLite.
//
// Records are keyed by day (and symbol for positions): saving the same range
// twice updates the rows in place, their uid is kept.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/date"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store wraps the database connection
type Store struct {
	conn *sql.DB
	path string
	log  zerolog.Logger
	now  func() time.Time
}

// Open creates the database file if needed and applies the schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{
		conn: conn,
		path: path,
		log:  log.With().Str("store", path).Logger(),
		now:  time.Now,
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error { return s.conn.Close() }

// Run describes one Save.
type Run struct {
	ID        string
	CreatedAt time.Time
	Base      string
	From, To  date.Date
	Days      int
}

// Save upserts a result in a single transaction and returns the run id.
//
// Positions of a saved day that the result no longer holds are deleted, so
// that a day always mirrors its latest computation.
func (s *Store) Save(ctx context.Context, base string, res *pnl.Result) (string, error) {
	if len(res.Totals) == 0 {
		return "", errors.New("nothing to save")
	}
	now := s.now()
	runID := newRunID(now)
	first, last := res.Totals[0].Date, res.Totals[len(res.Totals)-1].Date

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, base, first_day, last_day, days) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, now.UTC().Format(time.RFC3339), base, first.String(), last.String(), len(res.Totals),
	); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	if err := savePositions(ctx, tx, runID, res); err != nil {
		return "", err
	}
	if err := saveTotals(ctx, tx, runID, base, res.Totals); err != nil {
		return "", err
	}
	if err := saveInvested(ctx, tx, runID, res.Invested); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run %s: %w", runID, err)
	}

	s.log.Info().
		Str("run", runID).
		Str("from", first.String()).
		Str("to", last.String()).
		Int("positions", len(res.StocksHeld)).
		Msg("result saved")
	return runID, nil
}

func savePositions(ctx context.Context, tx *sql.Tx, runID string, res *pnl.Result) error {
	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO positions (uid, date, symbol, run_id, record)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, symbol) DO UPDATE SET
			run_id = excluded.run_id,
			record = excluded.record
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare position upsert: %w", err)
	}
	defer upsert.Close()

	for _, p := range res.StocksHeld {
		record, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode position %s on %s: %w", p.Symbol, p.Date, err)
		}
		if _, err := upsert.ExecContext(ctx, newUID(), p.Date.String(), p.Symbol, runID, string(record)); err != nil {
			return fmt.Errorf("failed to upsert position %s on %s: %w", p.Symbol, p.Date, err)
		}
	}

	for _, t := range res.Totals {
		if _, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE date = ? AND run_id <> ?`, t.Date.String(), runID); err != nil {
			return fmt.Errorf("failed to delete closed positions on %s: %w", t.Date, err)
		}
	}
	return nil
}

func saveTotals(ctx context.Context, tx *sql.Tx, runID, base string, totals []pnl.DailyTotal) error {
	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO totals (uid, date, run_id, base, total_cost, total_value, total_invested, total_pl,
			total_pl_percentage, total_dividends, transaction_cost, total_realized_pl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			run_id = excluded.run_id,
			base = excluded.base,
			total_cost = excluded.total_cost,
			total_value = excluded.total_value,
			total_invested = excluded.total_invested,
			total_pl = excluded.total_pl,
			total_pl_percentage = excluded.total_pl_percentage,
			total_dividends = excluded.total_dividends,
			transaction_cost = excluded.transaction_cost,
			total_realized_pl = excluded.total_realized_pl
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare totals upsert: %w", err)
	}
	defer upsert.Close()

	for _, t := range totals {
		var pct sql.NullString
		if r, ok := t.TotalPLPercentage.Ratio(); ok {
			pct = sql.NullString{String: r.String(), Valid: true}
		}
		if _, err := upsert.ExecContext(ctx, newUID(), t.Date.String(), runID, base,
			text(t.TotalCost), text(t.TotalValue), text(t.TotalInvested), text(t.TotalPL),
			pct, text(t.TotalDividends), text(t.TransactionCost), text(t.TotalRealizedPL),
		); err != nil {
			return fmt.Errorf("failed to upsert totals on %s: %w", t.Date, err)
		}
	}
	return nil
}

func saveInvested(ctx context.Context, tx *sql.Tx, runID string, invested []pnl.DailyInvested) error {
	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO invested (uid, date, run_id, net_flow, total_invested)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			run_id = excluded.run_id,
			net_flow = excluded.net_flow,
			total_invested = excluded.total_invested
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare invested upsert: %w", err)
	}
	defer upsert.Close()

	for _, d := range invested {
		if _, err := upsert.ExecContext(ctx, newUID(), d.Date.String(), runID, text(d.NetFlow), text(d.TotalInvested)); err != nil {
			return fmt.Errorf("failed to upsert invested on %s: %w", d.Date, err)
		}
	}
	return nil
}

// text stores amounts as exact decimal strings.
func text(m pnl.Money) string { return m.Decimal().String() }

// Totals returns the saved totals of the days in r, oldest first.
func (s *Store) Totals(ctx context.Context, r date.Range) ([]pnl.DailyTotal, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT date, base, total_cost, total_value, total_invested, total_pl,
			total_dividends, transaction_cost, total_realized_pl
		FROM totals WHERE date BETWEEN ? AND ? ORDER BY date`,
		r.From.String(), r.To.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	defer rows.Close()

	var res []pnl.DailyTotal
	for rows.Next() {
		var on, base string
		var amounts [7]string
		if err := rows.Scan(&on, &base, &amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4], &amounts[5], &amounts[6]); err != nil {
			return nil, fmt.Errorf("failed to scan totals: %w", err)
		}
		day, err := date.Parse(on)
		if err != nil {
			return nil, fmt.Errorf("invalid totals date %q: %w", on, err)
		}
		var m [7]pnl.Money
		for i, a := range amounts {
			d, err := decimal.NewFromString(a)
			if err != nil {
				return nil, fmt.Errorf("invalid amount %q on %s: %w", a, on, err)
			}
			m[i] = pnl.M(d, base)
		}
		res = append(res, pnl.DailyTotal{
			Date:              day,
			TotalCost:         m[0],
			TotalValue:        m[1],
			TotalInvested:     m[2],
			TotalPL:           m[3],
			TotalPLPercentage: pnl.NewPercent(m[3], m[1]),
			TotalDividends:    m[4],
			TransactionCost:   m[5],
			TotalRealizedPL:   m[6],
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating totals: %w", err)
	}
	return res, nil
}

// Position is a saved position row.
type Position struct {
	UID    string
	Date   date.Date
	Symbol string
	RunID  string
	Record json.RawMessage // the position as encoded in results
}

// Positions returns the saved positions of one day, by symbol.
func (s *Store) Positions(ctx context.Context, on date.Date) ([]Position, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT uid, symbol, run_id, record FROM positions WHERE date = ? ORDER BY symbol`,
		on.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var res []Position
	for rows.Next() {
		p := Position{Date: on}
		var record string
		if err := rows.Scan(&p.UID, &p.Symbol, &p.RunID, &record); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.Record = json.RawMessage(record)
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return res, nil
}

// Runs returns the saved runs, latest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, base, first_day, last_day, days FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var res []Run
	for rows.Next() {
		var r Run
		var from, to string
		if err := rows.Scan(&r.ID, &r.Base, &from, &to, &r.Days); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		var err error
		if r.From, err = date.Parse(from); err != nil {
			return nil, fmt.Errorf("invalid run %s: %w", r.ID, err)
		}
		if r.To, err = date.Parse(to); err != nil {
			return nil, fmt.Errorf("invalid run %s: %w", r.ID, err)
		}
		id, err := ulid.ParseStrict(r.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", r.ID, err)
		}
		r.CreatedAt = ulid.Time(id.Time())
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return res, nil
}
