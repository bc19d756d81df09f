package store

// Schema is applied on every open, it only creates what is missing.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	base       TEXT NOT NULL,
	first_day  TEXT NOT NULL,
	last_day   TEXT NOT NULL,
	days       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	uid    TEXT NOT NULL UNIQUE,
	date   TEXT NOT NULL,
	symbol TEXT NOT NULL,
	run_id TEXT NOT NULL REFERENCES runs(id),
	record TEXT NOT NULL,
	PRIMARY KEY (date, symbol)
);

CREATE TABLE IF NOT EXISTS totals (
	uid                 TEXT NOT NULL UNIQUE,
	date                TEXT PRIMARY KEY,
	run_id              TEXT NOT NULL REFERENCES runs(id),
	base                TEXT NOT NULL,
	total_cost          TEXT NOT NULL,
	total_value         TEXT NOT NULL,
	total_invested      TEXT NOT NULL,
	total_pl            TEXT NOT NULL,
	total_pl_percentage TEXT,
	total_dividends     TEXT NOT NULL,
	transaction_cost    TEXT NOT NULL,
	total_realized_pl   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS invested (
	uid            TEXT NOT NULL UNIQUE,
	date           TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES runs(id),
	net_flow       TEXT NOT NULL,
	total_invested TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_positions_symbol ON positions(symbol, date);
`
