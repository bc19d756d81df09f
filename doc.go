// Package pnl reconstructs the daily history of a stock portfolio from its
// ledger and computes its profit and loss. It is stateless and deterministic:
// the same ledger and market data always produce the same history.
//
// The pipeline runs in this order:
//   - Normalization: each transaction is validated and converted into the base
//     currency with the forex rate of its day, or of the closest day before.
//   - Expansion: for every requested day, the ledger prefix dated on or before
//     that day is selected.
//   - Lot matching: per symbol, sells consume buy lots in FIFO order, splitting
//     the lot that crosses zero, giving a realized and an unrealized part.
//   - Enrichment: open positions are valued with the close of the day, falling
//     back on previous days for week-ends and holidays, within a bound.
//   - Aggregation: positions are summed into daily totals, together with the
//     net invested capital and the dividends received so far.
//
// Engine drives the pipeline. Ledgers and market data are read and written by
// DecodeLedger, DecodeMarketData and their encoders, and results by EncodeResult.
package pnl
