// Package valuation reconstructs the historical and current value, cost and
// profit profile of a multi-asset, multi-currency investment portfolio from
// daily market prices and an irregular, multi-source transaction log.
//
// The core functionalities include:
//   - Currency Normalization: converting any monetary amount between
//     currencies through a date-indexed exchange-rate table, including an
//     identity pair so every conversion follows the same code path.
//   - Transaction Merging: loading per-broker transaction files with
//     source-specific column semantics, normalizing payments and fees into a
//     single analysis currency at the date of each transaction, and aligning
//     them with forward-filled daily price series into one unified,
//     date-indexed event table.
//   - Valuation: a single-pass engine deriving, for every date, per-asset
//     holdings, value, cost and profit, plus portfolio-level value, cost,
//     profit and drawdown from the running peak.
//   - Status Reporting: extracting the most recent valuation row and
//     aggregating asset values into configured groups (e.g. asset classes).
//
// The engine is synchronous and deterministic: it operates on materialized
// in-memory tables, performs no I/O of its own, and either produces a
// complete valuation or fails with a typed error identifying the offending
// rate, column, date or asset. Acquisition of market data, parsing of broker
// files and CSV exports are collaborator concerns, kept in the edges of this
// package and in the `pval` command-line tool.
package valuation
