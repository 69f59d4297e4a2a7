// Package core is the valuation workbook checker.
//
// This package holds all domain logic independent of any transport. It can
// be used by the HTTP server, the CLI, or tests without modification.
//
// # Architecture
//
// The engine is a set of pure functions over an in-memory
// [workbook.Workbook]:
//
//   - Cell rules: [ValidateCell] applies the empty check and the rule
//     selected by the column header (integer, purpose code, value premise
//     code, calendar date).
//   - Orchestration: [ValidateReport] and [ValidateIdentifiers] walk the
//     sheets in a fixed order and return a [Result] with the error list
//     and a [ValidationResults] summary.
//   - Aggregate: [FinalValueSum] and [ReportValueMatches] compare the
//     report value with the asset totals.
//   - Correction: [Annotate] and [Correct] write each error into a copy of
//     the workbook and encode it as xlsx.
//
// Around the engine, [Service] adds the operational pieces: a concurrency
// [Limiter], a run registry with expiry, and a [HistoryStore] backed by
// memory or PostgreSQL.
//
// # Validation Flow
//
//  1. Client calls [Service.Validate] with the uploaded bytes and a [Mode]
//  2. Bytes are decoded; unreadable files fail with workbook.ErrDecode
//  3. The engine validates the workbook; rule violations become
//     [ValidationError] entries, never Go errors
//  4. The run is kept for the retention period so [Service.Corrected] can
//     build the annotated download
//
// # Error Handling
//
// Each [ValidationError] carries a rule code (VAL001-VAL008). Service
// failures are mapped to user-friendly messages using [MapError]:
//
//   - FILE001-FILE004: File errors (size, format, missing, empty)
//   - UPL001-UPL003: Upload errors (busy, cancelled, timeout)
//   - RUN001-RUN003: Run errors (expired, nothing to correct, history)
package core
