// Package core provides the business logic for text analysis runs.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
// A run flows through three stages:
//
//   - Normalization: [Normalize] turns raw input into a [Corpus]. Input whose
//     trimmed text starts with "id," is parsed as CSV and the first of the
//     answer, question, text or content columns is joined into one string.
//     Anything else, including CSV that fails to parse, passes through as-is.
//   - Dispatch: [Dispatcher] looks every requested operation up in a
//     [Registry] and runs it against the same corpus. Each operation yields
//     exactly one [Outcome]; failures never affect siblings.
//   - Reporting: [Aggregate] and [WriteTabular] turn outcomes into the
//     response and the downloadable report.
//
// # Capabilities
//
// Operations are registered by name at startup:
//
//	reg := core.NewRegistry()
//	reg.Register("Convert Case", core.Func(strings.ToUpper))
//
// Unknown names are not an error. They produce the placeholder output
// "Processed <name>" with success set.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - REQ001-REQ005: Request errors (malformed body, size, cancellation)
//   - OP001: Operation timeout
//   - AUTH001-AUTH002: Account errors
//   - DB001-DB004: Database errors
//   - RATE001-RATE002: Throttling
package core
