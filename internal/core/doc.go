// Package core provides the conversion logic behind the CSV converter.
//
// The package is independent of any UI or transport layer. It can be used by
// web handlers, CLI tools, or tests without modification.
//
// # Pipelines
//
// Two pipelines share one result type:
//
//   - Upload: an encoded Parquet payload is decoded, parsed with
//     [ReadParquet] and re-serialized as comma-separated CSV.
//     See [Converter.ConvertUpload].
//   - Fetch: a remote delimited text resource is downloaded through a
//     [Fetcher], parsed with every field kept as text and re-serialized with
//     the requested separator and quoting. See [Converter.ConvertFetch].
//
// Both return a [Result] whose [Outcome] is one of Success, Failure or NoOp.
// Pipelines never return errors: technical failures are logged and turned
// into a Failure carrying a fixed user message.
//
// # Datasets
//
// Every value is text. A [Dataset] keeps column order as first seen in the
// source and guarantees unique column names and rectangular rows.
//
// # Error Handling
//
// Transport errors that happen around a pipeline (oversized bodies, invalid
// form values, a full [ConversionLimiter]) are mapped to user-facing messages
// with [MapError]:
//
//   - REQ001-REQ004: Request errors (form, separator, quoting, size)
//   - CNV001: Conversion capacity exhausted
//   - RATE001: Rate limited
package core
