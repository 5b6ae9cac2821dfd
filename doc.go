// Package brokertx converts brokerage exports and statement PDFs into the
// ACB transaction CSV format used for capital-gains cost basis tracking.
//
// The package holds the canonical transaction record model shared by the
// parsers under questrade/ and etrade/, and the helpers they need to
// normalize amounts and currencies. The cmd/ package exposes the pipeline
// as subcommands of the acbconv binary.
package brokertx
