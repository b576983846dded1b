// Package finding provides shared vulnerability finding types used across
// all vantascan attack packages.
//
// Attack packages construct Findings through the oracle's decisions rather
// than declaring their own per-package vulnerability structs, so reporting
// and recording code handles a single canonical shape.
package finding
