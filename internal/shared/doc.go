// Package shared holds code used across the internal packages that belongs to
// no single layer.
//
// The testutil subpackage provides the test helpers: a buffered slog handler
// with assertions on captured records, and builders for price records,
// enriched tables and dataset workbooks.
//
//	logger, handler := testutil.NewTestLogger(t)
//	table := testutil.SampleTable()
package shared
