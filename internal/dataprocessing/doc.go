// Package dataprocessing reads S&P 500 daily price datasets and prepares them
// for analysis.
//
// # Pipeline
//
//	xlsx/csv file → ReadRawTable → Profile (inspection)
//	                             → Loader.Clean → PriceTable → Enrich → EnrichedTable
//
// ReadRawTable normalizes column names and fails with a parsing error when one of
// symbol, date, open, high, low, close or volume is missing. Clean drops rows with
// an empty or unparseable field and rows whose high is below their low, and
// reports the counts in domain.LoadStats.
//
// Enrich never modifies its input. It returns a new immutable table whose rows
// carry the percent change, weekday and volatility columns.
package dataprocessing
