package analytics

import "errors"

var (
	// ErrInsufficientData is returned when a sample is too small for the statistic
	ErrInsufficientData = errors.New("insufficient data")
	// ErrZeroVariance is returned when the t-test standard error is zero
	ErrZeroVariance = errors.New("zero variance")
	// ErrEmptyTable is returned when an analysis needs rows and the table has none
	ErrEmptyTable = errors.New("empty table")
	// ErrUnknownSymbol is returned when a requested symbol has no rows in the table
	ErrUnknownSymbol = errors.New("symbol not in dataset")
)
