package config

import "sp500cli/pkg/contracts"

// Application constants for the S&P 500 analytics CLI
const (
	// Application Info
	AppName    = "SP500 Analytics"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (SPX_ANALYSIS_INPUT_FILE, ...)
	EnvPrefix = "SPX"

	// DateLayout is the layout of boundary dates in configuration and reports
	DateLayout = "2006-01-02"

	// Dataset defaults from the 2014-2017 S&P 500 study
	DefaultInputFile     = "data/S&P 500 Stock Prices 2014-2017.xlsx"
	DefaultStartDate     = "2014-01-02"
	DefaultEndDate       = "2017-12-29"
	DefaultVaRConfidence = 0.95
	DefaultTTestSymbolA  = "AAPL"
	DefaultTTestSymbolB  = "MSFT"
	DefaultTopN          = 10
	DefaultConcurrency   = 1
	MaxConcurrency       = 6

	// File Paths
	DefaultOutputDir = "data/reports"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "logs/analyze.log"

	// Report file names inside the output directory
	WorkbookFileName = "sp500_analysis.xlsx"
	SummaryFileName  = "sp500_analysis.json"
	ProfileFileName  = "dataset_profile.csv"
	CSVDirName       = "csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
)

// DefaultVaRSymbols returns the tickers VaR is computed for by default
func DefaultVaRSymbols() []string {
	return []string{"AAPL", "MSFT", "GOOG", "AMZN"}
}
