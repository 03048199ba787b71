// Package config provides centralized configuration management for the analytics CLI.
// It handles loading configuration from multiple sources, validation, and resolution
// of report paths.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. Default values (the 2014-2017 S&P 500 study)
//  2. YAML configuration file
//  3. .env file in the working directory
//  4. Environment variables
//  5. Command line flags (applied by cmd/analyze)
//
// # Environment Variables
//
// All environment variables follow the pattern SPX_<SECTION>_<FIELD>:
//
//	SPX_ANALYSIS_INPUT_FILE=data/prices.xlsx
//	SPX_ANALYSIS_VAR_SYMBOLS=AAPL,MSFT
//	SPX_REPORT_OUTPUT_DIR=out
//	SPX_LOGGING_LEVEL=debug
//
// # Validation
//
// Validate checks struct tags with go-playground/validator and the cross-field
// rules the tags cannot express (start date before end date).
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
