package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "sp500cli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// AnalysisConfig contains the dataset location and the analysis literals
type AnalysisConfig struct {
	InputFile     string   `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	Sheet         string   `yaml:"sheet" envconfig:"SHEET"`
	StartDate     string   `yaml:"start_date" envconfig:"START_DATE" validate:"required,datetime=2006-01-02"`
	EndDate       string   `yaml:"end_date" envconfig:"END_DATE" validate:"required,datetime=2006-01-02"`
	VaRSymbols    []string `yaml:"var_symbols" envconfig:"VAR_SYMBOLS" validate:"required,min=1,dive,required"`
	VaRConfidence float64  `yaml:"var_confidence" envconfig:"VAR_CONFIDENCE" validate:"gt=0,lt=1"`
	TTestSymbolA  string   `yaml:"ttest_symbol_a" envconfig:"TTEST_SYMBOL_A" validate:"required"`
	TTestSymbolB  string   `yaml:"ttest_symbol_b" envconfig:"TTEST_SYMBOL_B" validate:"required,nefield=TTestSymbolA"`
	TopN          int      `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	Concurrency   int      `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"min=1,max=6"`
}

// ReportConfig controls which report artifacts are written
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED"`
	Workbook  bool   `yaml:"workbook" envconfig:"WORKBOOK"`
	CSV       bool   `yaml:"csv" envconfig:"CSV"`
	JSON      bool   `yaml:"json" envconfig:"JSON"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED"`
	Environment string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceFile   string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			InputFile:     DefaultInputFile,
			StartDate:     DefaultStartDate,
			EndDate:       DefaultEndDate,
			VaRSymbols:    DefaultVaRSymbols(),
			VaRConfidence: DefaultVaRConfidence,
			TTestSymbolA:  DefaultTTestSymbolA,
			TTestSymbolB:  DefaultTTestSymbolB,
			TopN:          DefaultTopN,
			Concurrency:   DefaultConcurrency,
		},
		Report: ReportConfig{
			OutputDir: DefaultOutputDir,
			Enabled:   true,
			Workbook:  true,
			CSV:       true,
			JSON:      true,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Environment: "development",
			SampleRatio: 1.0,
		},
	}
}

// Load builds the configuration from defaults, the YAML file, a .env file and
// the environment, then validates it. An empty path falls back to SPX_CONFIG and
// the well-known locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile := path
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	// Only variables that are set override; unset ones keep file/default values
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.Analysis.NormalizeSymbols()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv loads a .env file if it exists. Existing variables win.
func loadDotEnv(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(filePath)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Validate checks the configuration
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", describeValidationError(err))
	}

	start, end, err := c.Analysis.Period()
	if err != nil {
		return apperrors.NewConfigError("invalid analysis period", err)
	}
	if !start.Before(end) {
		return apperrors.NewConfigError("start date must be before end date", nil).
			WithContext("start_date", c.Analysis.StartDate).
			WithContext("end_date", c.Analysis.EndDate)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging file path is required for file output", nil)
	}

	return nil
}

// describeValidationError turns validator errors into one readable error
func describeValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// Period parses the ROI boundary dates
func (a AnalysisConfig) Period() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, a.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(DateLayout, a.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end date: %w", err)
	}
	return start, end, nil
}

// NormalizeSymbols trims, upper-cases and de-duplicates the VaR symbols in place
func (a *AnalysisConfig) NormalizeSymbols() {
	seen := make(map[string]bool, len(a.VaRSymbols))
	out := a.VaRSymbols[:0]
	for _, s := range a.VaRSymbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	a.VaRSymbols = out
	a.TTestSymbolA = strings.ToUpper(strings.TrimSpace(a.TTestSymbolA))
	a.TTestSymbolB = strings.ToUpper(strings.TrimSpace(a.TTestSymbolB))
}
