package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sp500cli/internal/config"
	"sp500cli/pkg/contracts/domain"
)

// EnrichedFileName is the CSV holding the enriched dataset
const EnrichedFileName = "enriched_prices"

// CSVWriter provides CSV export functionality.
// Relative paths are written under the configured CSV directory.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger.With("component", "csv_writer")}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSimpleCSV writes a CSV file with headers, records and a BOM
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteTable writes t to <csv dir>/<t.Name>.csv and returns the path
func (w *CSVWriter) WriteTable(t Table) (string, error) {
	path := w.paths.CSVPath(t.Name)
	if err := w.WriteSimpleCSV(path, t.Headers, t.StringRows()); err != nil {
		return "", fmt.Errorf("write %s: %w", t.Name, err)
	}
	return path, nil
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// WriteEnriched streams every enriched row to the enriched dataset CSV
func (w *CSVWriter) WriteEnriched(table *domain.EnrichedTable) (string, error) {
	path := w.paths.CSVPath(EnrichedFileName)
	sw, err := w.CreateStreamWriter(path, []string{
		"symbol", "date", "open", "high", "low", "close", "volume",
		"percent_change", "weekday", "volatility",
	})
	if err != nil {
		return "", err
	}

	for i := 0; i < table.Len(); i++ {
		r := table.Row(i)
		rec := []string{
			r.Symbol,
			formatDate(r.Date),
			formatFloat(r.Open, RatioPlaces),
			formatFloat(r.High, RatioPlaces),
			formatFloat(r.Low, RatioPlaces),
			formatFloat(r.Close, RatioPlaces),
			formatInt(r.Volume),
			formatFloat(r.PercentChange, RatioPlaces),
			r.Weekday.String(),
			formatFloat(r.Volatility, RatioPlaces),
		}
		if err := sw.WriteRecord(rec); err != nil {
			sw.Close()
			return "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := sw.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// resolvePath returns absolute paths unchanged and puts relative ones in the CSV directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.paths.CSVDir, filePath)
}
