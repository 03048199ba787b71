package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "sp500cli/internal/errors"
	"sp500cli/pkg/contracts/domain"
)

// Column names every dataset must provide, after normalization
const (
	ColSymbol = "symbol"
	ColDate   = "date"
	ColOpen   = "open"
	ColHigh   = "high"
	ColLow    = "low"
	ColClose  = "close"
	ColVolume = "volume"
)

// RequiredColumns lists the columns in canonical order
var RequiredColumns = []string{ColSymbol, ColDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// numericColumns are the columns summarized by Profile
var numericColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

// RawTable is a dataset as read from disk, before any cleaning.
// Header names are normalized and every row has len(Header) cells.
type RawTable struct {
	Source string
	Sheet  string
	Header []string
	Rows   [][]string
}

// Index returns the position of column name, or -1
func (r *RawTable) Index(name string) int {
	for i, h := range r.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// LoadOptions controls how a dataset file is read
type LoadOptions struct {
	// Sheet selects the worksheet of an xlsx file. Empty means the first sheet.
	Sheet string
}

// Loader reads price datasets and turns them into cleaned tables
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader logging to logger
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With("component", "loader")}
}

// LoadFile reads and cleans the dataset at path
func (l *Loader) LoadFile(ctx context.Context, path string, opts LoadOptions) (*domain.PriceTable, *domain.LoadStats, error) {
	raw, err := ReadRawTable(path, opts.Sheet)
	if err != nil {
		return nil, nil, err
	}
	return l.Clean(ctx, raw)
}

// ReadRawTable reads an .xlsx or .csv file into a RawTable
func ReadRawTable(path, sheet string) (*RawTable, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("dataset file").WithContext("path", path)
		}
		return nil, apperrors.NewParsingError("failed to stat dataset", err).WithContext("path", path)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, sheet, err = readXLSX(path, sheet)
	case ".csv":
		rows, err = readCSV(path)
		sheet = ""
	default:
		return nil, apperrors.NewValidationError("unsupported dataset format", nil).
			WithContext("path", path)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read dataset", err).WithContext("path", path)
	}

	return newRawTable(path, sheet, rows)
}

func readXLSX(path, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, sheet, fmt.Errorf("sheet %q not found", sheet)
	}

	// Raw values keep dates as serial numbers instead of the display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, sheet, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, sheet, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func newRawTable(path, sheet string, rows [][]string) (*RawTable, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, apperrors.NewParsingError("dataset has no header row", nil).WithContext("path", path)
	}

	header := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		header[i] = NormalizeColumnName(h)
	}

	raw := &RawTable{Source: path, Sheet: sheet, Header: header}
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		cells := make([]string, len(header))
		for i := range cells {
			if i < len(row) {
				cells[i] = strings.TrimSpace(row[i])
			}
		}
		raw.Rows = append(raw.Rows, cells)
	}

	for _, col := range RequiredColumns {
		if raw.Index(col) < 0 {
			return nil, apperrors.NewParsingError(fmt.Sprintf("missing required column %q", col), nil).
				WithContext("path", path).
				WithContext("column", col)
		}
	}

	return raw, nil
}

// NormalizeColumnName trims, lower-cases and strips BOM or zero-width characters
func NormalizeColumnName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '\ufeff', '\u200b', '\u200c', '\u200d':
			return -1
		}
		return r
	}, name)
	return strings.ToLower(strings.TrimSpace(name))
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Clean converts raw rows to price records.
// Rows with a missing or unparseable field and rows with high < low are dropped.
func (l *Loader) Clean(ctx context.Context, raw *RawTable) (*domain.PriceTable, *domain.LoadStats, error) {
	idx := make(map[string]int, len(RequiredColumns))
	for _, col := range RequiredColumns {
		i := raw.Index(col)
		if i < 0 {
			return nil, nil, apperrors.NewParsingError(fmt.Sprintf("missing required column %q", col), nil).
				WithContext("column", col)
		}
		idx[col] = i
	}

	stats := &domain.LoadStats{
		Source:   raw.Source,
		Sheet:    raw.Sheet,
		Columns:  append([]string(nil), raw.Header...),
		RowsRead: len(raw.Rows),
	}

	records := make([]domain.PriceRecord, 0, len(raw.Rows))
	for n, row := range raw.Rows {
		if n%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		rec, err := parseRecord(row, idx)
		if err != nil {
			stats.RowsIncomplete++
			l.logger.Debug("Dropping incomplete row",
				slog.Int("row", n+2),
				slog.String("error", err.Error()))
			continue
		}
		if !rec.IsValid() || rec.Volume < 0 {
			stats.RowsInvalid++
			l.logger.Debug("Dropping invalid row",
				slog.Int("row", n+2),
				slog.String("symbol", rec.Symbol),
				slog.Float64("high", rec.High),
				slog.Float64("low", rec.Low))
			continue
		}
		records = append(records, rec)
	}
	stats.RowsKept = len(records)

	if stats.RowsDropped() > 0 {
		l.logger.WarnContext(ctx, "Dropped rows while cleaning dataset",
			slog.String("source", raw.Source),
			slog.Int("incomplete", stats.RowsIncomplete),
			slog.Int("invalid", stats.RowsInvalid))
	}
	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", raw.Source),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("rows_kept", stats.RowsKept))

	return &domain.PriceTable{Records: records}, stats, nil
}

func parseRecord(row []string, idx map[string]int) (domain.PriceRecord, error) {
	var rec domain.PriceRecord
	var err error

	rec.Symbol = strings.TrimSpace(row[idx[ColSymbol]])
	if rec.Symbol == "" {
		return rec, fmt.Errorf("empty symbol")
	}
	if rec.Date, err = ParseDate(row[idx[ColDate]]); err != nil {
		return rec, err
	}
	if rec.Open, err = ParseNumber(row[idx[ColOpen]]); err != nil {
		return rec, fmt.Errorf("open: %w", err)
	}
	if rec.High, err = ParseNumber(row[idx[ColHigh]]); err != nil {
		return rec, fmt.Errorf("high: %w", err)
	}
	if rec.Low, err = ParseNumber(row[idx[ColLow]]); err != nil {
		return rec, fmt.Errorf("low: %w", err)
	}
	if rec.Close, err = ParseNumber(row[idx[ColClose]]); err != nil {
		return rec, fmt.Errorf("close: %w", err)
	}
	if rec.Volume, err = ParseVolume(row[idx[ColVolume]]); err != nil {
		return rec, fmt.Errorf("volume: %w", err)
	}
	return rec, nil
}

// ParseNumber parses a decimal cell, allowing thousands separators
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// ParseVolume parses an integral volume; float cells such as "1500.0" are rounded
func ParseVolume(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	f = math.Round(f)
	// float64(math.MaxInt64) rounds up to 2^63, itself out of range
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("volume %q out of range", s)
	}
	return int64(f), nil
}

// ParseDate parses an Excel serial number or one of the supported text layouts.
// The result is midnight UTC of the calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial %q: %w", s, err)
		}
		return truncateDate(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
