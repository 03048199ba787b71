package domain

import (
	"encoding/json"
	"time"
)

// PriceRecord represents one cleaned daily price row for a symbol
type PriceRecord struct {
	Symbol string    `json:"symbol" validate:"required"`
	Date   time.Time `json:"date" validate:"required"`
	Open   float64   `json:"open"`
	High   float64   `json:"high" validate:"gtefield=Low"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume" validate:"min=0"`
}

// IsValid checks the invariants every cleaned record must hold
func (r PriceRecord) IsValid() bool {
	return r.Symbol != "" && !r.Date.IsZero() && r.High >= r.Low
}

// PriceTable is the cleaned dataset in input row order
type PriceTable struct {
	Records []PriceRecord `json:"records"`
}

// NewPriceTable creates a table holding a copy of records
func NewPriceTable(records []PriceRecord) *PriceTable {
	cp := make([]PriceRecord, len(records))
	copy(cp, records)
	return &PriceTable{Records: cp}
}

// Len returns the number of records
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Symbols returns the distinct symbols in first-seen order
func (t *PriceTable) Symbols() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var symbols []string
	for _, r := range t.Records {
		if !seen[r.Symbol] {
			seen[r.Symbol] = true
			symbols = append(symbols, r.Symbol)
		}
	}
	return symbols
}

// EnrichedRecord is a PriceRecord with its derived columns attached
type EnrichedRecord struct {
	PriceRecord
	PercentChange float64      `json:"percent_change"` // (close-open)/open*100
	Weekday       time.Weekday `json:"weekday"`
	Volatility    float64      `json:"volatility"` // high-low
}

// NewEnrichedRecord derives the enriched columns of r.
// A zero open yields a zero percent change.
func NewEnrichedRecord(r PriceRecord) EnrichedRecord {
	var pct float64
	if r.Open != 0 {
		pct = (r.Close - r.Open) / r.Open * 100
	}
	return EnrichedRecord{
		PriceRecord:   r,
		PercentChange: pct,
		Weekday:       r.Date.Weekday(),
		Volatility:    r.High - r.Low,
	}
}

// MarshalJSON writes the weekday by name
func (r EnrichedRecord) MarshalJSON() ([]byte, error) {
	type plain EnrichedRecord
	return json.Marshal(struct {
		plain
		Weekday string `json:"weekday"`
	}{plain(r), r.Weekday.String()})
}

// EnrichedTable is an immutable, row-ordered table of enriched records.
// Rows for one symbol can be fetched without rescanning the whole table.
type EnrichedTable struct {
	rows     []EnrichedRecord
	symbols  []string
	bySymbol map[string][]int
}

// NewEnrichedTable builds an immutable table from rows, keeping their order
func NewEnrichedTable(rows []EnrichedRecord) *EnrichedTable {
	t := &EnrichedTable{
		rows:     make([]EnrichedRecord, len(rows)),
		bySymbol: make(map[string][]int),
	}
	copy(t.rows, rows)
	for i, r := range t.rows {
		if _, ok := t.bySymbol[r.Symbol]; !ok {
			t.symbols = append(t.symbols, r.Symbol)
		}
		t.bySymbol[r.Symbol] = append(t.bySymbol[r.Symbol], i)
	}
	return t
}

// Len returns the number of rows
func (t *EnrichedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns the i-th row by value
func (t *EnrichedTable) Row(i int) EnrichedRecord {
	return t.rows[i]
}

// Rows returns a copy of all rows in input order
func (t *EnrichedTable) Rows() []EnrichedRecord {
	if t == nil {
		return nil
	}
	cp := make([]EnrichedRecord, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Symbols returns the distinct symbols in first-seen order
func (t *EnrichedTable) Symbols() []string {
	if t == nil {
		return nil
	}
	cp := make([]string, len(t.symbols))
	copy(cp, t.symbols)
	return cp
}

// SymbolRows returns the rows of one symbol in input order
func (t *EnrichedTable) SymbolRows(symbol string) []EnrichedRecord {
	if t == nil {
		return nil
	}
	idx := t.bySymbol[symbol]
	rows := make([]EnrichedRecord, 0, len(idx))
	for _, i := range idx {
		rows = append(rows, t.rows[i])
	}
	return rows
}

// HasSymbol reports whether the table contains rows for symbol
func (t *EnrichedTable) HasSymbol(symbol string) bool {
	if t == nil {
		return false
	}
	_, ok := t.bySymbol[symbol]
	return ok
}

// LoadStats summarizes what happened while cleaning the raw dataset
type LoadStats struct {
	Source         string   `json:"source"`
	Sheet          string   `json:"sheet,omitempty"`
	Columns        []string `json:"columns"`
	RowsRead       int      `json:"rows_read"`
	RowsKept       int      `json:"rows_kept"`
	RowsIncomplete int      `json:"rows_incomplete"` // missing or unparseable field
	RowsInvalid    int      `json:"rows_invalid"`    // high < low
}

// RowsDropped returns the total number of discarded rows
func (s LoadStats) RowsDropped() int {
	return s.RowsIncomplete + s.RowsInvalid
}

// ColumnStats holds describe()-style statistics for one numeric column
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// DatasetProfile is the inspection of the raw dataset before cleaning
type DatasetProfile struct {
	Columns    []string       `json:"columns"`
	Rows       int            `json:"rows"`
	Head       [][]string     `json:"head"`
	Tail       [][]string     `json:"tail"`
	Duplicates int            `json:"duplicates"`
	NullCounts map[string]int `json:"null_counts"`
	Describe   []ColumnStats  `json:"describe"`
}
