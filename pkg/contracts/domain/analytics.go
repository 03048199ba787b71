package domain

import (
	"encoding/json"
	"time"

	"github.com/guregu/null/v6"
)

// AnalysisName identifies one of the analytics computed per run
type AnalysisName string

const (
	AnalysisTopEvents  AnalysisName = "top_trading_events"
	AnalysisWeekday    AnalysisName = "weekday_volume"
	AnalysisVolatility AnalysisName = "volatility_leaders"
	AnalysisROI        AnalysisName = "roi_ranking"
	AnalysisVaR        AnalysisName = "value_at_risk"
	AnalysisTTest      AnalysisName = "returns_ttest"
)

// AllAnalyses lists every analysis in presentation order
var AllAnalyses = []AnalysisName{
	AnalysisTopEvents,
	AnalysisWeekday,
	AnalysisVolatility,
	AnalysisROI,
	AnalysisVaR,
	AnalysisTTest,
}

// TradingEvent is the largest intraday move of a symbol
type TradingEvent struct {
	Symbol        string    `json:"symbol"`
	Date          time.Time `json:"date"`
	Open          float64   `json:"open"`
	Close         float64   `json:"close"`
	PercentChange float64   `json:"percent_change"`
}

// WeekdayTotal is the summed volume of one weekday.
// Volume is null when no row fell on that weekday.
type WeekdayTotal struct {
	Weekday time.Weekday `json:"weekday"`
	Volume  null.Int     `json:"volume"`
}

// MarshalJSON writes the weekday by name
func (d WeekdayTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Weekday string   `json:"weekday"`
		Volume  null.Int `json:"volume"`
	}{d.Weekday.String(), d.Volume})
}

// WeekdayVolume is the total volume per trading weekday, Monday first
type WeekdayVolume struct {
	Days               []WeekdayTotal `json:"days"`
	Highest            null.String    `json:"highest"`
	Lowest             null.String    `json:"lowest"`
	WeekendRowsDropped int            `json:"weekend_rows_dropped"`
}

// Total sums the non-null weekday volumes
func (w WeekdayVolume) Total() int64 {
	var total int64
	for _, d := range w.Days {
		if d.Volume.Valid {
			total += d.Volume.Int64
		}
	}
	return total
}

// Lookup returns the total for a weekday
func (w WeekdayVolume) Lookup(day time.Weekday) (null.Int, bool) {
	for _, d := range w.Days {
		if d.Weekday == day {
			return d.Volume, true
		}
	}
	return null.Int{}, false
}

// VolatilityEvent is the widest high-low spread of a symbol
type VolatilityEvent struct {
	Symbol     string    `json:"symbol"`
	Date       time.Time `json:"date"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Volatility float64   `json:"volatility"`
}

// VolatilityPoint is one daily spread of a top volatile symbol
type VolatilityPoint struct {
	Symbol     string    `json:"symbol"`
	Date       time.Time `json:"date"`
	Volatility float64   `json:"volatility"`
}

// VolatilityRanking ranks symbols by their widest daily spread
type VolatilityRanking struct {
	Ranked       []VolatilityEvent `json:"ranked"`
	TopN         int               `json:"top_n"`
	TopSymbols   []string          `json:"top_symbols"`
	Distribution []VolatilityPoint `json:"-"`
}

// Top returns the first TopN ranked events
func (v VolatilityRanking) Top() []VolatilityEvent {
	if v.TopN <= 0 || v.TopN >= len(v.Ranked) {
		return v.Ranked
	}
	return v.Ranked[:v.TopN]
}

// ROIEntry is the holding-period return of one symbol
type ROIEntry struct {
	Symbol    string  `json:"symbol"`
	StartOpen float64 `json:"start_open"`
	EndClose  float64 `json:"end_close"`
	ROI       float64 `json:"roi"` // percent
}

// ROIRanking holds symbols sorted by ROI, highest first
type ROIRanking struct {
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
	Entries      []ROIEntry `json:"entries"`
	StartSymbols int        `json:"start_symbols"`
	EndSymbols   int        `json:"end_symbols"`
	Excluded     []string   `json:"excluded,omitempty"`
}

// Top returns up to n entries
func (r ROIRanking) Top(n int) []ROIEntry {
	if n <= 0 || n >= len(r.Entries) {
		return r.Entries
	}
	return r.Entries[:n]
}

// Lookup returns the ROI of symbol
func (r ROIRanking) Lookup(symbol string) (float64, bool) {
	for _, e := range r.Entries {
		if e.Symbol == symbol {
			return e.ROI, true
		}
	}
	return 0, false
}

// VaREntry is the historical VaR of one symbol
type VaREntry struct {
	Symbol       string  `json:"symbol"`
	VaR          float64 `json:"var"`
	Observations int     `json:"observations"`
}

// VaRSkip records a symbol VaR could not be computed for
type VaRSkip struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// VaRResult holds VaR values in the requested symbol order
type VaRResult struct {
	Confidence float64    `json:"confidence"`
	Entries    []VaREntry `json:"entries"`
	Skipped    []VaRSkip  `json:"skipped,omitempty"`
}

// Values returns the symbol to VaR mapping
func (v VaRResult) Values() map[string]float64 {
	m := make(map[string]float64, len(v.Entries))
	for _, e := range v.Entries {
		m[e.Symbol] = e.VaR
	}
	return m
}

// TTestResult is the outcome of Welch's two-sample t-test
type TTestResult struct {
	SymbolA          string    `json:"symbol_a"`
	SymbolB          string    `json:"symbol_b"`
	TStatistic       float64   `json:"t_statistic"`
	PValue           float64   `json:"p_value"`
	DegreesOfFreedom float64   `json:"degrees_of_freedom"`
	MeanA            float64   `json:"mean_a"`
	MeanB            float64   `json:"mean_b"`
	NA               int       `json:"n_a"`
	NB               int       `json:"n_b"`
	Significant      bool      `json:"significant"`
	ReturnsA         []float64 `json:"-"`
	ReturnsB         []float64 `json:"-"`
}

// AnalysisFailure records an analysis that did not produce a result
type AnalysisFailure struct {
	Analysis AnalysisName `json:"analysis"`
	Error    string       `json:"error"`
}

// AnalysisReport collects the results of one run.
// A nil result means the analysis failed; see Failures.
type AnalysisReport struct {
	RunID         string             `json:"run_id"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Rows          int                `json:"rows"`
	Symbols       int                `json:"symbols"`
	TopEvents     []TradingEvent     `json:"top_events"`
	WeekdayVolume *WeekdayVolume     `json:"weekday_volume"`
	Volatility    *VolatilityRanking `json:"volatility"`
	ROI           *ROIRanking        `json:"roi"`
	VaR           *VaRResult         `json:"var"`
	TTest         *TTestResult       `json:"ttest"`
	Failures      []AnalysisFailure  `json:"failures,omitempty"`
}

// Failed reports whether the named analysis failed
func (r *AnalysisReport) Failed(name AnalysisName) bool {
	for _, f := range r.Failures {
		if f.Analysis == name {
			return true
		}
	}
	return false
}
