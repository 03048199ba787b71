package exporter

import (
	"strconv"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// Decimal places used for exported values
const (
	PricePlaces   = 2
	PercentPlaces = 4
	RatioPlaces   = 6
)

// round rounds half away from zero to the given number of places
func round(f float64, places int32) float64 {
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

// formatFloat formats f with exactly places decimals
func formatFloat(f float64, places int32) string {
	return decimal.NewFromFloat(f).StringFixed(places)
}

// formatInt formats an int64 value
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatNullInt formats a nullable integer, empty when null
func formatNullInt(n null.Int) string {
	if !n.Valid {
		return ""
	}
	return formatInt(n.Int64)
}

// formatBool formats a boolean value
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// formatDate formats a date as YYYY-MM-DD
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// cellString converts a table cell to its CSV text
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case Num:
		return formatFloat(c.Value, c.Places)
	case int:
		return strconv.Itoa(c)
	case int64:
		return formatInt(c)
	case null.Int:
		return formatNullInt(c)
	case bool:
		return formatBool(c)
	case time.Time:
		return formatDate(c)
	default:
		return ""
	}
}

// Num is a numeric cell with a fixed number of decimals
type Num struct {
	Value  float64
	Places int32
}

// Price, Pct and Ratio build numeric cells for the usual precisions
func Price(v float64) Num { return Num{Value: v, Places: PricePlaces} }
func Pct(v float64) Num   { return Num{Value: v, Places: PercentPlaces} }
func Ratio(v float64) Num { return Num{Value: v, Places: RatioPlaces} }

// Rounded returns the value rounded to its places
func (n Num) Rounded() float64 {
	return round(n.Value, n.Places)
}
