package dataprocessing

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"sp500cli/internal/analytics"
	"sp500cli/pkg/contracts/domain"
)

// ProfileSampleRows is the number of rows shown in the head and tail samples
const ProfileSampleRows = 5

// Profile inspects the raw dataset before cleaning: shape, samples,
// duplicate rows, empty cells per column and summary statistics of
// the numeric price columns.
func Profile(raw *RawTable) domain.DatasetProfile {
	p := domain.DatasetProfile{
		Columns:    append([]string(nil), raw.Header...),
		Rows:       len(raw.Rows),
		NullCounts: make(map[string]int, len(raw.Header)),
	}

	headN := min(ProfileSampleRows, len(raw.Rows))
	p.Head = copyRows(raw.Rows[:headN])
	p.Tail = copyRows(raw.Rows[len(raw.Rows)-headN:])

	seen := make(map[string]bool, len(raw.Rows))
	for _, row := range raw.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			p.Duplicates++
		} else {
			seen[key] = true
		}
	}

	for i, col := range raw.Header {
		nulls := 0
		for _, row := range raw.Rows {
			if row[i] == "" {
				nulls++
			}
		}
		p.NullCounts[col] = nulls
	}

	for _, col := range numericColumns {
		i := raw.Index(col)
		if i < 0 {
			continue
		}
		var values []float64
		for _, row := range raw.Rows {
			if v, err := ParseNumber(row[i]); err == nil {
				values = append(values, v)
			}
		}
		p.Describe = append(p.Describe, Describe(col, values))
	}

	return p
}

// Describe computes count, mean, sample std, min, quartiles and max of values
func Describe(column string, values []float64) domain.ColumnStats {
	cs := domain.ColumnStats{Column: column, Count: len(values)}
	if len(values) == 0 {
		return cs
	}

	cs.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		cs.Std = stat.StdDev(values, nil)
	}
	cs.Min, _ = analytics.Percentile(values, 0)
	cs.P25, _ = analytics.Percentile(values, 25)
	cs.P50, _ = analytics.Percentile(values, 50)
	cs.P75, _ = analytics.Percentile(values, 75)
	cs.Max, _ = analytics.Percentile(values, 100)
	return cs
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
