package analytics

import (
	"time"

	"github.com/guregu/null/v6"

	"sp500cli/pkg/contracts/domain"
)

// TradingWeekdays are the days reported by WeekdayVolume, in order
var TradingWeekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// WeekdayVolume sums traded volume by weekday, Monday to Friday.
// Weekend rows are not part of any total and are counted instead.
// A weekday without any row has a null total and is ignored when
// picking the highest and lowest day.
func WeekdayVolume(table *domain.EnrichedTable) domain.WeekdayVolume {
	var (
		totals  = make(map[time.Weekday]int64, len(TradingWeekdays))
		seen    = make(map[time.Weekday]bool, len(TradingWeekdays))
		weekend int
	)

	for i := 0; i < table.Len(); i++ {
		r := table.Row(i)
		if r.Weekday == time.Saturday || r.Weekday == time.Sunday {
			weekend++
			continue
		}
		totals[r.Weekday] += r.Volume
		seen[r.Weekday] = true
	}

	result := domain.WeekdayVolume{
		Days:               make([]domain.WeekdayTotal, 0, len(TradingWeekdays)),
		WeekendRowsDropped: weekend,
	}

	var highest, lowest *domain.WeekdayTotal
	for _, day := range TradingWeekdays {
		total := domain.WeekdayTotal{Weekday: day}
		if seen[day] {
			total.Volume = null.IntFrom(totals[day])
		}
		result.Days = append(result.Days, total)

		if !total.Volume.Valid {
			continue
		}
		if highest == nil || total.Volume.Int64 > highest.Volume.Int64 {
			t := total
			highest = &t
		}
		if lowest == nil || total.Volume.Int64 < lowest.Volume.Int64 {
			t := total
			lowest = &t
		}
	}

	if highest != nil {
		result.Highest = null.StringFrom(highest.Weekday.String())
	}
	if lowest != nil {
		result.Lowest = null.StringFrom(lowest.Weekday.String())
	}
	return result
}
