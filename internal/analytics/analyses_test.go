package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sp500cli/internal/shared/testutil"
)

func TestTopTradingEvents(t *testing.T) {
	t.Run("sample", func(t *testing.T) {
		events := TopTradingEvents(testutil.SampleTable())
		require.Len(t, events, 2)

		assert.Equal(t, "BBB", events[0].Symbol)
		assert.Equal(t, testutil.Day(2), events[0].Date)
		assert.InDelta(t, 14.0, events[0].PercentChange, 1e-9)

		assert.Equal(t, "AAA", events[1].Symbol)
		assert.Equal(t, testutil.Day(2), events[1].Date)
		assert.InDelta(t, -6.481481481481481, events[1].PercentChange, 1e-9)
	})

	t.Run("ties keep first occurrence and order by symbol", func(t *testing.T) {
		table := testutil.Enriched(
			testutil.Price("ZZZ", testutil.Day(0), 100, 110, 90, 110, 1),
			testutil.Price("ZZZ", testutil.Day(1), 100, 110, 90, 90, 1),
			testutil.Price("AAA", testutil.Day(0), 100, 110, 90, 90, 1),
		)
		events := TopTradingEvents(table)
		require.Len(t, events, 2)
		assert.Equal(t, "AAA", events[0].Symbol)
		assert.Equal(t, "ZZZ", events[1].Symbol)
		assert.Equal(t, testutil.Day(0), events[1].Date)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, TopTradingEvents(testutil.Enriched()))
	})
}

func TestWeekdayVolume(t *testing.T) {
	t.Run("sample", func(t *testing.T) {
		w := WeekdayVolume(testutil.SampleTable())
		require.Len(t, w.Days, 5)

		want := map[time.Weekday]int64{
			time.Monday:    3000,
			time.Tuesday:   3600,
			time.Wednesday: 3700,
			time.Thursday:  2900,
		}
		for _, d := range w.Days {
			if v, ok := want[d.Weekday]; ok {
				assert.True(t, d.Volume.Valid, d.Weekday.String())
				assert.Equal(t, v, d.Volume.Int64, d.Weekday.String())
				continue
			}
			assert.Equal(t, time.Friday, d.Weekday)
			assert.False(t, d.Volume.Valid, "absent weekday must be null")
		}

		assert.Equal(t, "Wednesday", w.Highest.String)
		assert.Equal(t, "Thursday", w.Lowest.String)
		assert.Equal(t, int64(13200), w.Total())
		assert.Zero(t, w.WeekendRowsDropped)
	})

	t.Run("weekend rows are dropped", func(t *testing.T) {
		table := testutil.Enriched(
			testutil.Price("AAA", testutil.Day(0), 1, 1, 1, 1, 10),
			testutil.Price("AAA", testutil.Day(5), 1, 1, 1, 1, 1000),
			testutil.Price("AAA", testutil.Day(6), 1, 1, 1, 1, 1000),
		)
		w := WeekdayVolume(table)
		assert.Equal(t, 2, w.WeekendRowsDropped)
		assert.Equal(t, int64(10), w.Total())
		assert.Equal(t, "Monday", w.Highest.String)
		assert.Equal(t, "Monday", w.Lowest.String)
	})

	t.Run("empty", func(t *testing.T) {
		w := WeekdayVolume(testutil.Enriched())
		assert.Len(t, w.Days, 5)
		assert.False(t, w.Highest.Valid)
		assert.False(t, w.Lowest.Valid)
	})
}

func TestVolatilityLeaders(t *testing.T) {
	v := VolatilityLeaders(testutil.SampleTable(), 1)

	require.Len(t, v.Ranked, 2)
	assert.Equal(t, "AAA", v.Ranked[0].Symbol)
	assert.Equal(t, testutil.Day(0), v.Ranked[0].Date, "first of equal maxima")
	assert.InDelta(t, 10.0, v.Ranked[0].Volatility, 1e-9)
	assert.Equal(t, "BBB", v.Ranked[1].Symbol)
	assert.Equal(t, testutil.Day(2), v.Ranked[1].Date)

	assert.Len(t, v.Top(), 1)
	assert.Equal(t, []string{"AAA"}, v.TopSymbols)
	require.Len(t, v.Distribution, 4)
	for _, p := range v.Distribution {
		assert.Equal(t, "AAA", p.Symbol)
	}

	all := VolatilityLeaders(testutil.SampleTable(), 10)
	assert.Len(t, all.Top(), 2)
	assert.Len(t, all.Distribution, 8)

	empty := VolatilityLeaders(testutil.Enriched(), 10)
	assert.Empty(t, empty.Ranked)
	assert.Empty(t, empty.TopSymbols)
}

func TestROI(t *testing.T) {
	t.Run("sample", func(t *testing.T) {
		r := ROI(testutil.SampleTable(), testutil.Day(0), testutil.Day(3))
		require.Len(t, r.Entries, 2)
		assert.Equal(t, "BBB", r.Entries[0].Symbol)
		assert.InDelta(t, 10.0, r.Entries[0].ROI, 1e-9)
		assert.Equal(t, "AAA", r.Entries[1].Symbol)
		assert.InDelta(t, 3.0, r.Entries[1].ROI, 1e-9)
		assert.Equal(t, 2, r.StartSymbols)
		assert.Equal(t, 2, r.EndSymbols)

		roi, ok := r.Lookup("AAA")
		assert.True(t, ok)
		assert.InDelta(t, 3.0, roi, 1e-9)
		assert.Len(t, r.Top(1), 1)
	})

	t.Run("symbol missing a boundary is excluded", func(t *testing.T) {
		table := testutil.Enriched(
			testutil.Price("AAA", testutil.Day(0), 100, 100, 100, 100, 1),
			testutil.Price("AAA", testutil.Day(3), 120, 120, 120, 120, 1),
			testutil.Price("BBB", testutil.Day(0), 50, 50, 50, 50, 1),
			testutil.Price("CCC", testutil.Day(3), 50, 50, 50, 50, 1),
		)
		r := ROI(table, testutil.Day(0), testutil.Day(3))
		require.Len(t, r.Entries, 1)
		assert.Equal(t, "AAA", r.Entries[0].Symbol)
		assert.InDelta(t, 20.0, r.Entries[0].ROI, 1e-9)
		assert.Equal(t, 2, r.StartSymbols)
		assert.Equal(t, 2, r.EndSymbols)
	})

	t.Run("duplicates use first row and zero open is excluded", func(t *testing.T) {
		table := testutil.Enriched(
			testutil.Price("AAA", testutil.Day(0), 100, 100, 100, 100, 1),
			testutil.Price("AAA", testutil.Day(0), 200, 200, 200, 200, 1),
			testutil.Price("AAA", testutil.Day(3), 110, 110, 110, 110, 1),
			testutil.Price("ZERO", testutil.Day(0), 0, 1, 0, 1, 1),
			testutil.Price("ZERO", testutil.Day(3), 1, 1, 1, 1, 1),
		)
		r := ROI(table, testutil.Day(0), testutil.Day(3))
		require.Len(t, r.Entries, 1)
		assert.InDelta(t, 10.0, r.Entries[0].ROI, 1e-9)
		assert.Equal(t, []string{"ZERO"}, r.Excluded)
	})

	t.Run("no common symbol", func(t *testing.T) {
		r := ROI(testutil.SampleTable(), testutil.Day(10), testutil.Day(11))
		assert.Empty(t, r.Entries)
		assert.NotNil(t, r.Entries)
		assert.Zero(t, r.StartSymbols)
	})
}

func TestValueAtRisk(t *testing.T) {
	t.Run("three closes", func(t *testing.T) {
		table := testutil.Enriched(
			testutil.Price("AAPL", testutil.Day(0), 100, 100, 100, 100, 1),
			testutil.Price("AAPL", testutil.Day(1), 110, 110, 110, 110, 1),
			testutil.Price("AAPL", testutil.Day(2), 99, 99, 99, 99, 1),
		)
		v := ValueAtRisk(table, []string{"AAPL"}, 0.95)
		require.Len(t, v.Entries, 1)
		assert.InDelta(t, -0.09, v.Entries[0].VaR, 1e-9)
		assert.Equal(t, 2, v.Entries[0].Observations)
		assert.Empty(t, v.Skipped)
	})

	t.Run("sample keeps requested order and skips short history", func(t *testing.T) {
		table := testutil.Enriched(append(testutil.SampleRecords(),
			testutil.Price("ONE", testutil.Day(0), 1, 1, 1, 1, 1))...)

		v := ValueAtRisk(table, []string{"BBB", "ONE", "AAA", "MISSING"}, 0.95)
		require.Len(t, v.Entries, 2)
		assert.Equal(t, "BBB", v.Entries[0].Symbol)
		assert.InDelta(t, -0.029538131041890434, v.Entries[0].VaR, 1e-9)
		assert.Equal(t, "AAA", v.Entries[1].Symbol)
		assert.InDelta(t, -0.05635313531353134, v.Entries[1].VaR, 1e-9)

		require.Len(t, v.Skipped, 2)
		assert.Equal(t, "ONE", v.Skipped[0].Symbol)
		assert.Equal(t, "MISSING", v.Skipped[1].Symbol)
		assert.Equal(t, "symbol not in dataset", v.Skipped[1].Reason)
		assert.Contains(t, v.Skipped[0].Reason, "need at least 2")
		assert.Len(t, v.Values(), 2)
	})

	t.Run("dates out of order", func(t *testing.T) {
		table := testutil.Enriched(
			testutil.Price("AAPL", testutil.Day(2), 99, 99, 99, 99, 1),
			testutil.Price("AAPL", testutil.Day(0), 100, 100, 100, 100, 1),
			testutil.Price("AAPL", testutil.Day(1), 110, 110, 110, 110, 1),
		)
		v := ValueAtRisk(table, []string{"AAPL"}, 0.95)
		require.Len(t, v.Entries, 1)
		assert.InDelta(t, -0.09, v.Entries[0].VaR, 1e-9)
	})
}

func TestWelchTTest(t *testing.T) {
	t.Run("reference values", func(t *testing.T) {
		res, err := WelchTTest([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
		require.NoError(t, err)
		assert.InDelta(t, -1.7320508075688772, res.TStatistic, 1e-9)
		assert.InDelta(t, 75.0/17.0, res.DegreesOfFreedom, 1e-9)
		assert.InDelta(t, 0.1516, res.PValue, 1e-3)
		assert.InDelta(t, 2.5, res.MeanA, 1e-12)
		assert.InDelta(t, 5.0, res.MeanB, 1e-12)
		assert.Equal(t, 4, res.NA)
		assert.False(t, res.Significant)
	})

	t.Run("clearly different samples are significant", func(t *testing.T) {
		a := []float64{10.1, 10.2, 9.9, 10.0, 10.1, 9.8, 10.0, 10.2}
		b := []float64{0.1, 0.2, -0.1, 0.0, 0.1, -0.2, 0.0, 0.2}
		res, err := WelchTTest(a, b)
		require.NoError(t, err)
		assert.Greater(t, res.TStatistic, 0.0)
		assert.Less(t, res.PValue, SignificanceLevel)
		assert.True(t, res.Significant)
	})

	t.Run("identical samples", func(t *testing.T) {
		res, err := WelchTTest([]float64{1, 2, 3}, []float64{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 0, res.TStatistic, 1e-12)
		assert.InDelta(t, 1, res.PValue, 1e-9)
	})

	t.Run("insufficient data", func(t *testing.T) {
		_, err := WelchTTest([]float64{1}, []float64{1, 2})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("zero variance", func(t *testing.T) {
		_, err := WelchTTest([]float64{1, 1, 1}, []float64{2, 2})
		assert.ErrorIs(t, err, ErrZeroVariance)
	})
}

func TestCompareReturns(t *testing.T) {
	res, err := CompareReturns(testutil.SampleTable(), "AAA", "BBB")
	require.NoError(t, err)
	assert.Equal(t, "AAA", res.SymbolA)
	assert.Equal(t, "BBB", res.SymbolB)
	assert.InDelta(t, -0.5876800943289772, res.TStatistic, 1e-9)
	assert.InDelta(t, 3.5980092843986036, res.DegreesOfFreedom, 1e-9)
	assert.Len(t, res.ReturnsA, 3)
	assert.False(t, res.Significant)

	_, err = CompareReturns(testutil.SampleTable(), "AAA", "MISSING")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	assert.Contains(t, err.Error(), "MISSING")

	_, err = CompareReturns(testutil.Enriched(append(testutil.SampleRecords(),
		testutil.Price("ONE", testutil.Day(0), 1, 1, 1, 1, 1))...), "AAA", "ONE")
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CompareReturns(testutil.Enriched(), "AAA", "BBB")
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestAnalysesDoNotMutateTable(t *testing.T) {
	table := testutil.SampleTable()
	before := table.Rows()

	TopTradingEvents(table)
	WeekdayVolume(table)
	VolatilityLeaders(table, 1)
	ROI(table, testutil.Day(0), testutil.Day(3))
	ValueAtRisk(table, []string{"AAA"}, 0.95)
	_, _ = CompareReturns(table, "AAA", "BBB")

	assert.Equal(t, before, table.Rows())
}
