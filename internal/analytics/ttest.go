package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"sp500cli/pkg/contracts/domain"
)

// SignificanceLevel is the p-value threshold below which a difference is significant
const SignificanceLevel = 0.05

// WelchTTest runs a two-sided two-sample t-test without assuming equal variances
func WelchTTest(a, b []float64) (domain.TTestResult, error) {
	na, nb := len(a), len(b)
	if na < 2 || nb < 2 {
		return domain.TTestResult{}, fmt.Errorf("%w: samples of size %d and %d, need at least 2 each",
			ErrInsufficientData, na, nb)
	}

	ma, va := stat.MeanVariance(a, nil)
	mb, vb := stat.MeanVariance(b, nil)

	sa := va / float64(na)
	sb := vb / float64(nb)
	se := math.Sqrt(sa + sb)
	if se == 0 || math.IsNaN(se) {
		return domain.TTestResult{}, ErrZeroVariance
	}

	t := (ma - mb) / se
	df := (sa + sb) * (sa + sb) / (sa*sa/float64(na-1) + sb*sb/float64(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := math.Min(1, 2*dist.CDF(-math.Abs(t)))

	return domain.TTestResult{
		TStatistic:       t,
		PValue:           p,
		DegreesOfFreedom: df,
		MeanA:            ma,
		MeanB:            mb,
		NA:               na,
		NB:               nb,
		Significant:      p < SignificanceLevel,
	}, nil
}

// CompareReturns runs WelchTTest on the daily returns of two symbols
func CompareReturns(table *domain.EnrichedTable, symbolA, symbolB string) (domain.TTestResult, error) {
	if table.Len() == 0 {
		return domain.TTestResult{}, ErrEmptyTable
	}
	for _, symbol := range []string{symbolA, symbolB} {
		if !table.HasSymbol(symbol) {
			return domain.TTestResult{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
		}
	}

	ra := SymbolReturns(table, symbolA)
	rb := SymbolReturns(table, symbolB)

	res, err := WelchTTest(ra, rb)
	if err != nil {
		return domain.TTestResult{}, fmt.Errorf("compare %s and %s returns: %w", symbolA, symbolB, err)
	}
	res.SymbolA = symbolA
	res.SymbolB = symbolB
	res.ReturnsA = ra
	res.ReturnsB = rb
	return res, nil
}
