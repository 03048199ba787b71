package analytics

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"sp500cli/pkg/contracts/domain"
)

// KDEPoints is the default number of evaluation points of a density curve
const KDEPoints = 200

// StripJitter is the half-width of the horizontal jitter of strip chart points
const StripJitter = 0.2

// DensityPoint is one point of an estimated probability density
type DensityPoint struct {
	X       float64
	Density float64
}

// ScottBandwidth returns n^(-1/5) times the sample standard deviation
func ScottBandwidth(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, ErrInsufficientData
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 0, ErrZeroVariance
	}
	return math.Pow(float64(len(values)), -0.2) * sd, nil
}

// KDE estimates the density of values with a Gaussian kernel and Scott's
// bandwidth, evaluated at points evenly spaced over min-3h .. max+3h.
func KDE(values []float64, points int) ([]DensityPoint, error) {
	h, err := ScottBandwidth(values)
	if err != nil {
		return nil, err
	}
	if points < 2 {
		points = KDEPoints
	}

	lo := slices.Min(values) - 3*h
	hi := slices.Max(values) + 3*h
	step := (hi - lo) / float64(points-1)
	n := float64(len(values))

	curve := make([]DensityPoint, points)
	for i := range curve {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range values {
			sum += distuv.UnitNormal.Prob((x - v) / h)
		}
		curve[i] = DensityPoint{X: x, Density: sum / (n * h)}
	}
	return curve, nil
}

// Share is one slice of a pie chart
type Share struct {
	Symbol  string
	Value   float64
	Percent float64
}

// VaRShares turns VaR values into pie slices of the potential losses (-VaR).
// Symbols with no potential loss are left out; the remaining percents sum to 100.
func VaRShares(result domain.VaRResult) []Share {
	var (
		shares []Share
		total  float64
	)
	for _, e := range result.Entries {
		loss := -e.VaR
		if loss <= 0 {
			continue
		}
		shares = append(shares, Share{Symbol: e.Symbol, Value: loss})
		total += loss
	}
	if total == 0 {
		return nil
	}
	for i := range shares {
		shares[i].Percent = shares[i].Value / total * 100
	}
	return shares
}

// StripPoint is one point of the volatility strip chart
type StripPoint struct {
	Symbol string
	X      float64
	Y      float64
}

// StripPoints places each distribution point at its symbol's category position
// (1-based, in topSymbols order) plus a deterministic jitter derived from seed.
func StripPoints(dist []domain.VolatilityPoint, topSymbols []string, seed uint64) []StripPoint {
	pos := make(map[string]int, len(topSymbols))
	for i, s := range topSymbols {
		pos[s] = i + 1
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	points := make([]StripPoint, 0, len(dist))
	for _, p := range dist {
		x, ok := pos[p.Symbol]
		if !ok {
			continue
		}
		jitter := (rng.Float64()*2 - 1) * StripJitter
		points = append(points, StripPoint{
			Symbol: p.Symbol,
			X:      float64(x) + jitter,
			Y:      p.Volatility,
		})
	}
	return points
}
