package gbm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskcap/optionengine/internal/engine/gbm"
	"github.com/duskcap/optionengine/internal/engine/rng"
)

func baseParams() gbm.Params {
	return gbm.Params{Spot: 100, Rate: 0.05, Vol: 0.2, T: 1.0, Steps: 252}
}

func TestGeneratePathStartsAtSpotAndStaysPositive(t *testing.T) {
	src := rng.New(42)
	path := gbm.Generate(src, baseParams())

	require.Equal(t, 253, len(path.Prices))
	require.Equal(t, 100.0, path.Prices[0])
	for _, s := range path.Prices {
		require.Greater(t, s, 0.0)
	}
	require.Equal(t, 1.0, path.Weight)
}

func TestGeneratePairIsAntithetic(t *testing.T) {
	src := rng.New(42)
	p := baseParams()
	p.Steps = 4
	a, b := gbm.GeneratePair(src, p)

	require.Equal(t, a.Prices[0], b.Prices[0])
	// The two paths must differ (negated shocks), except in the
	// zero-probability event of a zero draw.
	require.NotEqual(t, a.Prices[len(a.Prices)-1], b.Prices[len(b.Prices)-1])
}

func TestGeneratePairConsumesOnlyOneSetOfDraws(t *testing.T) {
	p := baseParams()
	p.Steps = 10

	srcPair := rng.New(7)
	_, _ = gbm.GeneratePair(srcPair, p)
	afterPair := srcPair.Uniform()

	srcSingle := rng.New(7)
	_ = gbm.Generate(srcSingle, p)
	afterSingle := srcSingle.Uniform()

	require.Equal(t, afterSingle, afterPair,
		"GeneratePair must consume exactly Steps normals, same as one Generate call")
}

func TestImportanceSamplingWeightIsUnbiasedOnAverage(t *testing.T) {
	p := baseParams()
	p.Steps = 50
	p.ImportanceSampling = true
	p.DriftShift = 0.03

	src := rng.New(1)
	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		path := gbm.Generate(src, p)
		terminal := path.Prices[len(path.Prices)-1]
		sum += terminal * path.Weight
	}
	mean := sum / n
	expected := p.Spot * math.Exp(p.Rate*p.T)

	require.InDelta(t, expected, mean, expected*0.03)
}

func TestStratifiedSamplingPartitionsFirstIncrement(t *testing.T) {
	p := baseParams()
	p.Steps = 1
	p.Stratified = true
	p.StratumCount = 4

	// Strata are disjoint and ordered, so with one step the terminal price
	// rises strictly with the stratum index.
	src := rng.New(5)
	lastTerminal := 0.0
	for k := 0; k < p.StratumCount; k++ {
		p.StratumIndex = k
		path := gbm.Generate(src, p)
		require.Len(t, path.Prices, 2)
		require.Greater(t, path.Prices[1], lastTerminal)
		lastTerminal = path.Prices[1]
	}
}

func TestNoImportanceSamplingWeightIsOne(t *testing.T) {
	src := rng.New(2)
	path := gbm.Generate(src, baseParams())
	require.Equal(t, 1.0, path.Weight)
}
