package variance_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskcap/optionengine/internal/engine/variance"
)

func TestEstimateWithoutControlVariatesIsPlainMean(t *testing.T) {
	acc := variance.NewAccumulator(false)
	acc.Add(1.0, 100, 1)
	acc.Add(3.0, 110, 1)
	acc.Add(5.0, 90, 1)

	require.InDelta(t, 3.0, acc.Estimate(100), 1e-9)
}

func TestEstimateAppliesControlVariateCorrection(t *testing.T) {
	acc := variance.NewAccumulator(true)
	// Perfectly correlated payoff == terminalStock - 100, so the control
	// variate should fully remove the sampling noise around E[S_T].
	terminals := []float64{95, 100, 105, 110, 90}
	for _, term := range terminals {
		acc.Add(term-100, term, 1)
	}

	expectedTerminal := 100.0 // analytic E[S_T]
	est := acc.Estimate(expectedTerminal)
	require.InDelta(t, 0.0, est, 1e-9)
}

func TestSampleVarianceNonNegative(t *testing.T) {
	acc := variance.NewAccumulator(false)
	for i := 0; i < 100; i++ {
		acc.Add(float64(i%7), 100, 1)
	}
	require.GreaterOrEqual(t, acc.SampleVariance(), 0.0)
}

func TestControlVariateReducesVarianceAcrossSeeds(t *testing.T) {
	// Simulate several "seeds" worth of noisy payoff/terminal pairs that
	// are correlated, and check the corrected estimator's spread across
	// seeds is smaller than the raw mean's spread.
	noisy := func(seed int) (rawMean, corrected float64) {
		acc := variance.NewAccumulator(true)
		r := seed
		for i := 0; i < 2000; i++ {
			r = r*1103515245 + 12345
			u := float64(uint32(r)) / 4294967296.0
			terminal := 100 + 20*(u-0.5)
			payoff := math.Max(terminal-100, 0) + 0.1*(u-0.5)
			acc.Add(payoff, terminal, 1)
		}
		return acc.RawMean(), acc.Estimate(100)
	}

	var rawVals, corrVals []float64
	for seed := 1; seed <= 10; seed++ {
		raw, corr := noisy(seed)
		rawVals = append(rawVals, raw)
		corrVals = append(corrVals, corr)
	}

	require.Less(t, sampleVar(corrVals), sampleVar(rawVals))
}

func sampleVar(xs []float64) float64 {
	n := float64(len(xs))
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= n
	v := 0.0
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return v / (n - 1)
}
