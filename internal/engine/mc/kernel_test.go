package mc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/mc"
	"github.com/duskcap/optionengine/internal/engine/payoff"
	"github.com/duskcap/optionengine/internal/engine/rng"
)

func baseRequest(seed uint64, numPaths int) mc.Request {
	return mc.Request{
		Source:     rng.New(seed),
		NumPaths:   numPaths,
		Steps:      252,
		Underlying: market.Underlying{Spot: 100, Rate: 0.05, Vol: 0.20, T: 1.0},
		Evaluator:  payoff.European(payoff.Call, 100),
	}
}

func TestEuropeanCallWithinReferenceRange(t *testing.T) {
	req := baseRequest(42, 100000)
	price := mc.Price(req)
	require.Greater(t, price, 7.0)
	require.Less(t, price, 11.0)
}

func TestEuropeanPutWithinReferenceRange(t *testing.T) {
	req := baseRequest(42, 100000)
	req.Evaluator = payoff.European(payoff.Put, 100)
	price := mc.Price(req)
	require.Greater(t, price, 3.0)
	require.Less(t, price, 7.0)
}

func TestPriceIsNonNegative(t *testing.T) {
	req := baseRequest(1, 5000)
	req.Evaluator = payoff.European(payoff.Put, 1) // deep OTM put
	price := mc.Price(req)
	require.GreaterOrEqual(t, price, 0.0)
}

func TestDeterministicForSameSeedAndConfig(t *testing.T) {
	a := mc.Price(baseRequest(42, 20000))
	b := mc.Price(baseRequest(42, 20000))
	require.Equal(t, a, b)
}

func TestAntitheticReducesVarianceAcrossSeeds(t *testing.T) {
	variance := func(antithetic bool) float64 {
		prices := make([]float64, 10)
		for s := 0; s < 10; s++ {
			req := baseRequest(uint64(s+1), 4000)
			req.Antithetic = antithetic
			prices[s] = mc.Price(req)
		}
		return sampleVariance(prices)
	}

	require.Less(t, variance(true), variance(false))
}

func TestControlVariateReducesVarianceAcrossSeeds(t *testing.T) {
	variance := func(cv bool) float64 {
		prices := make([]float64, 10)
		for s := 0; s < 10; s++ {
			req := baseRequest(uint64(s+1), 4000)
			req.ControlVariates = cv
			prices[s] = mc.Price(req)
		}
		return sampleVariance(prices)
	}

	withCV := variance(true)
	without := variance(false)
	require.Less(t, withCV, without*0.7)
}

func TestParallelMatchesSequentialWithinNoise(t *testing.T) {
	seq := baseRequest(7, 50000)
	par := baseRequest(7, 50000)
	par.Parallel = true

	seqPrice := mc.Price(seq)
	parPrice := mc.Price(par)

	require.InDelta(t, seqPrice, parPrice, 1.0)
}

func sampleVariance(xs []float64) float64 {
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
