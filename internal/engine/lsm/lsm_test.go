package lsm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskcap/optionengine/internal/engine/lattice"
	"github.com/duskcap/optionengine/internal/engine/lsm"
	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/payoff"
	"github.com/duskcap/optionengine/internal/engine/refprice"
	"github.com/duskcap/optionengine/internal/engine/rng"
)

func baseUnderlying() market.Underlying {
	return market.Underlying{Spot: 100, Rate: 0.05, Vol: 0.20, T: 1.0}
}

func TestAmericanPutMatchesLatticeWithinMCNoise(t *testing.T) {
	u := market.Underlying{Spot: 90, Rate: 0.05, Vol: 0.25, T: 1.0}
	binomial := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Put, Steps: 500, Policy: lattice.American})

	price := lsm.Price(lsm.Request{
		Source:     rng.New(1),
		NumPaths:   20000,
		NumDates:   50,
		Underlying: u,
		Strike:     100,
		Side:       payoff.Put,
		Antithetic: true,
	})

	require.InDelta(t, binomial, price, binomial*0.1+0.25)
}

func TestEuropeanStyleConvergesWithSingleExerciseDate(t *testing.T) {
	u := baseUnderlying()
	bs := refprice.BlackScholes(payoff.Put, u.Spot, 100, u.Rate, u.Vol, u.T)

	price := lsm.Price(lsm.Request{
		Source:     rng.New(7),
		NumPaths:   20000,
		NumDates:   1,
		Underlying: u,
		Strike:     100,
		Side:       payoff.Put,
		Antithetic: true,
	})

	require.InDelta(t, bs, price, bs*0.1+0.25)
}

func TestAmericanPutExceedsOrEqualsIntrinsic(t *testing.T) {
	u := market.Underlying{Spot: 80, Rate: 0.05, Vol: 0.20, T: 1.0}
	price := lsm.Price(lsm.Request{
		Source:     rng.New(3),
		NumPaths:   10000,
		NumDates:   25,
		Underlying: u,
		Strike:     100,
		Side:       payoff.Put,
		Antithetic: true,
	})
	require.GreaterOrEqual(t, price, payoff.Intrinsic(payoff.Put, u.Spot, 100)-0.5)
}

func TestAmericanDominatesEuropeanForDeepITMPut(t *testing.T) {
	u := market.Underlying{Spot: 70, Rate: 0.05, Vol: 0.3, T: 1.0}
	american := lsm.Price(lsm.Request{
		Source:     rng.New(11),
		NumPaths:   20000,
		NumDates:   50,
		Underlying: u,
		Strike:     100,
		Side:       payoff.Put,
		Antithetic: true,
	})
	european := lsm.Price(lsm.Request{
		Source:     rng.New(11),
		NumPaths:   20000,
		NumDates:   1,
		Underlying: u,
		Strike:     100,
		Side:       payoff.Put,
		Antithetic: true,
	})
	require.GreaterOrEqual(t, american, european-0.25)
}

func TestDeterministicForFixedSeed(t *testing.T) {
	u := baseUnderlying()
	req := lsm.Request{
		NumPaths:   5000,
		NumDates:   25,
		Underlying: u,
		Strike:     100,
		Side:       payoff.Put,
		Antithetic: true,
	}

	req.Source = rng.New(42)
	first := lsm.Price(req)

	req.Source = rng.New(42)
	second := lsm.Price(req)

	require.Equal(t, first, second)
}

func TestNonNegativeForDeepOTMCall(t *testing.T) {
	u := market.Underlying{Spot: 50, Rate: 0.05, Vol: 0.2, T: 1.0}
	price := lsm.Price(lsm.Request{
		Source:     rng.New(5),
		NumPaths:   5000,
		NumDates:   10,
		Underlying: u,
		Strike:     200,
		Side:       payoff.Call,
		Antithetic: true,
	})
	require.GreaterOrEqual(t, price, 0.0)
}
