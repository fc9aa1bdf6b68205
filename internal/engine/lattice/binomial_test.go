package lattice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskcap/optionengine/internal/engine/lattice"
	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/payoff"
	"github.com/duskcap/optionengine/internal/engine/refprice"
)

func baseUnderlying() market.Underlying {
	return market.Underlying{Spot: 100, Rate: 0.05, Vol: 0.20, T: 1.0}
}

func TestPutCallParityAt200Steps(t *testing.T) {
	u := baseUnderlying()
	call := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Call, Steps: 200, Policy: lattice.European})
	put := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Put, Steps: 200, Policy: lattice.European})

	lhs := call - put
	rhs := u.Spot - 100*math.Exp(-u.Rate*u.T)
	require.InDelta(t, rhs, lhs, 0.01)
}

func TestEuropeanConvergesToBlackScholesAt200Steps(t *testing.T) {
	u := baseUnderlying()
	call := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Call, Steps: 200, Policy: lattice.European})
	bs := refprice.BlackScholes(payoff.Call, u.Spot, 100, u.Rate, u.Vol, u.T)
	require.InDelta(t, bs, call, 0.01)
}

func TestConvergenceErrorShrinksMonotonically(t *testing.T) {
	u := baseUnderlying()
	bs := refprice.BlackScholes(payoff.Call, u.Spot, 100, u.Rate, u.Vol, u.T)

	steps := []int{10, 25, 50, 100, 200, 500}
	var lastErr float64 = math.MaxFloat64
	for _, n := range steps {
		price := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Call, Steps: n, Policy: lattice.European})
		err := math.Abs(price - bs)
		require.Less(t, err, lastErr, "error should shrink as steps increase")
		lastErr = err
	}
	require.Less(t, lastErr, 0.01)
}

func TestAmericanCallWithoutDividendsEqualsEuropean(t *testing.T) {
	u := baseUnderlying()
	american := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Call, Steps: 200, Policy: lattice.American})
	european := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Call, Steps: 200, Policy: lattice.European})
	require.InDelta(t, european, american, 1e-4)
}

func TestAmericanPutDominatesEuropeanAndIntrinsic(t *testing.T) {
	u := market.Underlying{Spot: 80, Rate: 0.05, Vol: 0.20, T: 1.0}
	american := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Put, Steps: 200, Policy: lattice.American})
	european := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Put, Steps: 200, Policy: lattice.European})

	require.GreaterOrEqual(t, american, 20.0)
	require.Greater(t, american, european)
	require.GreaterOrEqual(t, american, payoff.Intrinsic(payoff.Put, u.Spot, 100))
}

func TestBermudanOneDateAtMaturityApproximatesEuropean(t *testing.T) {
	u := baseUnderlying()
	european := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Put, Steps: 200, Policy: lattice.European})
	bermudan := lattice.Price(lattice.Request{
		Underlying: u, Strike: 100, Side: payoff.Put, Steps: 200, Policy: lattice.Bermudan,
		ExerciseDates: []float64{1.0},
	})
	require.InDelta(t, european, bermudan, european*0.05+0.01)
}

func TestBermudanMonthlyApproachesAmerican(t *testing.T) {
	u := market.Underlying{Spot: 90, Rate: 0.05, Vol: 0.25, T: 1.0}
	american := lattice.Price(lattice.Request{Underlying: u, Strike: 100, Side: payoff.Put, Steps: 240, Policy: lattice.American})

	dates := make([]float64, 12)
	for i := range dates {
		dates[i] = float64(i+1) / 12.0
	}
	bermudan := lattice.Price(lattice.Request{
		Underlying: u, Strike: 100, Side: payoff.Put, Steps: 240, Policy: lattice.Bermudan,
		ExerciseDates: dates,
	})

	require.InDelta(t, american, bermudan, american*0.05+0.01)
}

func TestNonNegativity(t *testing.T) {
	u := market.Underlying{Spot: 100, Rate: 0.05, Vol: 0.20, T: 1.0}
	price := lattice.Price(lattice.Request{Underlying: u, Strike: 500, Side: payoff.Call, Steps: 100, Policy: lattice.European})
	require.GreaterOrEqual(t, price, 0.0)
}
