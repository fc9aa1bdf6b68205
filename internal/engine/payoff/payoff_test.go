package payoff_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskcap/optionengine/internal/engine/payoff"
)

func TestEuropeanPayoffs(t *testing.T) {
	path := []float64{100, 105, 110, 120}

	call := payoff.European(payoff.Call, 100)
	require.InDelta(t, 20.0, call(path), 1e-9)

	put := payoff.European(payoff.Put, 130)
	require.InDelta(t, 10.0, put(path), 1e-9)

	otmPut := payoff.European(payoff.Put, 90)
	require.InDelta(t, 0.0, otmPut(path), 1e-9)
}

func TestAsianArithmeticAveragesObservationsExcludingSpot(t *testing.T) {
	path := []float64{1000, 100, 110, 120} // spot is a deliberate outlier
	call := payoff.AsianArithmetic(payoff.Call, 100)
	require.InDelta(t, 10.0, call(path), 1e-9) // avg(100,110,120)=110, -100=10
}

func TestBarrierUpOutKnockedPaysRebate(t *testing.T) {
	path := []float64{100, 105, 150, 120}
	ev := payoff.Barrier(payoff.Call, 100, 140, 5, 0.05, 1.0, payoff.UpOut)
	got := ev(path)
	require.Greater(t, got, 0.0)
	require.Less(t, got, 5.0) // discounted rebate < 5
}

func TestBarrierUpOutNotKnockedPaysVanilla(t *testing.T) {
	path := []float64{100, 105, 110, 120}
	ev := payoff.Barrier(payoff.Call, 100, 200, 5, 0.05, 1.0, payoff.UpOut)
	require.InDelta(t, 20.0, ev(path), 1e-9)
}

func TestBarrierUpInNotKnockedPaysZero(t *testing.T) {
	path := []float64{100, 105, 110, 120}
	ev := payoff.Barrier(payoff.Call, 100, 200, 0, 0.05, 1.0, payoff.UpIn)
	require.InDelta(t, 0.0, ev(path), 1e-9)
}

func TestBarrierInOutComplementApproximatesVanilla(t *testing.T) {
	k, h := 100.0, 140.0
	paths := [][]float64{
		{100, 130, 135, 120},
		{100, 105, 110, 150},
		{100, 90, 95, 80},
		{100, 145, 100, 90},
	}
	outEv := payoff.Barrier(payoff.Call, k, h, 0, 0.05, 1.0, payoff.UpOut)
	inEv := payoff.Barrier(payoff.Call, k, h, 0, 0.05, 1.0, payoff.UpIn)
	vanilla := payoff.European(payoff.Call, k)

	for _, p := range paths {
		require.InDelta(t, vanilla(p), outEv(p)+inEv(p), 1e-9)
	}
}

func TestLookbackFixedStrikeCall(t *testing.T) {
	path := []float64{100, 130, 90, 110}
	ev := payoff.Lookback(payoff.Call, 100, payoff.Fixed)
	require.InDelta(t, 30.0, ev(path), 1e-9) // max=130, -100
}

func TestLookbackFloatingStrikeCallIsNonNegative(t *testing.T) {
	path := []float64{100, 130, 90, 110}
	ev := payoff.Lookback(payoff.Call, 0, payoff.Floating)
	got := ev(path) // terminal(110) - min(90) = 20
	require.InDelta(t, 20.0, got, 1e-9)
	require.GreaterOrEqual(t, got, 0.0)
}

func TestLookbackFloatingStrikePut(t *testing.T) {
	path := []float64{100, 130, 90, 110}
	ev := payoff.Lookback(payoff.Put, 0, payoff.Floating)
	require.InDelta(t, 20.0, ev(path), 1e-9) // max(130) - terminal(110)
}

func TestIntrinsic(t *testing.T) {
	require.InDelta(t, 20.0, payoff.Intrinsic(payoff.Call, 120, 100), 1e-9)
	require.InDelta(t, 0.0, payoff.Intrinsic(payoff.Call, 80, 100), 1e-9)
	require.InDelta(t, 20.0, payoff.Intrinsic(payoff.Put, 80, 100), 1e-9)
}
