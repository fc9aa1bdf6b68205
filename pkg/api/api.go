// Package api is the native, idiomatic entry point into the pricing
// engine: a thin wrapper around internal/engine.Context that returns a
// Result{Price, ComputeTime} pair and stays ignorant of serialization,
// matching spec.md §6's instruction that "the core need only expose
// callable functions; timing and serialization belong outside" while
// still giving the RPC wrapper something to report. See handle.go for
// the opaque-handle compatibility shim spec.md §9 treats as equivalent.
package api

import (
	"time"

	"github.com/duskcap/optionengine/internal/engine"
	"github.com/duskcap/optionengine/internal/engine/payoff"
)

// Result is returned by every native pricing call: the computed price
// and the wall-clock time the call took, so a binding layer can report
// (price, computation_time_ms) without instrumenting the engine itself.
type Result struct {
	Price       float64
	ComputeTime time.Duration
}

func timed(f func() float64) Result {
	start := time.Now()
	price := f()
	return Result{Price: price, ComputeTime: time.Since(start)}
}

// New returns a freshly configured Context with spec-mandated defaults.
func New() *engine.Context { return engine.NewContext() }

func EuropeanCall(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.EuropeanCall(s, k, r, vol, t) })
}

func EuropeanPut(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.EuropeanPut(s, k, r, vol, t) })
}

func AmericanCall(c *engine.Context, s, k, r, vol, t float64, exercisePoints int) Result {
	return timed(func() float64 { return c.AmericanCall(s, k, r, vol, t, exercisePoints) })
}

func AmericanPut(c *engine.Context, s, k, r, vol, t float64, exercisePoints int) Result {
	return timed(func() float64 { return c.AmericanPut(s, k, r, vol, t, exercisePoints) })
}

func BinomialAmericanCall(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.BinomialAmericanCall(s, k, r, vol, t) })
}

func BinomialAmericanCallSteps(c *engine.Context, s, k, r, vol, t float64, steps int) Result {
	return timed(func() float64 { return c.BinomialAmericanCallSteps(s, k, r, vol, t, steps) })
}

func BinomialAmericanPut(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.BinomialAmericanPut(s, k, r, vol, t) })
}

func BinomialAmericanPutSteps(c *engine.Context, s, k, r, vol, t float64, steps int) Result {
	return timed(func() float64 { return c.BinomialAmericanPutSteps(s, k, r, vol, t, steps) })
}

func BinomialEuropeanCall(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.BinomialEuropeanCall(s, k, r, vol, t) })
}

func BinomialEuropeanCallSteps(c *engine.Context, s, k, r, vol, t float64, steps int) Result {
	return timed(func() float64 { return c.BinomialEuropeanCallSteps(s, k, r, vol, t, steps) })
}

func BinomialEuropeanPut(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.BinomialEuropeanPut(s, k, r, vol, t) })
}

func BinomialEuropeanPutSteps(c *engine.Context, s, k, r, vol, t float64, steps int) Result {
	return timed(func() float64 { return c.BinomialEuropeanPutSteps(s, k, r, vol, t, steps) })
}

func LSMAmericanPutDefault(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.LSMAmericanPutDefault(s, k, r, vol, t) })
}

func LSMAmericanPut(c *engine.Context, s, k, r, vol, t float64, nDates int) Result {
	return timed(func() float64 { return c.LSMAmericanPut(s, k, r, vol, t, nDates) })
}

func LSMAmericanCallDefault(c *engine.Context, s, k, r, vol, t float64) Result {
	return timed(func() float64 { return c.LSMAmericanCallDefault(s, k, r, vol, t) })
}

func LSMAmericanCall(c *engine.Context, s, k, r, vol, t float64, nDates int) Result {
	return timed(func() float64 { return c.LSMAmericanCall(s, k, r, vol, t, nDates) })
}

func BermudanCall(c *engine.Context, s, k, r, vol, t float64, exerciseDates []float64) Result {
	return timed(func() float64 { return c.BermudanCall(s, k, r, vol, t, exerciseDates) })
}

func BermudanPut(c *engine.Context, s, k, r, vol, t float64, exerciseDates []float64) Result {
	return timed(func() float64 { return c.BermudanPut(s, k, r, vol, t, exerciseDates) })
}

func AsianArithmeticCall(c *engine.Context, s, k, r, vol, t float64, nObs int) Result {
	return timed(func() float64 { return c.AsianArithmeticCall(s, k, r, vol, t, nObs) })
}

func AsianArithmeticPut(c *engine.Context, s, k, r, vol, t float64, nObs int) Result {
	return timed(func() float64 { return c.AsianArithmeticPut(s, k, r, vol, t, nObs) })
}

func BarrierCall(c *engine.Context, s, k, r, vol, t, barrier float64, kind payoff.BarrierType, rebate float64) Result {
	return timed(func() float64 { return c.BarrierCall(s, k, r, vol, t, barrier, kind, rebate) })
}

func BarrierPut(c *engine.Context, s, k, r, vol, t, barrier float64, kind payoff.BarrierType, rebate float64) Result {
	return timed(func() float64 { return c.BarrierPut(s, k, r, vol, t, barrier, kind, rebate) })
}

func LookbackCall(c *engine.Context, s, k, r, vol, t float64, mode payoff.LookbackMode) Result {
	return timed(func() float64 { return c.LookbackCall(s, k, r, vol, t, mode) })
}

func LookbackPut(c *engine.Context, s, k, r, vol, t float64, mode payoff.LookbackMode) Result {
	return timed(func() float64 { return c.LookbackPut(s, k, r, vol, t, mode) })
}
