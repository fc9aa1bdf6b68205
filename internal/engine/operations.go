package engine

import (
	"github.com/duskcap/optionengine/internal/engine/lsm"
	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/payoff"
)

// defaultRegistry holds the three stateless built-in Methods; operations
// below select from it by name rather than hand-rolling kernel calls, so
// a caller that wants a different backend mix can build its own Registry
// and re-dispatch the same Instruments.
var defaultRegistry = NewRegistry()

func must(name string) Method {
	m, ok := defaultRegistry.Get(name)
	if !ok {
		panic("engine: method " + name + " not registered")
	}
	return m
}

func price(c *Context, methodName string, inst Instrument) float64 {
	p, err := must(methodName).Price(c, inst)
	if err != nil {
		return 0
	}
	return p
}

func underlying(s, r, vol, t float64) market.Underlying {
	return market.Underlying{Spot: s, Rate: r, Vol: vol, T: t}
}

// EuropeanCall prices a vanilla European call via Monte Carlo
// (spec.md §6 "European").
func (c *Context) EuropeanCall(s, k, r, vol, t float64) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: European, PayoffKind: Vanilla,
	})
}

// EuropeanPut prices a vanilla European put via Monte Carlo.
func (c *Context) EuropeanPut(s, k, r, vol, t float64) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: European, PayoffKind: Vanilla,
	})
}

// AmericanCall prices an American call via LSM over exercisePoints
// equally spaced exercise dates (spec.md §6 "American").
func (c *Context) AmericanCall(s, k, r, vol, t float64, exercisePoints int) float64 {
	return price(c, "lsm", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: American, PayoffKind: Vanilla, NumExercisePoints: exercisePoints,
	})
}

// AmericanPut prices an American put via LSM over exercisePoints equally
// spaced exercise dates.
func (c *Context) AmericanPut(s, k, r, vol, t float64, exercisePoints int) float64 {
	return price(c, "lsm", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: American, PayoffKind: Vanilla, NumExercisePoints: exercisePoints,
	})
}

// BinomialAmericanCall prices an American call on the lattice using the
// Context's configured BinomialSteps.
func (c *Context) BinomialAmericanCall(s, k, r, vol, t float64) float64 {
	return c.BinomialAmericanCallSteps(s, k, r, vol, t, 0)
}

// BinomialAmericanCallSteps prices an American call on the lattice with
// an explicit step count (0 falls back to the Context default).
func (c *Context) BinomialAmericanCallSteps(s, k, r, vol, t float64, steps int) float64 {
	return price(c, "binomial-lattice", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: American, PayoffKind: Vanilla, Steps: steps,
	})
}

// BinomialAmericanPut prices an American put on the lattice using the
// Context's configured BinomialSteps.
func (c *Context) BinomialAmericanPut(s, k, r, vol, t float64) float64 {
	return c.BinomialAmericanPutSteps(s, k, r, vol, t, 0)
}

// BinomialAmericanPutSteps prices an American put on the lattice with an
// explicit step count.
func (c *Context) BinomialAmericanPutSteps(s, k, r, vol, t float64, steps int) float64 {
	return price(c, "binomial-lattice", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: American, PayoffKind: Vanilla, Steps: steps,
	})
}

// BinomialEuropeanCall prices a European call on the lattice using the
// Context's configured BinomialSteps.
func (c *Context) BinomialEuropeanCall(s, k, r, vol, t float64) float64 {
	return c.BinomialEuropeanCallSteps(s, k, r, vol, t, 0)
}

// BinomialEuropeanCallSteps prices a European call on the lattice with
// an explicit step count.
func (c *Context) BinomialEuropeanCallSteps(s, k, r, vol, t float64, steps int) float64 {
	return price(c, "binomial-lattice", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: European, PayoffKind: Vanilla, Steps: steps,
	})
}

// BinomialEuropeanPut prices a European put on the lattice using the
// Context's configured BinomialSteps.
func (c *Context) BinomialEuropeanPut(s, k, r, vol, t float64) float64 {
	return c.BinomialEuropeanPutSteps(s, k, r, vol, t, 0)
}

// BinomialEuropeanPutSteps prices a European put on the lattice with an
// explicit step count.
func (c *Context) BinomialEuropeanPutSteps(s, k, r, vol, t float64, steps int) float64 {
	return price(c, "binomial-lattice", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: European, PayoffKind: Vanilla, Steps: steps,
	})
}

// LSMAmericanPutDefault prices an American put via LSM using the default
// exercise-date count (spec.md §9 resolves this open question to 50).
func (c *Context) LSMAmericanPutDefault(s, k, r, vol, t float64) float64 {
	return c.LSMAmericanPut(s, k, r, vol, t, lsm.DefaultExerciseDates)
}

// LSMAmericanPut prices an American put via LSM with an explicit
// exercise-date count.
func (c *Context) LSMAmericanPut(s, k, r, vol, t float64, nDates int) float64 {
	return price(c, "lsm", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: American, PayoffKind: Vanilla, NumExercisePoints: nDates,
	})
}

// LSMAmericanCallDefault prices an American call via LSM using the
// default exercise-date count.
func (c *Context) LSMAmericanCallDefault(s, k, r, vol, t float64) float64 {
	return c.LSMAmericanCall(s, k, r, vol, t, lsm.DefaultExerciseDates)
}

// LSMAmericanCall prices an American call via LSM with an explicit
// exercise-date count.
func (c *Context) LSMAmericanCall(s, k, r, vol, t float64, nDates int) float64 {
	return price(c, "lsm", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: American, PayoffKind: Vanilla, NumExercisePoints: nDates,
	})
}

// BermudanCall prices a Bermudan call on the lattice at the supplied
// exercise dates (strictly increasing, final date implies terminal).
func (c *Context) BermudanCall(s, k, r, vol, t float64, exerciseDates []float64) float64 {
	return price(c, "binomial-lattice", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: Bermudan, PayoffKind: Vanilla, ExerciseDates: exerciseDates,
	})
}

// BermudanPut prices a Bermudan put on the lattice at the supplied
// exercise dates.
func (c *Context) BermudanPut(s, k, r, vol, t float64, exerciseDates []float64) float64 {
	return price(c, "binomial-lattice", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: Bermudan, PayoffKind: Vanilla, ExerciseDates: exerciseDates,
	})
}

// AsianArithmeticCall prices an arithmetic-average Asian call over nObs
// equally spaced observations.
func (c *Context) AsianArithmeticCall(s, k, r, vol, t float64, nObs int) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: European, PayoffKind: AsianArithmetic, NumObservations: nObs,
	})
}

// AsianArithmeticPut prices an arithmetic-average Asian put over nObs
// equally spaced observations.
func (c *Context) AsianArithmeticPut(s, k, r, vol, t float64, nObs int) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: European, PayoffKind: AsianArithmetic, NumObservations: nObs,
	})
}

// BarrierCall prices a barrier call of the given type at the given
// barrier level, with rebate paid on knock-out (see payoff.Barrier).
func (c *Context) BarrierCall(s, k, r, vol, t, barrier float64, kind payoff.BarrierType, rebate float64) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: European, PayoffKind: Barrier,
		BarrierLevel: barrier, BarrierRebate: rebate, BarrierKind: kind,
	})
}

// BarrierPut prices a barrier put of the given type with rebate and
// barrier level, matching BarrierCall's knock semantics.
func (c *Context) BarrierPut(s, k, r, vol, t, barrier float64, kind payoff.BarrierType, rebate float64) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: European, PayoffKind: Barrier,
		BarrierLevel: barrier, BarrierRebate: rebate, BarrierKind: kind,
	})
}

// LookbackCall prices a lookback call in the given mode (0=floating,
// 1=fixed strike).
func (c *Context) LookbackCall(s, k, r, vol, t float64, mode payoff.LookbackMode) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Call,
		Style: European, PayoffKind: Lookback, LookbackMode: mode,
	})
}

// LookbackPut prices a lookback put in the given mode.
func (c *Context) LookbackPut(s, k, r, vol, t float64, mode payoff.LookbackMode) float64 {
	return price(c, "monte-carlo", Instrument{
		Underlying: underlying(s, r, vol, t), Strike: k, Side: payoff.Put,
		Style: European, PayoffKind: Lookback, LookbackMode: mode,
	})
}
