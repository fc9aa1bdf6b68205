// Package payoff implements the pure payoff evaluators: one function per
// product family, each a function of a single simulated path and
// parameters, with no side effects and no dependency on how the path was
// generated.
package payoff

import "math"

// Side distinguishes a call from a put.
type Side int

const (
	Call Side = 0
	Put  Side = 1
)

// BarrierType enumerates the four barrier variants named in spec.md §4.4.
type BarrierType int

const (
	UpOut   BarrierType = 0
	UpIn    BarrierType = 1
	DownOut BarrierType = 2
	DownIn  BarrierType = 3
)

// LookbackMode selects fixed-strike (mode=1) or floating-strike (mode=0)
// lookback payoffs.
type LookbackMode int

const (
	Floating LookbackMode = 0
	Fixed    LookbackMode = 1
)

// Evaluator is a pure function of a path: given the simulated underlying
// prices (index 0 is spot, index len-1 is the terminal price), it returns
// the product's undiscounted payoff. Every product family below is
// expressed as an Evaluator so the MC kernel can stay ignorant of which
// product it is pricing.
type Evaluator func(path []float64) float64

// European returns the vanilla European payoff evaluator for strike K.
func European(side Side, k float64) Evaluator {
	return func(path []float64) float64 {
		terminal := path[len(path)-1]
		if side == Call {
			return math.Max(terminal-k, 0)
		}
		return math.Max(k-terminal, 0)
	}
}

// Intrinsic returns the immediate-exercise value of a European-style
// payoff at spot s — used by the lattice and LSM engines to compare
// continuation value against exercise at every node/date.
func Intrinsic(side Side, s, k float64) float64 {
	if side == Call {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}
