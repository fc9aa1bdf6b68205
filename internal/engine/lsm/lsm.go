// Package lsm implements the Longstaff–Schwartz regression-based
// American/Bermudan pricer: backward induction over a fixed set of
// pre-generated paths, estimating continuation value at each exercise
// date by least-squares regression against a quadratic polynomial basis
// in the underlying price.
package lsm

import (
	"math"

	"github.com/duskcap/optionengine/internal/engine/gbm"
	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/payoff"
	"github.com/duskcap/optionengine/internal/engine/rng"
)

// DefaultExerciseDates is used when a caller does not specify a number
// of exercise dates (spec.md §9's open-question resolution). It is half
// the Context's default lattice step count of 100.
const DefaultExerciseDates = 50

// minRegressionPaths is the minimum number of in-the-money paths needed
// at an exercise date before the regression is trusted; below this, the
// step is skipped and cash flows simply carry forward (spec.md §4.7).
const minRegressionPaths = 3

// Request configures one LSM pricing call.
type Request struct {
	Source     *rng.Source
	NumPaths   int
	NumDates   int // M equally spaced exercise dates, t_M = T
	Underlying market.Underlying
	Strike     float64
	Side       payoff.Side

	Antithetic bool

	ImportanceSampling bool
	DriftShift         float64
}

// Price runs Longstaff–Schwartz backward induction and returns the
// discounted average exercise value across all paths.
func Price(req Request) float64 {
	m := req.NumDates
	if m < 1 {
		m = 1
	}
	dt := req.Underlying.T / float64(m)

	paths, weights := generatePaths(req, m)
	n := len(paths)

	cashFlow := make([]float64, n)
	exerciseStep := make([]int, n)
	for p := 0; p < n; p++ {
		terminal := paths[p][m]
		cashFlow[p] = payoff.Intrinsic(req.Side, terminal, req.Strike)
		exerciseStep[p] = m
	}

	discountRate := req.Underlying.Rate

	for step := m - 1; step >= 1; step-- {
		var itmIdx []int
		var xs, ys []float64
		for p := 0; p < n; p++ {
			s := paths[p][step]
			intrinsic := payoff.Intrinsic(req.Side, s, req.Strike)
			if intrinsic <= 0 {
				continue
			}
			periodsAhead := float64(exerciseStep[p] - step)
			discounted := cashFlow[p] * math.Exp(-discountRate*periodsAhead*dt)
			itmIdx = append(itmIdx, p)
			xs = append(xs, s)
			ys = append(ys, discounted)
		}

		if len(itmIdx) < minRegressionPaths {
			continue // carry cash flows forward unchanged
		}

		a, b, c := fitQuadratic(xs, ys)

		for i, p := range itmIdx {
			s := xs[i]
			continuation := a + b*s + c*s*s
			intrinsic := payoff.Intrinsic(req.Side, s, req.Strike)
			if intrinsic > continuation {
				cashFlow[p] = intrinsic
				exerciseStep[p] = step
			}
		}
	}

	sum := 0.0
	for p := 0; p < n; p++ {
		discounted := cashFlow[p] * math.Exp(-discountRate*float64(exerciseStep[p])*dt)
		sum += discounted * weights[p]
	}
	price := sum / float64(n)
	if price < 0 {
		return 0
	}
	return price
}

func generatePaths(req Request, steps int) ([][]float64, []float64) {
	paths := make([][]float64, 0, req.NumPaths)
	weights := make([]float64, 0, req.NumPaths)

	params := gbm.Params{
		Spot:               req.Underlying.Spot,
		Rate:               req.Underlying.Rate,
		Vol:                req.Underlying.Vol,
		T:                  req.Underlying.T,
		Steps:              steps,
		ImportanceSampling: req.ImportanceSampling,
		DriftShift:         req.DriftShift,
	}

	if req.Antithetic {
		pairs := req.NumPaths / 2
		for i := 0; i < pairs; i++ {
			a, b := gbm.GeneratePair(req.Source, params)
			paths = append(paths, a.Prices, b.Prices)
			weights = append(weights, a.Weight, b.Weight)
		}
	} else {
		for i := 0; i < req.NumPaths; i++ {
			p := gbm.Generate(req.Source, params)
			paths = append(paths, p.Prices)
			weights = append(weights, p.Weight)
		}
	}
	return paths, weights
}

// fitQuadratic solves the least-squares fit y = a + b*x + c*x^2 via the
// normal equations, solved directly as a 3x3 linear system.
func fitQuadratic(xs, ys []float64) (a, b, c float64) {
	n := float64(len(xs))
	var sx, sx2, sx3, sx4, sy, sxy, sx2y float64
	for i := range xs {
		x, y := xs[i], ys[i]
		x2 := x * x
		sx += x
		sx2 += x2
		sx3 += x2 * x
		sx4 += x2 * x2
		sy += y
		sxy += x * y
		sx2y += x2 * y
	}

	// Normal equations:
	// [ n   sx  sx2 ] [a]   [sy  ]
	// [ sx  sx2 sx3 ] [b] = [sxy ]
	// [ sx2 sx3 sx4 ] [c]   [sx2y]
	m := [3][4]float64{
		{n, sx, sx2, sy},
		{sx, sx2, sx3, sxy},
		{sx2, sx3, sx4, sx2y},
	}
	if sol, ok := solve3x3(m); ok {
		return sol[0], sol[1], sol[2]
	}
	// Degenerate design matrix (e.g. all x identical): fall back to a
	// constant fit at the mean, which still yields a sane continuation
	// estimate rather than propagating NaN/Inf through backward induction.
	return sy / n, 0, 0
}

// solve3x3 solves the augmented 3x4 system via Gaussian elimination with
// partial pivoting.
func solve3x3(m [3][4]float64) (sol [3]float64, ok bool) {
	for col := 0; col < 3; col++ {
		pivot := col
		for r := col + 1; r < 3; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		m[col], m[pivot] = m[pivot], m[col]

		if math.Abs(m[col][col]) < 1e-12 {
			return sol, false
		}

		for r := 0; r < 3; r++ {
			if r == col {
				continue
			}
			factor := m[r][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[r][k] -= factor * m[col][k]
			}
		}
	}
	for i := 0; i < 3; i++ {
		sol[i] = m[i][3] / m[i][i]
	}
	return sol, true
}
