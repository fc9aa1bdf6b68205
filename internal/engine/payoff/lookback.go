package payoff

import "math"

// Lookback returns the lookback payoff evaluator. Fixed-strike lookbacks
// compare the path's running extreme against k; floating-strike
// lookbacks compare the terminal price against the path's running
// extreme, and k is unused.
func Lookback(side Side, k float64, mode LookbackMode) Evaluator {
	return func(path []float64) float64 {
		maxS, minS := path[0], path[0]
		for _, s := range path {
			if s > maxS {
				maxS = s
			}
			if s < minS {
				minS = s
			}
		}
		terminal := path[len(path)-1]

		if mode == Fixed {
			if side == Call {
				return math.Max(maxS-k, 0)
			}
			return math.Max(k-minS, 0)
		}

		// Floating strike: always non-negative by construction.
		if side == Call {
			return terminal - minS
		}
		return maxS - terminal
	}
}
