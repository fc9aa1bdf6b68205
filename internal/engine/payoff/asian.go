package payoff

import "math"

// AsianArithmetic returns the arithmetic-average Asian payoff evaluator.
// The average is taken over path[1:] — the n observation points
// following spot — so the caller must generate paths with exactly n
// steps on the observation grid (spec.md §4.2's Δt = T/n).
func AsianArithmetic(side Side, k float64) Evaluator {
	return func(path []float64) float64 {
		obs := path[1:]
		sum := 0.0
		for _, s := range obs {
			sum += s
		}
		avg := sum / float64(len(obs))

		if side == Call {
			return math.Max(avg-k, 0)
		}
		return math.Max(k-avg, 0)
	}
}
