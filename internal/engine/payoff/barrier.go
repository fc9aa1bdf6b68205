package payoff

import "math"

// Barrier returns the continuous-monitor (approximated by checking every
// simulated step) barrier payoff evaluator. h is the barrier level. When
// an out-type option knocks out, the evaluator returns rebate*e^(-r*t) in
// place of zero; the Monte Carlo kernel then discounts that value by
// e^(-rT) like any other payoff. In-type options that never activate pay
// zero with no rebate, matching spec.md §4.4.
func Barrier(side Side, k, h, rebate, r, t float64, kind BarrierType) Evaluator {
	discountedRebate := rebate * math.Exp(-r*t)

	return func(path []float64) float64 {
		knocked := false
		switch kind {
		case UpOut, UpIn:
			for _, s := range path {
				if s >= h {
					knocked = true
					break
				}
			}
		case DownOut, DownIn:
			for _, s := range path {
				if s <= h {
					knocked = true
					break
				}
			}
		}

		vanilla := func() float64 {
			terminal := path[len(path)-1]
			if side == Call {
				return math.Max(terminal-k, 0)
			}
			return math.Max(k-terminal, 0)
		}

		switch kind {
		case UpOut, DownOut:
			if knocked {
				return discountedRebate
			}
			return vanilla()
		case UpIn, DownIn:
			if knocked {
				return vanilla()
			}
			return 0
		default:
			return 0
		}
	}
}
