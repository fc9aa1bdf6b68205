// Package refprice provides the closed-form Black–Scholes–Merton price,
// used only as a test oracle for the Monte Carlo and lattice kernels —
// never by the kernels themselves. Greeks are deliberately out of scope
// (spec.md §1 Non-goals).
package refprice

import (
	"math"

	"github.com/duskcap/optionengine/internal/engine/payoff"
)

// BlackScholes returns the closed-form European option price under
// geometric Brownian motion with continuously-compounded rate r.
func BlackScholes(side payoff.Side, spot, strike, r, vol, t float64) float64 {
	d1 := (math.Log(spot/strike) + (r+0.5*vol*vol)*t) / (vol * math.Sqrt(t))
	d2 := d1 - vol*math.Sqrt(t)

	if side == payoff.Call {
		return spot*normCDF(d1) - strike*math.Exp(-r*t)*normCDF(d2)
	}
	return strike*math.Exp(-r*t)*normCDF(-d2) - spot*normCDF(-d1)
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
