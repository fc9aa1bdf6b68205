// Package market defines the per-call market parameters shared by every
// kernel. These are never persisted on the Context — they travel with
// each pricing call (spec.md §3).
package market

import "math"

// Underlying carries the market parameters common to every product:
// spot price, continuously-compounded risk-free rate, volatility, and
// time to maturity in years. Strike is product-specific and travels
// alongside Underlying in each kernel's own parameters.
type Underlying struct {
	Spot float64
	Rate float64
	Vol  float64
	T    float64
}

// ExpectedTerminal returns the risk-neutral analytic expectation of the
// terminal stock price, E[S_T] = S*e^(rT), used as the control variate's
// known expectation (spec.md §4.3).
func (u Underlying) ExpectedTerminal() float64 {
	return u.Spot * math.Exp(u.Rate*u.T)
}
