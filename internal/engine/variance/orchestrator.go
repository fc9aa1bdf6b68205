// Package variance implements the payoff-level variance-reduction
// orchestrator: it accumulates weighted payoff/terminal-price pairs and,
// when control variates are enabled, applies the optimal-beta correction
// against the analytic expectation of the terminal stock price. Path-level
// VR (antithetic pairing, stratification) lives in package gbm and is
// simply fed into the same accumulator pair by pair.
package variance

// Accumulator aggregates one Monte Carlo run's (payoff, terminal price,
// importance-sampling weight) observations and produces the undiscounted
// mean estimator, optionally corrected by the terminal-stock control
// variate.
type Accumulator struct {
	controlVariates bool

	n int

	sumWeightedPayoff float64
	sumPayoff         float64
	sumPayoffSq       float64

	sumTerminal         float64
	sumTerminalSq       float64
	sumPayoffTerminal   float64
	sumWeightedTerminal float64
}

// NewAccumulator creates an Accumulator. When controlVariates is true,
// Estimate applies the terminal-stock control-variate correction.
func NewAccumulator(controlVariates bool) *Accumulator {
	return &Accumulator{controlVariates: controlVariates}
}

// Add records one observation: payoff is the raw evaluated payoff for a
// path, terminalStock is that path's
// final underlying price, and weight is the path's likelihood-ratio
// weight (1 when importance sampling is disabled). Add multiplies payoff
// by weight internally so callers pass the raw, unweighted payoff.
func (a *Accumulator) Add(payoff, terminalStock, weight float64) {
	weighted := payoff * weight
	a.n++
	a.sumWeightedPayoff += weighted
	a.sumPayoff += payoff
	a.sumPayoffSq += payoff * payoff
	a.sumTerminal += terminalStock
	a.sumTerminalSq += terminalStock * terminalStock
	a.sumPayoffTerminal += payoff * terminalStock
	a.sumWeightedTerminal += terminalStock * weight
}

// Count returns the number of observations recorded so far.
func (a *Accumulator) Count() int { return a.n }

// Merge folds another Accumulator's observations into this one — used to
// combine per-worker accumulators after a parallelized path loop.
func (a *Accumulator) Merge(other *Accumulator) {
	a.n += other.n
	a.sumWeightedPayoff += other.sumWeightedPayoff
	a.sumPayoff += other.sumPayoff
	a.sumPayoffSq += other.sumPayoffSq
	a.sumTerminal += other.sumTerminal
	a.sumTerminalSq += other.sumTerminalSq
	a.sumPayoffTerminal += other.sumPayoffTerminal
	a.sumWeightedTerminal += other.sumWeightedTerminal
}

// RawMean returns the unweighted sample mean of payoffs, ignoring control
// variates. Exposed for variance-effectiveness diagnostics.
func (a *Accumulator) RawMean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sumPayoff / float64(a.n)
}

// SampleVariance returns the sample variance of the raw (uncorrected,
// unweighted) payoffs — used by tests to compare variance-reduction
// effectiveness across configurations.
func (a *Accumulator) SampleVariance() float64 {
	if a.n < 2 {
		return 0
	}
	n := float64(a.n)
	mean := a.sumPayoff / n
	meanSq := a.sumPayoffSq / n
	v := meanSq - mean*mean
	if v < 0 {
		v = 0
	}
	return v * n / (n - 1)
}

// Estimate returns the (possibly control-variate corrected) estimator of
// E[payoff] under the risk-neutral measure, undiscounted. expectedTerminal
// is the analytic E[S_T] = S*e^{rT} used as the control variate's known
// expectation.
func (a *Accumulator) Estimate(expectedTerminal float64) float64 {
	if a.n == 0 {
		return 0
	}
	n := float64(a.n)
	weightedMean := a.sumWeightedPayoff / n

	if !a.controlVariates {
		return weightedMean
	}

	terminalMean := a.sumWeightedTerminal / n
	payoffMean := a.sumPayoff / n

	covariance := a.sumPayoffTerminal/n - payoffMean*terminalMean
	termVariance := a.sumTerminalSq/n - terminalMean*terminalMean

	if termVariance <= 0 {
		return weightedMean
	}

	beta := covariance / termVariance
	return weightedMean - beta*(terminalMean-expectedTerminal)
}
