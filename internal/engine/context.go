// Package engine implements the option-pricing core: the Context
// configuration carrier, the Method backend-selection interface that
// unifies the Monte Carlo, binomial lattice, and LSM kernels, and the
// product descriptors the kernels price against.
package engine

import "github.com/duskcap/optionengine/internal/engine/rng"

// DefaultBinomialSteps is the Context's default lattice step count,
// verified by tests (spec.md §3).
const DefaultBinomialSteps = 100

// DefaultNumSimulations is the Context's default Monte Carlo path count.
const DefaultNumSimulations = 100_000

// Context is the mutable configuration carrier for a pricing session. Its
// scalar fields, together with the seed, fully determine a pricing call's
// numerical output up to floating-point reproducibility (spec.md §3). The
// Context owns the RNG stream: LSM calls and Monte Carlo calls with
// fewer than 2000 simulations advance it. Monte Carlo calls with NumSimulations >= 2000
// run in parallel on sub-streams split from the stream's current state
// and leave the stream itself unadvanced, so two such calls in a row
// draw the same random numbers. Lattice calls draw nothing. Mutating the
// Context after a call does not retroactively affect completed calls.
//
// Context is not safe for concurrent use by multiple callers — a caller
// wishing to parallelize across products must hold one Context per
// worker (spec.md §5).
type Context struct {
	seed uint64
	src  *rng.Source

	numSimulations int
	binomialSteps  int

	antitheticEnabled      bool
	controlVariatesEnabled bool
	stratifiedEnabled      bool

	importanceSamplingEnabled bool
	isDriftShift              float64
}

// NewContext returns a freshly configured Context with the spec-mandated
// defaults: 100,000 simulations, 100 binomial steps, every
// variance-reduction flag off, and seed 0 (callers that need
// reproducibility across runs should call SetSeed explicitly).
func NewContext() *Context {
	c := &Context{
		numSimulations: DefaultNumSimulations,
		binomialSteps:  DefaultBinomialSteps,
	}
	c.src = rng.New(c.seed)
	return c
}

// SetSeed resets the Context's RNG stream to the one deterministically
// derived from seed. Subsequent pricing calls are reproducible for a
// given seed and configuration; prior calls are unaffected.
func (c *Context) SetSeed(seed uint64) {
	c.seed = seed
	c.src.Reseed(seed)
}

// Seed returns the Context's current seed.
func (c *Context) Seed() uint64 { return c.seed }

// Source returns the Context's owned RNG stream. Kernels draw from it
// directly, advancing its state; it must not be shared across Contexts.
func (c *Context) Source() *rng.Source { return c.src }

// NumSimulations returns the configured Monte Carlo path count.
func (c *Context) NumSimulations() int { return c.numSimulations }

// SetNumSimulations sets the Monte Carlo path count for subsequent calls.
func (c *Context) SetNumSimulations(n int) {
	if n > 0 {
		c.numSimulations = n
	}
}

// BinomialSteps returns the configured lattice step count.
func (c *Context) BinomialSteps() int { return c.binomialSteps }

// SetBinomialSteps sets the lattice step count for subsequent calls.
func (c *Context) SetBinomialSteps(n int) {
	if n > 0 {
		c.binomialSteps = n
	}
}

// AntitheticEnabled reports whether antithetic path pairing is active.
func (c *Context) AntitheticEnabled() bool { return c.antitheticEnabled }

// SetAntithetic enables or disables antithetic path pairing.
func (c *Context) SetAntithetic(enabled bool) { c.antitheticEnabled = enabled }

// ControlVariatesEnabled reports whether the terminal-stock control
// variate is active.
func (c *Context) ControlVariatesEnabled() bool { return c.controlVariatesEnabled }

// SetControlVariates enables or disables the control-variate correction.
func (c *Context) SetControlVariates(enabled bool) { c.controlVariatesEnabled = enabled }

// StratifiedEnabled reports whether stratified sampling of the first
// increment is active.
func (c *Context) StratifiedEnabled() bool { return c.stratifiedEnabled }

// SetStratifiedSampling enables or disables stratified sampling.
func (c *Context) SetStratifiedSampling(enabled bool) { c.stratifiedEnabled = enabled }

// ImportanceSampling reports whether importance sampling is active and
// its configured drift shift.
func (c *Context) ImportanceSampling() (enabled bool, driftShift float64) {
	return c.importanceSamplingEnabled, c.isDriftShift
}

// SetImportanceSampling enables or disables importance sampling with the
// given drift shift (applied only while enabled).
func (c *Context) SetImportanceSampling(enabled bool, driftShift float64) {
	c.importanceSamplingEnabled = enabled
	c.isDriftShift = driftShift
}
