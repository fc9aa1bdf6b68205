// Package gbm generates risk-neutral geometric Brownian motion price paths
// for the Monte Carlo kernel, with optional antithetic pairing, stratified
// sampling of the first increment, and an importance-sampling drift shift.
package gbm

import (
	"math"

	"github.com/duskcap/optionengine/internal/engine/rng"
)

// Params configures a single path draw. Steps and Dt are derived by the
// caller as Steps = M, Dt = T/M so every payoff evaluator shares the same
// observation grid.
type Params struct {
	Spot  float64
	Rate  float64
	Vol   float64
	T     float64
	Steps int

	// ImportanceSampling, when true, shifts the drift by DriftShift and
	// causes Generate to populate Path.Weight with the likelihood-ratio
	// correction needed to keep the estimator unbiased under the
	// original measure.
	ImportanceSampling bool
	DriftShift         float64

	// Stratified, when true, draws the path's first increment from
	// stratum StratumIndex of StratumCount equal partitions of (0,1)
	// instead of an ordinary uniform draw. Known to bias path-dependent
	// payoffs (spec-acknowledged); remaining increments are ordinary.
	Stratified   bool
	StratumIndex int
	StratumCount int
}

// Path is a single simulated price path: Prices[0] is the spot,
// Prices[len-1] is the terminal price. Weight is the importance-sampling
// likelihood-ratio correction (1 when importance sampling is disabled).
type Path struct {
	Prices []float64
	Weight float64
}

// Generate draws one GBM path per Params. It consumes Steps normal
// deviates from src (or Steps-1 plus one stratified draw, when
// Stratified is set).
func Generate(src *rng.Source, p Params) Path {
	prices := make([]float64, p.Steps+1)
	prices[0] = p.Spot

	dt := p.T / float64(p.Steps)
	sqrtDt := math.Sqrt(dt)

	mu := p.Rate
	if p.ImportanceSampling {
		mu += p.DriftShift
	}
	drift := (mu - 0.5*p.Vol*p.Vol) * dt

	sumZ := 0.0
	level := prices[0]
	for i := 0; i < p.Steps; i++ {
		z := nextIncrement(src, p, i)
		sumZ += z
		level *= math.Exp(drift + p.Vol*sqrtDt*z)
		prices[i+1] = level
	}

	weight := 1.0
	if p.ImportanceSampling && p.DriftShift != 0 {
		weight = likelihoodRatio(p, sumZ)
	}

	return Path{Prices: prices, Weight: weight}
}

// GeneratePair draws an antithetic pair: path' reuses path's normal
// draws negated. The pair shares one Source consumption of Steps
// deviates (not 2*Steps), since path' is derived, not independently
// drawn.
func GeneratePair(src *rng.Source, p Params) (Path, Path) {
	prices := make([]float64, p.Steps+1)
	antiPrices := make([]float64, p.Steps+1)
	prices[0] = p.Spot
	antiPrices[0] = p.Spot

	dt := p.T / float64(p.Steps)
	sqrtDt := math.Sqrt(dt)

	mu := p.Rate
	if p.ImportanceSampling {
		mu += p.DriftShift
	}
	drift := (mu - 0.5*p.Vol*p.Vol) * dt

	sumZ, sumNegZ := 0.0, 0.0
	level, antiLevel := prices[0], antiPrices[0]
	for i := 0; i < p.Steps; i++ {
		z := nextIncrement(src, p, i)
		sumZ += z
		sumNegZ += -z

		level *= math.Exp(drift + p.Vol*sqrtDt*z)
		antiLevel *= math.Exp(drift + p.Vol*sqrtDt*(-z))

		prices[i+1] = level
		antiPrices[i+1] = antiLevel
	}

	weight, antiWeight := 1.0, 1.0
	if p.ImportanceSampling && p.DriftShift != 0 {
		weight = likelihoodRatio(p, sumZ)
		antiWeight = likelihoodRatio(p, sumNegZ)
	}

	return Path{Prices: prices, Weight: weight}, Path{Prices: antiPrices, Weight: antiWeight}
}

// nextIncrement draws the i-th standard normal increment, applying
// stratification to the first increment (i==0) when requested.
func nextIncrement(src *rng.Source, p Params, i int) float64 {
	if p.Stratified && i == 0 && p.StratumCount > 0 {
		u := src.Uniform()
		stratumUniform := (float64(p.StratumIndex) + u) / float64(p.StratumCount)
		return rng.InverseNormalCDF(stratumUniform)
	}
	return src.Normal()
}

// likelihoodRatio computes exp(-(mu/sigma)*sum(Z)*sqrt(dt) - 0.5*mu^2*T/sigma^2),
// the Girsanov correction that keeps E[payoff * weight] unbiased under the
// original (non-shifted) measure when the path was simulated under drift
// shift mu = DriftShift.
func likelihoodRatio(p Params, sumZ float64) float64 {
	dt := p.T / float64(p.Steps)
	sqrtDt := math.Sqrt(dt)
	theta := p.DriftShift / p.Vol
	exponent := -theta*sumZ*sqrtDt - 0.5*theta*theta*p.T
	return math.Exp(exponent)
}
