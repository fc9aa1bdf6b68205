// Package mc implements the Monte Carlo pricing kernel: the outer loop
// that draws paths through package gbm, evaluates a payoff.Evaluator,
// aggregates through package variance, discounts, and returns the mean
// estimator.
package mc

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/duskcap/optionengine/internal/engine/gbm"
	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/payoff"
	"github.com/duskcap/optionengine/internal/engine/rng"
	"github.com/duskcap/optionengine/internal/engine/variance"
)

// Request configures one Monte Carlo pricing call. Source is the owning
// Context's RNG stream; Steps is the path's observation-grid size
// (spec.md §4.5 defaults this to 252 for path-independent products and
// to the observation count for Asian products).
type Request struct {
	Source    *rng.Source
	NumPaths  int
	Steps     int
	Underlying market.Underlying
	Evaluator  payoff.Evaluator

	Antithetic      bool
	ControlVariates bool
	Stratified      bool

	ImportanceSampling bool
	DriftShift         float64

	// Parallel, when true, splits the path loop across available CPUs
	// using independently seeded sub-streams (spec.md §5). The reported
	// price is deterministic for a given (seed, GOMAXPROCS) pair; the
	// parent Source's state is not advanced in that mode.
	Parallel bool
}

// Price runs the outer Monte Carlo loop and returns the discounted mean
// estimator. It never returns an error: degenerate inputs are permitted
// to produce NaN or an implementation-defined result per spec.md §7.
func Price(req Request) float64 {
	if req.Parallel && req.NumPaths >= 2000 {
		return priceParallel(req)
	}
	return priceSequential(req, req.Source, req.NumPaths)
}

func priceSequential(req Request, src *rng.Source, numPaths int) float64 {
	acc := variance.NewAccumulator(req.ControlVariates)
	params := pathParams(req)

	if req.Antithetic {
		pairs := numPaths / 2
		for i := 0; i < pairs; i++ {
			p := params
			p.StratumIndex = i
			a, b := gbm.GeneratePair(src, p)
			acc.Add(req.Evaluator(a.Prices), a.Prices[len(a.Prices)-1], a.Weight)
			acc.Add(req.Evaluator(b.Prices), b.Prices[len(b.Prices)-1], b.Weight)
		}
	} else {
		for i := 0; i < numPaths; i++ {
			p := params
			p.StratumIndex = i
			path := gbm.Generate(src, p)
			acc.Add(req.Evaluator(path.Prices), path.Prices[len(path.Prices)-1], path.Weight)
		}
	}

	return discount(req, acc)
}

// priceParallel splits the path loop across worker goroutines, each with
// an independently derived sub-stream of req.Source, and merges their
// accumulators before discounting.
func priceParallel(req Request) float64 {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > req.NumPaths {
		workers = req.NumPaths
	}

	base := req.NumPaths / workers
	remainder := req.NumPaths % workers

	results := make([]*variance.Accumulator, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		share := base
		if w < remainder {
			share++
		}
		g.Go(func() error {
			sub := req.Source.Split(w)
			acc := variance.NewAccumulator(req.ControlVariates)
			params := pathParams(req)

			if req.Antithetic {
				pairs := share / 2
				for i := 0; i < pairs; i++ {
					p := params
					p.StratumIndex = w*base + i
					a, b := gbm.GeneratePair(sub, p)
					acc.Add(req.Evaluator(a.Prices), a.Prices[len(a.Prices)-1], a.Weight)
					acc.Add(req.Evaluator(b.Prices), b.Prices[len(b.Prices)-1], b.Weight)
				}
			} else {
				for i := 0; i < share; i++ {
					p := params
					p.StratumIndex = w*base + i
					path := gbm.Generate(sub, p)
					acc.Add(req.Evaluator(path.Prices), path.Prices[len(path.Prices)-1], path.Weight)
				}
			}
			results[w] = acc
			return nil
		})
	}
	_ = g.Wait()

	merged := variance.NewAccumulator(req.ControlVariates)
	for _, acc := range results {
		merged.Merge(acc)
	}
	return discount(req, merged)
}

func pathParams(req Request) gbm.Params {
	return gbm.Params{
		Spot:               req.Underlying.Spot,
		Rate:               req.Underlying.Rate,
		Vol:                req.Underlying.Vol,
		T:                  req.Underlying.T,
		Steps:              req.Steps,
		ImportanceSampling: req.ImportanceSampling,
		DriftShift:         req.DriftShift,
		Stratified:         req.Stratified,
		StratumCount:       req.NumPaths,
	}
}

func discount(req Request, acc *variance.Accumulator) float64 {
	estimate := acc.Estimate(req.Underlying.ExpectedTerminal())
	price := math.Exp(-req.Underlying.Rate*req.Underlying.T) * estimate
	if price < 0 {
		return 0
	}
	return price
}
