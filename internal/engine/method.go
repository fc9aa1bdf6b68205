package engine

import (
	"fmt"

	"github.com/duskcap/optionengine/internal/engine/lattice"
	"github.com/duskcap/optionengine/internal/engine/lsm"
	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/mc"
	"github.com/duskcap/optionengine/internal/engine/payoff"
)

// ExerciseStyle selects when an option may be exercised.
type ExerciseStyle int

const (
	European ExerciseStyle = iota
	American
	Bermudan
)

// PayoffKind selects the product family priced by a Monte Carlo method;
// the lattice and LSM methods only ever price Vanilla instruments.
type PayoffKind int

const (
	Vanilla PayoffKind = iota
	AsianArithmetic
	Barrier
	Lookback
)

// Instrument fully describes one pricing call: the underlying market
// state, strike, side, exercise style, and the product-specific knobs
// needed by whichever Method prices it. Not every field is meaningful
// for every PayoffKind/Style combination — operations.go only sets the
// ones its operation needs.
type Instrument struct {
	Underlying market.Underlying
	Strike     float64
	Side       payoff.Side
	Style      ExerciseStyle
	PayoffKind PayoffKind

	// ExerciseDates holds Bermudan exercise times, or — for the LSM
	// method pricing an American instrument — is left nil in favor of
	// NumExercisePoints equally spaced dates.
	ExerciseDates     []float64
	NumExercisePoints int

	// Steps overrides the method's default observation/lattice grid
	// (0 means "use the method's default").
	Steps int

	NumObservations int

	BarrierLevel  float64
	BarrierRebate float64
	BarrierKind   payoff.BarrierType

	LookbackMode payoff.LookbackMode
}

// Method is the unified pricing-backend interface: every numerical
// kernel (Monte Carlo, binomial lattice, Longstaff–Schwartz) is wrapped
// behind the same Name/Supports/Price contract so callers can select a
// backend by name without the dispatcher knowing kernel internals.
type Method interface {
	Name() string
	Supports(inst Instrument) bool
	Price(c *Context, inst Instrument) (float64, error)
}

// Registry resolves a Method by name, mirroring the provider lookup used
// for hardware backend selection: register once at startup, select by
// name at call time.
type Registry struct {
	methods map[string]Method
}

// NewRegistry returns a Registry pre-populated with the three built-in
// kernels.
func NewRegistry() *Registry {
	r := &Registry{methods: make(map[string]Method)}
	r.Register(monteCarloMethod{})
	r.Register(binomialMethod{})
	r.Register(lsmMethod{})
	return r
}

func (r *Registry) Register(m Method) { r.methods[m.Name()] = m }

func (r *Registry) Get(name string) (Method, bool) {
	m, ok := r.methods[name]
	return m, ok
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	return names
}

// ------------------------------------------------------------------
// Monte Carlo method
// ------------------------------------------------------------------

const defaultMCSteps = 252

type monteCarloMethod struct{}

func (monteCarloMethod) Name() string { return "monte-carlo" }

func (monteCarloMethod) Supports(inst Instrument) bool {
	return inst.Style == European
}

func (monteCarloMethod) Price(c *Context, inst Instrument) (float64, error) {
	evaluator, steps, err := monteCarloEvaluator(inst)
	if err != nil {
		return 0, err
	}

	enabled, driftShift := c.ImportanceSampling()
	price := mc.Price(mc.Request{
		Source:             c.Source(),
		NumPaths:           c.NumSimulations(),
		Steps:              steps,
		Underlying:         inst.Underlying,
		Evaluator:          evaluator,
		Antithetic:         c.AntitheticEnabled(),
		ControlVariates:    c.ControlVariatesEnabled() && inst.PayoffKind == Vanilla,
		Stratified:         c.StratifiedEnabled(),
		ImportanceSampling: enabled,
		DriftShift:         driftShift,
		Parallel:           c.NumSimulations() >= 2000,
	})
	return price, nil
}

func monteCarloEvaluator(inst Instrument) (payoff.Evaluator, int, error) {
	switch inst.PayoffKind {
	case Vanilla:
		steps := inst.Steps
		if steps <= 0 {
			steps = defaultMCSteps
		}
		return payoff.European(inst.Side, inst.Strike), steps, nil
	case AsianArithmetic:
		steps := inst.NumObservations
		if steps <= 0 {
			return nil, 0, fmt.Errorf("engine: asian arithmetic requires num_observations > 0")
		}
		return payoff.AsianArithmetic(inst.Side, inst.Strike), steps, nil
	case Barrier:
		steps := inst.Steps
		if steps <= 0 {
			steps = defaultMCSteps
		}
		u := inst.Underlying
		ev := payoff.Barrier(inst.Side, inst.Strike, inst.BarrierLevel, inst.BarrierRebate, u.Rate, u.T, inst.BarrierKind)
		return ev, steps, nil
	case Lookback:
		steps := inst.Steps
		if steps <= 0 {
			steps = defaultMCSteps
		}
		return payoff.Lookback(inst.Side, inst.Strike, inst.LookbackMode), steps, nil
	default:
		return nil, 0, fmt.Errorf("engine: unknown payoff kind %d", inst.PayoffKind)
	}
}

// ------------------------------------------------------------------
// Binomial lattice method
// ------------------------------------------------------------------

type binomialMethod struct{}

func (binomialMethod) Name() string { return "binomial-lattice" }

func (binomialMethod) Supports(inst Instrument) bool {
	return inst.PayoffKind == Vanilla
}

func (binomialMethod) Price(c *Context, inst Instrument) (float64, error) {
	if inst.PayoffKind != Vanilla {
		return 0, fmt.Errorf("engine: binomial lattice only prices vanilla instruments")
	}

	steps := inst.Steps
	if steps <= 0 {
		steps = c.BinomialSteps()
	}

	var policy lattice.ExercisePolicy
	switch inst.Style {
	case European:
		policy = lattice.European
	case American:
		policy = lattice.American
	case Bermudan:
		policy = lattice.Bermudan
	}

	price := lattice.Price(lattice.Request{
		Underlying:    inst.Underlying,
		Strike:        inst.Strike,
		Side:          inst.Side,
		Steps:         steps,
		Policy:        policy,
		ExerciseDates: inst.ExerciseDates,
	})
	return price, nil
}

// ------------------------------------------------------------------
// Longstaff–Schwartz method
// ------------------------------------------------------------------

type lsmMethod struct{}

func (lsmMethod) Name() string { return "lsm" }

func (lsmMethod) Supports(inst Instrument) bool {
	return inst.PayoffKind == Vanilla && inst.Style != European
}

func (lsmMethod) Price(c *Context, inst Instrument) (float64, error) {
	if inst.PayoffKind != Vanilla {
		return 0, fmt.Errorf("engine: LSM only prices vanilla instruments")
	}

	numDates := inst.NumExercisePoints
	if len(inst.ExerciseDates) > 0 {
		numDates = len(inst.ExerciseDates)
	}
	if numDates <= 0 {
		numDates = lsm.DefaultExerciseDates
	}

	enabled, driftShift := c.ImportanceSampling()
	price := lsm.Price(lsm.Request{
		Source:             c.Source(),
		NumPaths:           c.NumSimulations(),
		NumDates:           numDates,
		Underlying:         inst.Underlying,
		Strike:             inst.Strike,
		Side:               inst.Side,
		Antithetic:         c.AntitheticEnabled(),
		ImportanceSampling: enabled,
		DriftShift:         driftShift,
	})
	return price, nil
}
