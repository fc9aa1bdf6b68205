package api

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/duskcap/optionengine/internal/engine"
)

// Handle is an opaque Context reference, for binding layers that cannot
// hold a Go pointer directly (spec.md §9: "the spec prefers [the native
// API] internally with [a handle-based surface] as a thin shim").
type Handle uint64

var (
	handles   sync.Map // Handle -> *engine.Context
	nextHandle uint64
)

// ContextNew allocates a new Context and returns a handle to it.
func ContextNew() Handle {
	h := Handle(atomic.AddUint64(&nextHandle, 1))
	handles.Store(h, engine.NewContext())
	return h
}

// ContextFree releases the Context referenced by h. Using h afterward is
// an error.
func ContextFree(h Handle) {
	handles.Delete(h)
}

func resolve(h Handle) (*engine.Context, error) {
	v, ok := handles.Load(h)
	if !ok {
		return nil, fmt.Errorf("api: unknown or freed context handle %d", h)
	}
	return v.(*engine.Context), nil
}

// ContextSetSeed reseeds the Context referenced by h.
func ContextSetSeed(h Handle, seed uint64) error {
	c, err := resolve(h)
	if err != nil {
		return err
	}
	c.SetSeed(seed)
	return nil
}

// ContextSetNumSimulations sets the Monte Carlo path count on h's Context.
func ContextSetNumSimulations(h Handle, n int) error {
	c, err := resolve(h)
	if err != nil {
		return err
	}
	c.SetNumSimulations(n)
	return nil
}

// ContextSetBinomialSteps sets the lattice step count on h's Context.
func ContextSetBinomialSteps(h Handle, n int) error {
	c, err := resolve(h)
	if err != nil {
		return err
	}
	c.SetBinomialSteps(n)
	return nil
}

// ContextSetAntithetic toggles antithetic path pairing on h's Context.
func ContextSetAntithetic(h Handle, enabled bool) error {
	c, err := resolve(h)
	if err != nil {
		return err
	}
	c.SetAntithetic(enabled)
	return nil
}

// ContextSetControlVariates toggles the control-variate correction on
// h's Context.
func ContextSetControlVariates(h Handle, enabled bool) error {
	c, err := resolve(h)
	if err != nil {
		return err
	}
	c.SetControlVariates(enabled)
	return nil
}

// ContextSetStratifiedSampling toggles stratified sampling on h's Context.
func ContextSetStratifiedSampling(h Handle, enabled bool) error {
	c, err := resolve(h)
	if err != nil {
		return err
	}
	c.SetStratifiedSampling(enabled)
	return nil
}

// ContextSetImportanceSampling configures importance sampling on h's
// Context.
func ContextSetImportanceSampling(h Handle, enabled bool, driftShift float64) error {
	c, err := resolve(h)
	if err != nil {
		return err
	}
	c.SetImportanceSampling(enabled, driftShift)
	return nil
}

// EuropeanCallHandle is the handle-surface analogue of EuropeanCall, for
// binding layers that address Contexts by handle rather than pointer.
func EuropeanCallHandle(h Handle, s, k, r, vol, t float64) (Result, error) {
	c, err := resolve(h)
	if err != nil {
		return Result{}, err
	}
	return EuropeanCall(c, s, k, r, vol, t), nil
}

// EuropeanPutHandle is the handle-surface analogue of EuropeanPut.
func EuropeanPutHandle(h Handle, s, k, r, vol, t float64) (Result, error) {
	c, err := resolve(h)
	if err != nil {
		return Result{}, err
	}
	return EuropeanPut(c, s, k, r, vol, t), nil
}
