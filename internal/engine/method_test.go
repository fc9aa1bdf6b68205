package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskcap/optionengine/internal/engine"
	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/payoff"
)

func TestRegistryListsBuiltinMethods(t *testing.T) {
	r := engine.NewRegistry()
	names := r.List()
	require.Contains(t, names, "monte-carlo")
	require.Contains(t, names, "binomial-lattice")
	require.Contains(t, names, "lsm")
}

func TestRegistryGetUnknownMethodFails(t *testing.T) {
	r := engine.NewRegistry()
	_, ok := r.Get("quantum-annealer")
	require.False(t, ok)
}

func TestBinomialMethodRejectsExoticPayoffs(t *testing.T) {
	r := engine.NewRegistry()
	m, ok := r.Get("binomial-lattice")
	require.True(t, ok)

	inst := engine.Instrument{
		Underlying: market.Underlying{Spot: 100, Rate: 0.05, Vol: 0.2, T: 1.0},
		Strike:     100,
		Side:       payoff.Call,
		Style:      engine.European,
		PayoffKind: engine.Barrier,
	}
	require.False(t, m.Supports(inst))

	_, err := m.Price(engine.NewContext(), inst)
	require.Error(t, err)
}
