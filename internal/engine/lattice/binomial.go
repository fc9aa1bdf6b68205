// Package lattice implements the Cox–Ross–Rubinstein recombining
// binomial lattice kernel: forward price construction followed by
// backward induction with optional early-exercise comparison.
package lattice

import (
	"math"

	"github.com/duskcap/optionengine/internal/engine/market"
	"github.com/duskcap/optionengine/internal/engine/payoff"
)

// ExercisePolicy selects when early exercise is compared against
// continuation value during backward induction.
type ExercisePolicy int

const (
	European ExercisePolicy = iota
	American
	Bermudan
)

// Request configures one lattice pricing call.
type Request struct {
	Underlying market.Underlying
	Strike     float64
	Side       payoff.Side
	Steps      int
	Policy     ExercisePolicy

	// ExerciseDates is used only when Policy == Bermudan: strictly
	// increasing times in (0, T]; a date coinciding with T is the
	// terminal exercise, already implicit in every policy.
	ExerciseDates []float64
}

// Price builds the CRR tree and rolls it back in place (O(N) working
// memory), returning the discounted option value at node (0,0).
func Price(req Request) float64 {
	n := req.Steps
	if n < 1 {
		n = 1
	}
	u := req.Underlying
	dt := u.T / float64(n)
	vol := u.Vol
	up := math.Exp(vol * math.Sqrt(dt))
	down := 1 / up
	growth := math.Exp(u.Rate * dt)
	p := (growth - down) / (up - down)
	discount := math.Exp(-u.Rate * dt)

	exerciseStep := bermudanExerciseSteps(req.ExerciseDates, dt, n)

	// values[j] holds the option value at the current level's node j
	// (0..i), counting down from terminal prices.
	values := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		s := terminalPrice(u.Spot, up, down, n, j)
		values[j] = payoff.Intrinsic(req.Side, s, req.Strike)
	}

	for i := n - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			continuation := discount * (p*values[j] + (1-p)*values[j+1])
			values[j] = continuation

			if req.Policy == American || (req.Policy == Bermudan && exerciseStep[i]) {
				s := terminalPrice(u.Spot, up, down, i, j)
				intrinsic := payoff.Intrinsic(req.Side, s, req.Strike)
				if intrinsic > values[j] {
					values[j] = intrinsic
				}
			}
		}
	}

	if values[0] < 0 {
		return 0
	}
	return values[0]
}

// terminalPrice returns the underlying price at node (i, j): i steps
// forward from the root, j down-moves among them.
func terminalPrice(spot, up, down float64, i, j int) float64 {
	return spot * math.Pow(up, float64(i-j)) * math.Pow(down, float64(j))
}

// bermudanExerciseSteps marks which of the n step-indices (0..n-1, the
// node time BEFORE rolling into it during backward induction corresponds
// to time i*dt) coincide with a supplied exercise date within dt/2.
func bermudanExerciseSteps(dates []float64, dt float64, n int) []bool {
	marks := make([]bool, n)
	for _, d := range dates {
		step := int(math.Round(d / dt))
		if step >= 0 && step < n {
			if math.Abs(float64(step)*dt-d) <= dt/2 {
				marks[step] = true
			}
		}
	}
	return marks
}
