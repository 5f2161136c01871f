package analysis

import (
	"math"

	"github.com/san-kum/chaosplot/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories
// 2. Measure their divergence each step
// 3. λ ≈ (1/t) * ln(|δx(t)/δx(0)|), renormalizing δx as it grows
//
// Steps where the trajectories coincide restart the offset and are left
// out of the average. It returns NaN if either trajectory stops being
// finite.
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	h float64,
	steps int,
	perturbation float64,
) float64 {
	if len(x0) == 0 || steps <= 0 || perturbation <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	sumLog := 0.0
	measured := 0
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, h)
		xp = integ.Step(sys, xp, h)
		if !x.IsValid() || !xp.IsValid() {
			return math.NaN()
		}

		delta := xp.Add(x.Scale(-1))
		sep := delta.Norm()
		if sep == 0 {
			// trajectories merged numerically; restart the offset
			xp = x.Clone()
			xp[0] += perturbation
			continue
		}

		sumLog += math.Log(sep / d0)
		measured++

		// keep the offset at d0 so the next step measures local growth
		xp = x.Add(delta.Scale(d0 / sep))
	}

	if measured == 0 {
		return 0
	}
	return sumLog / (float64(measured) * h)
}
