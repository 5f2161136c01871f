package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is an autonomous first-order ODE system.
type System interface {
	Derive(x State) State
	Dim() int
}

// Func is the rate of change of a single state component.
type Func func(x State) float64

// DerivativeSet holds one Func per state component. Component j of the
// derivative is DerivativeSet[j] evaluated on the full state.
type DerivativeSet []Func

func (d DerivativeSet) Dim() int { return len(d) }

func (d DerivativeSet) Derive(x State) State {
	dx := make(State, len(d))
	for j, f := range d {
		dx[j] = f(x)
	}
	return dx
}

type Integrator interface {
	Step(sys System, x State, h float64) State
}

// Configurable is implemented by systems with tunable coefficients.
type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// CheckDim reports whether x fits sys.
func CheckDim(sys System, x State) error {
	if sys.Dim() != len(x) {
		return fmt.Errorf("%w: system has %d components, state has %d", ErrDimensionMismatch, sys.Dim(), len(x))
	}
	return nil
}
