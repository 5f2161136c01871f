package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/chaosplot/internal/dynamo"
)

// Series holds the values of one state component, one per step.
type Series struct {
	Component int
	Step      float64
	Values    []float64
}

// Times returns the simulation time of each value.
func (s *Series) Times() []float64 {
	t := make([]float64, len(s.Values))
	for i := range t {
		t[i] = float64(i+1) * s.Step
	}
	return t
}

// Bounds returns the smallest and largest value.
func (s *Series) Bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range s.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Trace integrates n steps of size h from x0 and records component. When the
// state stops being finite the values so far are returned together with a
// *dynamo.SimulationError.
func Trace(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, h float64, n, component int) (*Series, error) {
	if err := dynamo.CheckDim(sys, x0); err != nil {
		return nil, err
	}
	if component < 0 || component >= len(x0) {
		return nil, fmt.Errorf("component %d out of range for %d components", component, len(x0))
	}
	if h <= 0 || n <= 0 {
		return nil, fmt.Errorf("step and iterations must be positive, got %f and %d", h, n)
	}

	s := &Series{Component: component, Step: h, Values: make([]float64, 0, n)}
	x := x0.Clone()
	for i := 0; i < n; i++ {
		x = integ.Step(sys, x, h)
		if !x.IsValid() {
			return s, &dynamo.SimulationError{Step: i, State: x, Wrapped: dynamo.ErrInvalidState}
		}
		s.Values = append(s.Values, x[component])
	}
	return s, nil
}
