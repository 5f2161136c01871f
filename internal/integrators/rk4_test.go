package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/chaosplot/internal/dynamo"
)

func decay(k float64) dynamo.DerivativeSet {
	return dynamo.DerivativeSet{
		func(x dynamo.State) float64 { return -k * x[0] },
		func(x dynamo.State) float64 { return -k * x[1] },
	}
}

func oscillator() dynamo.DerivativeSet {
	return dynamo.DerivativeSet{
		func(x dynamo.State) float64 { return x[1] },
		func(x dynamo.State) float64 { return -x[0] },
	}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(oscillator(), x, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4ExponentialDecay(t *testing.T) {
	tests := []struct {
		k, h  float64
		steps int
		tol   float64
	}{
		{k: 1.0, h: 0.05, steps: 200, tol: 1e-6},
		{k: 0.5, h: 0.1, steps: 100, tol: 1e-6},
		{k: 2.0, h: 0.01, steps: 500, tol: 1e-9},
	}

	for _, tt := range tests {
		integ := NewRK4()
		x0 := dynamo.State{1.5, -3.0}
		x := x0
		for i := 0; i < tt.steps; i++ {
			x = integ.Step(decay(tt.k), x, tt.h)
		}

		factor := math.Exp(-tt.k * float64(tt.steps) * tt.h)
		for j := range x0 {
			want := x0[j] * factor
			if math.Abs(x[j]-want) > tt.tol {
				t.Errorf("k=%.2f h=%.3f component %d: got %.10f, want %.10f", tt.k, tt.h, j, x[j], want)
			}
		}
	}
}

// A single step of RK4 on exponential decay matches the 4th-order Taylor
// polynomial exactly, so the local error shrinks as h^5.
func TestRK4LocalErrorOrder(t *testing.T) {
	localErr := func(h float64) float64 {
		x := NewRK4().Step(decay(1), dynamo.State{1, 1}, h)
		return math.Abs(x[0] - math.Exp(-h))
	}

	e1 := localErr(0.1)
	e2 := localErr(0.05)
	ratio := e1 / e2

	// 2^5 = 32 in the asymptotic limit
	if ratio < 28 || ratio > 36 {
		t.Errorf("expected local error ratio near 32, got %.2f", ratio)
	}
}

func TestRK4Deterministic(t *testing.T) {
	x0 := dynamo.State{0.3, -0.7}
	a := NewRK4().Step(oscillator(), x0, 0.05)
	b := NewRK4().Step(oscillator(), x0, 0.05)

	for i := range a {
		if a[i] != b[i] {
			t.Errorf("component %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	x0 := dynamo.State{1, 2}
	next := NewRK4().Step(oscillator(), x0, 0.1)

	if x0[0] != 1 || x0[1] != 2 {
		t.Errorf("input mutated: %v", x0)
	}
	if &next[0] == &x0[0] {
		t.Error("result aliases input")
	}
}

func TestRK4DimensionMismatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, dynamo.ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch panic, got %v", r)
		}
	}()

	NewRK4().Step(oscillator(), dynamo.State{1, 2, 3}, 0.1)
}
