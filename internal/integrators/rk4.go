package integrators

import "github.com/san-kum/chaosplot/internal/dynamo"

// RK4 is the classical fixed-step fourth-order Runge-Kutta scheme. Each k
// already carries the step size: k = f(x)*h.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// Step advances x by h. x is left untouched; the result is a new State.
func (r *RK4) Step(sys dynamo.System, x dynamo.State, h float64) dynamo.State {
	if err := dynamo.CheckDim(sys, x); err != nil {
		panic(err)
	}
	n := len(x)
	r.ensureScratch(n)

	r.eval(sys, x, r.k1, h)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k1[i]*0.5
	}
	r.eval(sys, r.scratch, r.k2, h)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k2[i]*0.5
	}
	r.eval(sys, r.scratch, r.k3, h)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k3[i]
	}
	r.eval(sys, r.scratch, r.k4, h)

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + (r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])/6
	}

	return result
}

func (r *RK4) eval(sys dynamo.System, x, k dynamo.State, h float64) {
	dx := sys.Derive(x)
	for i := range k {
		k[i] = dx[i] * h
	}
}
