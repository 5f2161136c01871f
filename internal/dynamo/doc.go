// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental types for fixed-step numerical
// integration of autonomous ordinary differential equations (dX/dt = f(X)):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems
//   - [DerivativeSet]: one derivative function per state component
//   - [Integrator]: numerical integrator interface
//
// # Example
//
//	decay := dynamo.DerivativeSet{func(x dynamo.State) float64 { return -x[0] }}
//	integ := integrators.NewRK4()
//	x := dynamo.State{1}
//	for i := 0; i < 100; i++ {
//	    x = integ.Step(decay, x, 0.05)
//	}
//
// # Thread Safety
//
// States and systems are plain values. Integrators keep scratch buffers and
// must not be shared between goroutines.
package dynamo
