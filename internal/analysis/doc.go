// Package analysis runs plots headlessly to study a single state component.
//
//   - [Trace]: values of one component over a fixed number of RK4 steps
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [WriteChart]: PNG line chart of a traced series
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sys, integ, x0, h, 2000, 1e-8)
//	if lambda > 0 {
//	    // trajectory is chaotic
//	}
package analysis
