// Package metrics holds per-step observers that summarize a run.
package metrics

import "github.com/san-kum/chaosplot/internal/sim"

// Metric is a sim.Observer that reduces a run to a single number.
type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	Reset()
}
