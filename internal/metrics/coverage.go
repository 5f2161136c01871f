package metrics

import (
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/viz"
)

// Coverage is the fraction of steps whose traced point lands on a
// width x height surface.
type Coverage struct {
	name    string
	graph   viz.Graph
	trace   sim.Trace
	width   int
	height  int
	inside  int
	samples int
}

func NewCoverage(graph viz.Graph, trace sim.Trace, width, height int) *Coverage {
	return &Coverage{
		name:   "coverage",
		graph:  graph,
		trace:  trace,
		width:  width,
		height: height,
	}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) OnStep(_ int, x dynamo.State) {
	c.samples++
	if c.trace.X >= len(x) || c.trace.Y >= len(x) {
		return
	}
	px, py := c.graph.Map(x[c.trace.X], x[c.trace.Y])
	if px >= 0 && px < c.width && py >= 0 && py < c.height {
		c.inside++
	}
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return float64(c.inside) / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.inside = 0
	c.samples = 0
}
