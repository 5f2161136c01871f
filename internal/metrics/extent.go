package metrics

import (
	"math"

	"github.com/san-kum/chaosplot/internal/config"
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/sim"
)

// Extent tracks the bounding box of one traced component pair.
type Extent struct {
	name       string
	trace      sim.Trace
	minX, maxX float64
	minY, maxY float64
	samples    int
}

func NewExtent(trace sim.Trace) *Extent {
	e := &Extent{name: "extent", trace: trace}
	e.Reset()
	return e
}

func (e *Extent) Name() string { return e.name }

func (e *Extent) OnStep(_ int, x dynamo.State) {
	if e.trace.X >= len(x) || e.trace.Y >= len(x) {
		return
	}
	vx, vy := x[e.trace.X], x[e.trace.Y]
	if math.IsNaN(vx) || math.IsNaN(vy) {
		return
	}
	e.minX = math.Min(e.minX, vx)
	e.maxX = math.Max(e.maxX, vx)
	e.minY = math.Min(e.minY, vy)
	e.maxY = math.Max(e.maxY, vy)
	e.samples++
}

// Value is the area of the bounding box.
func (e *Extent) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return (e.maxX - e.minX) * (e.maxY - e.minY)
}

func (e *Extent) Reset() {
	e.minX, e.minY = math.Inf(1), math.Inf(1)
	e.maxX, e.maxY = math.Inf(-1), math.Inf(-1)
	e.samples = 0
}

// Bounds returns the observed box. ok is false before the first step.
func (e *Extent) Bounds() (minX, maxX, minY, maxY float64, ok bool) {
	return e.minX, e.maxX, e.minY, e.maxY, e.samples > 0
}

// Fit returns a graph that frames the observed box with a margin given as
// a fraction of each side.
func (e *Extent) Fit(margin float64) (config.GraphConfig, bool) {
	if e.samples == 0 {
		return config.GraphConfig{}, false
	}
	spanX := nonZero(e.maxX - e.minX)
	spanY := nonZero(e.maxY - e.minY)
	return config.GraphConfig{
		OriginX: -e.minX + margin*spanX,
		OriginY: -e.minY + margin*spanY,
		SpanX:   spanX * (1 + 2*margin),
		SpanY:   spanY * (1 + 2*margin),
	}, true
}

func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
