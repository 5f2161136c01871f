package viz

import "math"

// MaxCoord bounds mapped pixel coordinates so that runaway trajectories
// still convert to int safely.
const MaxCoord = 1 << 24

// Graph is an affine map from simulation space to pixel space:
//
//	px = floor((x + OriginX) * ScaleX)
//	py = floor((y + OriginY) * ScaleY)
type Graph struct {
	OriginX, ScaleX float64
	OriginY, ScaleY float64
}

func NewGraph(originX, scaleX, originY, scaleY float64) Graph {
	return Graph{OriginX: originX, ScaleX: scaleX, OriginY: originY, ScaleY: scaleY}
}

// FitGraph scales a span of simulation units onto a width x height surface.
func FitGraph(originX, spanX, originY, spanY float64, width, height int) Graph {
	return NewGraph(originX, float64(width)/spanX, originY, float64(height)/spanY)
}

// Project is Map without rounding.
func (g Graph) Project(x, y float64) (float64, float64) {
	return (x + g.OriginX) * g.ScaleX, (y + g.OriginY) * g.ScaleY
}

func (g Graph) Map(x, y float64) (int, int) {
	px, py := g.Project(x, y)
	return toPixel(px), toPixel(py)
}

// Unmap is the inverse of Project.
func (g Graph) Unmap(px, py float64) (float64, float64) {
	return px/g.ScaleX - g.OriginX, py/g.ScaleY - g.OriginY
}

func toPixel(v float64) int {
	v = math.Floor(v)
	if math.IsNaN(v) {
		return 0
	}
	if v > MaxCoord {
		return MaxCoord
	}
	if v < -MaxCoord {
		return -MaxCoord
	}
	return int(v)
}
