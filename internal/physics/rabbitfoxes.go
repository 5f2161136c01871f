package physics

import (
	"fmt"

	"github.com/san-kum/chaosplot/internal/dynamo"
)

// RabbitFoxes is a restricted three-body pursuit. Body 1 (the rabbit) is
// pushed by both foxes and damped by drag; bodies 2 and 3 (the foxes) only
// feel the rabbit, relaxed by gain:
//
//	u1' = (x1-x2)/r12² + (x1-x3)/r13² - drag*u1
//	u2' = gain*((x1-x2)/r12² - u2)
//	u3' = gain*((x1-x3)/r13² - u3)
//
// and likewise for the v components with y.
type RabbitFoxes struct {
	drag float64
	gain float64
}

func NewRabbitFoxes() *RabbitFoxes {
	return &RabbitFoxes{drag: 3.0, gain: 0.5}
}

func (r *RabbitFoxes) Dim() int { return 12 }

func (r *RabbitFoxes) Derive(s dynamo.State) dynamo.State {
	x1, y1, x2, y2, x3, y3 := s[0], s[1], s[2], s[3], s[4], s[5]
	u1, v1, u2, v2, u3, v3 := s[6], s[7], s[8], s[9], s[10], s[11]

	r12s := distSq(x1, y1, x2, y2)
	r13s := distSq(x1, y1, x3, y3)
	rx12 := (x1 - x2) / r12s
	rx13 := (x1 - x3) / r13s
	ry12 := (y1 - y2) / r12s
	ry13 := (y1 - y3) / r13s

	return dynamo.State{
		u1, v1, u2, v2, u3, v3,
		rx12 + rx13 - r.drag*u1,
		ry12 + ry13 - r.drag*v1,
		r.gain * (rx12 - u2),
		r.gain * (ry12 - v2),
		r.gain * (rx13 - u3),
		r.gain * (ry13 - v3),
	}
}

func distSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

func (r *RabbitFoxes) DefaultState() dynamo.State {
	return dynamo.State{
		0.5, 1, // rabbit
		1, 0.1, // fox 1
		0, 2, // fox 2
		0, 0,
		-0.4, 0.4,
		0.4, 0,
	}
}

// Trace draws the rabbit only.
func (r *RabbitFoxes) Trace() [][2]int { return [][2]int{{0, 1}} }

// Bodies traces the rabbit and both foxes.
func (r *RabbitFoxes) Bodies() [][2]int { return [][2]int{{0, 1}, {2, 3}, {4, 5}} }

// Params implements dynamo.Configurable
func (r *RabbitFoxes) Params() map[string]float64 {
	return map[string]float64{
		"drag": r.drag,
		"gain": r.gain,
	}
}

// SetParam implements dynamo.Configurable
func (r *RabbitFoxes) SetParam(name string, value float64) error {
	switch name {
	case "drag":
		r.drag = value
	case "gain":
		if value <= 0 {
			return fmt.Errorf("%w: gain must be positive, got %f", dynamo.ErrParameterBounds, value)
		}
		r.gain = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}
