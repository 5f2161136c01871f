package physics

import "github.com/san-kum/chaosplot/internal/dynamo"

// AC7 indices into the state vector.
const (
	AC7V = iota
	AC7W
	AC7X
	AC7Y
)

// ac7Funcs are the per-component rates:
//
//	v' = -x^3 - xy^2 + x^2 - y^2
//	w' = -(y^3 + x^2y + 2xy)
//	x' = v
//	y' = w
var ac7Funcs = dynamo.DerivativeSet{
	AC7V: func(s dynamo.State) float64 {
		x, y := s[AC7X], s[AC7Y]
		return (1-x)*x*x - (x+1)*y*y
	},
	AC7W: func(s dynamo.State) float64 {
		x, y := s[AC7X], s[AC7Y]
		return -(y*y + x*x + 2*x) * y
	},
	AC7X: func(s dynamo.State) float64 { return s[AC7V] },
	AC7Y: func(s dynamo.State) float64 { return s[AC7W] },
}

type AC7 struct{}

func NewAC7() *AC7 { return &AC7{} }

func (a *AC7) Dim() int { return 4 }

func (a *AC7) Derive(s dynamo.State) dynamo.State { return ac7Funcs.Derive(s) }

func (a *AC7) DefaultState() dynamo.State { return dynamo.State{0, 0, 0.5, 0.5} }

// Trace is the (x, y) pair drawn on the canvas.
func (a *AC7) Trace() [][2]int { return [][2]int{{AC7X, AC7Y}} }
