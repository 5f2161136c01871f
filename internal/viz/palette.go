package viz

import (
	"fmt"
	"math"
)

// DefaultSteps is the number of interpolation steps between anchors used by
// the built-in plots.
const DefaultSteps = 256

// StdAnchors are the anchors of the "std" palette.
var StdAnchors = []Color{
	{0, 191, 127},
	{191, 127, 0},
	{127, 0, 191},
}

var namedPalettes = map[string][]Color{
	"std": StdAnchors,
}

// Palette is a closed loop of anchor colors with n linear steps between
// neighbours. The color of iteration i repeats every n*m iterations.
type Palette struct {
	anchors []Color
	n       int
}

func NewPalette(steps int, anchors ...Color) (*Palette, error) {
	if steps < 1 {
		return nil, fmt.Errorf("palette steps must be positive, got %d", steps)
	}
	if len(anchors) == 0 {
		return nil, fmt.Errorf("palette needs at least one anchor")
	}
	a := make([]Color, len(anchors))
	copy(a, anchors)
	return &Palette{anchors: a, n: steps}, nil
}

// NamedPalette returns a built-in palette.
func NamedPalette(name string, steps int) (*Palette, error) {
	anchors, ok := namedPalettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette: %s", name)
	}
	return NewPalette(steps, anchors...)
}

func StdPalette() *Palette {
	p, _ := NewPalette(DefaultSteps, StdAnchors...)
	return p
}

// Period is n*m.
func (p *Palette) Period() int { return p.n * len(p.anchors) }

func (p *Palette) Color(i int) Color {
	m := len(p.anchors)
	k := i % p.Period()
	if k < 0 {
		k += p.Period()
	}
	seg := k / p.n
	off := k % p.n

	c0 := p.anchors[seg]
	c1 := p.anchors[(seg+1)%m]
	t0 := float64(p.n-off) / float64(p.n)
	t1 := float64(off) / float64(p.n)

	return Color{
		R: lerp(c0.R, c1.R, t0, t1),
		G: lerp(c0.G, c1.G, t0, t1),
		B: lerp(c0.B, c1.B, t0, t1),
	}
}

func (p *Palette) Hex(i int) string { return p.Color(i).Hex() }

func lerp(a, b uint8, t0, t1 float64) uint8 {
	v := math.Floor(float64(a)*t0 + float64(b)*t1)
	return uint8(math.Max(0, math.Min(255, v)))
}
