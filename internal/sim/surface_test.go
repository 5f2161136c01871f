package sim_test

import (
	"sync"

	"github.com/san-kum/chaosplot/internal/sim"
)

type segment struct {
	x0, y0, x1, y1 int
	color          string
}

// recordingSurface counts calls and can be told to fail or to run a hook
// after a given number of draws.
type recordingSurface struct {
	mu       sync.Mutex
	segments []segment
	attempts int
	pumps    int
	failDraw bool
	failPump bool
	onDraw   func(n int)
}

func (r *recordingSurface) DrawSegment(x0, y0, x1, y1 int, color string) error {
	r.mu.Lock()
	r.attempts++
	if r.failDraw {
		r.mu.Unlock()
		return sim.ErrSurfaceClosed
	}
	r.segments = append(r.segments, segment{x0, y0, x1, y1, color})
	n := len(r.segments)
	hook := r.onDraw
	r.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return nil
}

func (r *recordingSurface) Pump() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pumps++
	if r.failPump {
		return sim.ErrSurfaceClosed
	}
	return nil
}

func (r *recordingSurface) draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.segments)
}
