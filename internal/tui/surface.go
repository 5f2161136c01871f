package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/viz"
)

type frameMsg struct{}

// CanvasSurface draws segments onto a braille canvas shared with the
// bubbletea view. Pump asks the program to repaint.
type CanvasSurface struct {
	mu     sync.Mutex
	canvas *viz.Canvas
	send   func(tea.Msg)
	closed bool
}

// NewCanvasSurface creates a surface of cols x rows terminal cells, which
// is 2*cols x 4*rows dots.
func NewCanvasSurface(cols, rows int) *CanvasSurface {
	return &CanvasSurface{canvas: viz.NewCanvas(cols, rows)}
}

// Attach sets the function used to post repaint messages, usually
// (*tea.Program).Send.
func (s *CanvasSurface) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *CanvasSurface) DrawSegment(x0, y0, x1, y1 int, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sim.ErrSurfaceClosed
	}
	s.canvas.DrawLine(x0, y0, x1, y1, color)
	return nil
}

func (s *CanvasSurface) Pump() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return sim.ErrSurfaceClosed
	}
	send := s.send
	s.mu.Unlock()

	if send != nil {
		send(frameMsg{})
	}
	return nil
}

func (s *CanvasSurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Clear()
	return nil
}

// Size is the canvas size in dots.
func (s *CanvasSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.PixelSize()
}

// Resize replaces the canvas. A plot already running keeps its mapping and
// is clipped to the new canvas.
func (s *CanvasSurface) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canvas.Width == cols && s.canvas.Height == rows {
		return
	}
	s.canvas = viz.NewCanvas(cols, rows)
}

// Close makes every later draw and pump fail, which ends the active run.
func (s *CanvasSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *CanvasSurface) Dots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Dots()
}

// View renders the canvas.
func (s *CanvasSurface) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.String()
}
