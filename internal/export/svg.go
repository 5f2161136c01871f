package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/viz"
)

// DefaultBackground matches the plain canvas the plots were designed on.
var DefaultBackground = viz.RGB(255, 255, 255)

type svgLine struct {
	x0, y0, x1, y1 int
	color          string
}

// SVGSurface collects segments and writes them as an SVG document. Segments
// entirely outside the document are dropped.
type SVGSurface struct {
	mu         sync.Mutex
	width      int
	height     int
	background viz.Color
	strokeW    float64
	lines      []svgLine
	closed     bool
}

func NewSVGSurface(width, height int) *SVGSurface {
	return &SVGSurface{
		width:      width,
		height:     height,
		background: DefaultBackground,
		strokeW:    1,
	}
}

// SetBackground changes the fill of the backing rect.
func (s *SVGSurface) SetBackground(c viz.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

func (s *SVGSurface) Size() (int, int) { return s.width, s.height }

func (s *SVGSurface) DrawSegment(x0, y0, x1, y1 int, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sim.ErrSurfaceClosed
	}
	x0, y0, x1, y1, ok := viz.ClipLine(x0, y0, x1, y1, s.width, s.height)
	if !ok {
		return nil
	}
	s.lines = append(s.lines, svgLine{x0, y0, x1, y1, color})
	return nil
}

func (s *SVGSurface) Pump() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sim.ErrSurfaceClosed
	}
	return nil
}

func (s *SVGSurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = s.lines[:0]
	return nil
}

// Close makes further draws fail with sim.ErrSurfaceClosed.
func (s *SVGSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len reports the number of recorded segments.
func (s *SVGSurface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	fmt.Fprintf(cw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke-width="%.1f" stroke-linecap="round">
`, s.width, s.height, s.width, s.height, s.background.Hex(), s.strokeW)

	for _, l := range s.lines {
		fmt.Fprintf(cw, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>
`, l.x0, l.y0, l.x1, l.y1, l.color)
	}
	fmt.Fprint(cw, "</g>\n</svg>\n")

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

// Save writes the document to path.
func (s *SVGSurface) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	return f.Close()
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
